// Package synth provides small, deterministic implementations of the
// gpucmd collaborator interfaces: surfaces, paths, primitives, a pipeline
// layer with Porter-Duff blend modes, rectangle batches and a batch target.
//
// It backs the replay tool and the tests of the backends. Nothing in it
// touches a device.
package synth
