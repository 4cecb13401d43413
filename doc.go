// Package gpucmd provides a deferred command layer that sits between a 2D
// drawing API and a GPU backend.
//
// # Overview
//
// Instead of issuing draws, clears and copies immediately, callers record
// them into a [Commands] buffer. The recorder deduplicates redundant pipeline
// state and folds compatible requests into the trailing record, and a single
// [Commands.Flush] later replays the surviving records against a [Backend]
// in recorded order.
//
// # Quick Start
//
//	cmds := gpucmd.New(pipelines, pool, batchTarget)
//
//	cmds.RecordClear(nil, gpucmd.PackColor(0, 0, 0, 255), false, target)
//	cmds.RecordDrawPaths(glyphProc, glyphs, idx, gpucmd.PathIndexU16,
//	    xforms, gpucmd.PathTransformTranslate, n, gpucmd.WindingPathStencil(), info)
//
//	cmds.Flush(backend)
//	cmds.Reset()
//
// # Architecture
//
// The package is organized into:
//   - CommandBuffer: append-only ordered list of command records
//   - SetStateCmd: pipeline/program state records, deduplicated at record time
//   - Commands: the recording API with the DrawBatch and DrawPaths merge rules
//   - Flush: one traversal (optionally preceded by a batch precompute pass)
//
// Collaborators are supplied through small interfaces: [PipelineLayer]
// materializes and compares pipelines, [PathDataPool] stores index and
// transform bytes for instanced path draws, [Batch] and [BatchTarget]
// generate and account geometry, and [Backend] executes the primitive
// operations.
//
// # Skip Signals
//
// A pipeline that reports it must be skipped (fully clipped, no-op blend)
// causes the Record* call to return nil. That is not an error: the request
// contributes nothing and no record is kept.
//
// # Invariant Checks
//
// Programmer errors (a draw record with no active state, a non-premultiplied
// clear color) are checked by assertions that panic when built with the
// gpucmddebug build tag and are compiled out otherwise.
//
// # Thread Safety
//
// Commands is not safe for concurrent use. Recording and flushing belong to
// the goroutine that owns the rendering context. SetLogger, Logger and the
// backend registry are safe for concurrent use.
//
// # Logging
//
// By default the package produces no log output. Use [SetLogger] to enable
// diagnostics.
package gpucmd
