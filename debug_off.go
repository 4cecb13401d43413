//go:build !gpucmddebug

package gpucmd

const debugChecks = false

// assert is compiled out in release builds; invariant violations are
// undefined behavior.
func assert(bool, string) {}
