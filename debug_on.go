//go:build gpucmddebug

package gpucmd

// debugChecks reports whether invariant assertions are compiled in.
const debugChecks = true

// assert panics with msg when cond is false.
func assert(cond bool, msg string) {
	if !cond {
		panic("gpucmd: " + msg)
	}
}
