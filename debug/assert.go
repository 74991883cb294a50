//go:build debug

package debug

// Guard assertions whose condition is itself costly with
// `if debug.Enabled {...}` so release builds drop the whole check.
const Enabled = true

// Assert panics with message if b is false.
func Assert(b bool, message string) {
	if !b {
		panic(message)
	}
}
