//go:build !debug

// Package debug provides precondition assertions that are enabled with the
// debug build tag and otherwise compile to no-ops. Contract violations in
// rtobject (unmatched acquire/release, a second realtime caller) are
// undefined behavior by design; this layer is the only place they surface,
// and it must stay off the realtime fast path in release builds.
package debug

// Guard assertions whose condition is itself costly with
// `if debug.Enabled {...}` so release builds drop the whole check.
const Enabled = false

// Assert panics with message if b is false.
func Assert(b bool, message string) {}
