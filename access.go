package rtobject

import "github.com/aradilov/rtobject/debug"

// RealtimeSide is the wait-free acquire/release pair of either
// configuration, as seen from the realtime goroutine.
type RealtimeSide[T any] interface {
	RealtimeAcquire() *T
	RealtimeRelease()
}

// NonRealtimeSide is the locking acquire/release pair of either
// configuration, as seen from non-realtime goroutines.
type NonRealtimeSide[T any] interface {
	NonRealtimeAcquire() *T
	NonRealtimeRelease()
}

// RealtimeAccess binds a realtime acquire/release pair to one explicit
// bracket. Declare it as a local variable on the realtime goroutine (the
// zero value is ready, nothing is allocated), call Acquire once and Release
// once:
//
//	var a rtobject.RealtimeAccess[Coeffs]
//	c := a.Acquire(obj)
//	... use c ...
//	a.Release()
//
// The guard must not be copied; `go vet` flags attempts. Whether the
// returned pointer may be written is decided by the object's configuration:
// mutate only through a RealtimeMutatable.
type RealtimeAccess[T any] struct {
	noCopy noCopy
	obj    RealtimeSide[T]
	val    *T
}

// Acquire enters the realtime critical section on obj and returns the
// value. Wait-free.
func (a *RealtimeAccess[T]) Acquire(obj RealtimeSide[T]) *T {
	if debug.Enabled {
		debug.Assert(a.obj == nil, "rtobject: RealtimeAccess acquired twice")
	}
	a.obj = obj
	a.val = obj.RealtimeAcquire()
	return a.val
}

// Get returns the value acquired by Acquire.
func (a *RealtimeAccess[T]) Get() *T { return a.val }

// Release ends the bracket started by Acquire. Wait-free.
func (a *RealtimeAccess[T]) Release() {
	if debug.Enabled {
		debug.Assert(a.obj != nil, "rtobject: RealtimeAccess released without acquire")
	}
	obj := a.obj
	a.obj = nil
	a.val = nil
	obj.RealtimeRelease()
}

// NonRealtimeAccess is the non-realtime counterpart of RealtimeAccess.
// Typically used with defer, since this side may block anyway:
//
//	var a rtobject.NonRealtimeAccess[Coeffs]
//	c := a.Acquire(obj)
//	defer a.Release()
//	... read or mutate c per the object's configuration ...
//
// The guard must not be copied. Mutate the value only through a
// NonRealtimeMutatable; release publishes it there.
type NonRealtimeAccess[T any] struct {
	noCopy noCopy
	obj    NonRealtimeSide[T]
	val    *T
}

// Acquire enters a non-realtime critical section on obj and returns the
// value. May block behind other non-realtime callers.
func (a *NonRealtimeAccess[T]) Acquire(obj NonRealtimeSide[T]) *T {
	if debug.Enabled {
		debug.Assert(a.obj == nil, "rtobject: NonRealtimeAccess acquired twice")
	}
	a.obj = obj
	a.val = obj.NonRealtimeAcquire()
	return a.val
}

// Get returns the value acquired by Acquire.
func (a *NonRealtimeAccess[T]) Get() *T { return a.val }

// Release ends the bracket started by Acquire. On a NonRealtimeMutatable
// this publishes the slot and may spin until the realtime side acknowledges
// the handover.
func (a *NonRealtimeAccess[T]) Release() {
	if debug.Enabled {
		debug.Assert(a.obj != nil, "rtobject: NonRealtimeAccess released without acquire")
	}
	obj := a.obj
	a.obj = nil
	a.val = nil
	obj.NonRealtimeRelease()
}
