package rtobject

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/aradilov/rtobject/debug"
)

// NonRealtimeMutatable holds a value of type T that non-realtime goroutines
// replace and the realtime goroutine reads.
//
// The realtime pair (RealtimeAcquire/RealtimeRelease) is wait-free: a fixed
// number of atomic operations, no lock, no allocation. Only a single
// realtime goroutine may use it at once; that is a caller contract, not
// checked at runtime. The non-realtime pair takes a mutex and may block.
//
// The value handed to the realtime side is always a complete T: publication
// is a single atomic flip of the live slot index, performed either while no
// realtime critical section is open or deferred into the realtime side's own
// release. If replacements outpace the realtime side, intermediate values
// are skipped; the realtime side always sees the latest published one.
type NonRealtimeMutatable[T any] struct {
	// Padding keeps the control word off the slots' cache lines; the
	// realtime side hammers ctrl while writers fill the private slot.
	_     [64]byte
	ctrl  atomic.Uint32
	_     [64]byte
	slots [2]T
	_     [64]byte
	mu    sync.Mutex
}

// NewNonRealtimeMutatable creates the object with both slots holding a copy
// of initial. The zero value is also ready to use and holds a zero T.
func NewNonRealtimeMutatable[T any](initial T) *NonRealtimeMutatable[T] {
	o := &NonRealtimeMutatable[T]{}
	o.slots[0] = initial
	o.slots[1] = initial
	return o
}

// NewNonRealtimeMutatableInit creates the object and builds each slot's
// value in place by calling init on the slot's storage, avoiding an
// intermediate value for types that are expensive to copy.
func NewNonRealtimeMutatableInit[T any](init func(*T)) *NonRealtimeMutatable[T] {
	o := &NonRealtimeMutatable[T]{}
	init(&o.slots[0])
	init(&o.slots[1])
	return o
}

// RealtimeAcquire returns the current value. It must be paired with
// RealtimeRelease, and the pointer must not be used or written after that
// release. Wait-free; safe only from the single designated realtime
// goroutine.
func (o *NonRealtimeMutatable[T]) RealtimeAcquire() *T {
	old := o.ctrl.Or(busyBit)
	if debug.Enabled {
		debug.Assert(old&busyBit == 0, "rtobject: realtime acquire while already acquired")
	}
	return &o.slots[old&indexBit]
}

// RealtimeRelease ends the realtime critical section. If a replacement was
// published while the section was open, the deferred handover is finalized
// here: the prepared private slot becomes live. Wait-free.
func (o *NonRealtimeMutatable[T]) RealtimeRelease() {
	old := o.ctrl.And(^uint32(busyBit))
	if debug.Enabled {
		debug.Assert(old&busyBit != 0, "rtobject: realtime release without acquire")
	}
	if old&pendingBit != 0 {
		// The writer that set pendingBit is spinning on it under the
		// mutex, so nothing else touches ctrl until this store lands.
		o.ctrl.Store((old & indexBit) ^ indexBit)
	}
}

// NonRealtimeAcquire returns the private slot, seeded with the latest
// published value, for reading or mutation. It must be paired with
// NonRealtimeRelease, which publishes the slot's content. Takes the
// slow-side mutex; any number of non-realtime goroutines may call this, one
// at a time.
func (o *NonRealtimeMutatable[T]) NonRealtimeAcquire() *T {
	o.mu.Lock()
	// No handover can be pending here: every publish completes before the
	// mutex is released, so the live index is stable while we hold it.
	live := o.ctrl.Load() & indexBit
	o.slots[live^1] = o.slots[live]
	return &o.slots[live^1]
}

// NonRealtimeRelease publishes the private slot and drops the mutex. If the
// realtime side is inside a critical section the swap is deferred to its
// next release and this call spins cooperatively until the handover is
// acknowledged. The realtime side is never delayed, only this caller.
func (o *NonRealtimeMutatable[T]) NonRealtimeRelease() {
	o.publish()
	o.mu.Unlock()
}

// NonRealtimeReplace publishes a new value, overwriting the private slot.
// Self-contained: do not call it between NonRealtimeAcquire and
// NonRealtimeRelease.
func (o *NonRealtimeMutatable[T]) NonRealtimeReplace(v T) {
	o.mu.Lock()
	o.slots[(o.ctrl.Load()&indexBit)^1] = v
	o.publish()
	o.mu.Unlock()
}

// NonRealtimeUpdate publishes the result of mutating the latest published
// value in place. The update function runs under the slow-side mutex against
// the private slot, so concurrent updates never lose increments.
func (o *NonRealtimeMutatable[T]) NonRealtimeUpdate(update func(*T)) {
	o.mu.Lock()
	live := o.ctrl.Load() & indexBit
	o.slots[live^1] = o.slots[live]
	update(&o.slots[live^1])
	o.publish()
	o.mu.Unlock()
}

// publish makes the private slot live. Caller must hold o.mu.
//
// If the realtime side is not inside a critical section the index is flipped
// directly with a CAS. Otherwise pendingBit is set and we wait for the
// realtime side's next release to perform the flip. The wait assumes the
// realtime side runs frequently and briefly; a realtime goroutine that never
// releases stalls this caller, not the other way around.
func (o *NonRealtimeMutatable[T]) publish() {
	var spins uint32
	for {
		cur := o.ctrl.Load()
		if cur&busyBit == 0 {
			// pendingBit cannot be set: only the mutex holder sets it
			// and always sees it consumed before unlocking.
			if o.ctrl.CompareAndSwap(cur, (cur&indexBit)^indexBit) {
				return
			}
			// Lost to a realtime acquire, retry.
		} else if o.ctrl.CompareAndSwap(cur, cur|pendingBit) {
			for o.ctrl.Load()&pendingBit != 0 {
				spins++
				if spins%goschedEvery == 0 {
					runtime.Gosched()
				}
			}
			return
		}
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}
