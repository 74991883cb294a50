package rtobject

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/aradilov/rtobject/debug"
)

// RealtimeMutatable holds a value of type T that the realtime goroutine
// mutates and non-realtime goroutines read.
//
// The realtime pair (RealtimeAcquire/RealtimeRelease) is wait-free and
// returns the live slot for in-place mutation; the realtime side's working
// state persists across acquire/release cycles. Only a single realtime
// goroutine may use it at once (caller contract, not checked at runtime).
//
// NonRealtimeAcquire requests a snapshot and waits until the realtime side's
// next release hands one over. It therefore requires a realtime side that
// keeps cycling through acquire/release: with an idle realtime goroutine the
// reader waits indefinitely. Readers take a mutex and are served one at a
// time; each observes a complete T exactly as it was at some realtime
// release.
type RealtimeMutatable[T any] struct {
	_     [64]byte
	ctrl  atomic.Uint32
	_     [64]byte
	slots [2]T
	_     [64]byte
	mu    sync.Mutex
}

// NewRealtimeMutatable creates the object with both slots holding a copy of
// initial. The zero value is also ready to use and holds a zero T.
func NewRealtimeMutatable[T any](initial T) *RealtimeMutatable[T] {
	o := &RealtimeMutatable[T]{}
	o.slots[0] = initial
	o.slots[1] = initial
	return o
}

// NewRealtimeMutatableInit creates the object and builds each slot's value
// in place by calling init on the slot's storage.
func NewRealtimeMutatableInit[T any](init func(*T)) *RealtimeMutatable[T] {
	o := &RealtimeMutatable[T]{}
	init(&o.slots[0])
	init(&o.slots[1])
	return o
}

// RealtimeAcquire returns the live slot for reading and mutation. It must be
// paired with RealtimeRelease, and the pointer must not be used after that
// release. Wait-free; safe only from the single designated realtime
// goroutine.
func (o *RealtimeMutatable[T]) RealtimeAcquire() *T {
	old := o.ctrl.Or(busyBit)
	if debug.Enabled {
		debug.Assert(old&busyBit == 0, "rtobject: realtime acquire while already acquired")
	}
	return &o.slots[old&indexBit]
}

// RealtimeRelease ends the realtime critical section. If a reader requested
// a snapshot while the section was open, the current value is copied into
// the private slot and the slots are swapped: the reader gets the settled
// copy, the realtime side keeps working on the same state in the other
// slot. Wait-free: bounded work (one T copy at most), no lock, no retry.
func (o *RealtimeMutatable[T]) RealtimeRelease() {
	old := o.ctrl.And(^uint32(busyBit))
	if debug.Enabled {
		debug.Assert(old&busyBit != 0, "rtobject: realtime release without acquire")
	}
	if old&pendingBit != 0 {
		// The reader that set pendingBit is spinning on it under the
		// mutex, so ctrl and the private slot are ours until the store.
		live := old & indexBit
		o.slots[live^1] = o.slots[live]
		o.ctrl.Store(live ^ indexBit)
	}
}

// RealtimeReplace publishes a whole new value from the realtime side:
// acquire, overwrite in place, release. Wait-free.
func (o *RealtimeMutatable[T]) RealtimeReplace(v T) {
	p := o.RealtimeAcquire()
	*p = v
	o.RealtimeRelease()
}

// RealtimeUpdate mutates the value in place inside a single
// acquire/release bracket. Wait-free apart from the update function itself.
func (o *RealtimeMutatable[T]) RealtimeUpdate(update func(*T)) {
	p := o.RealtimeAcquire()
	update(p)
	o.RealtimeRelease()
}

// NonRealtimeAcquire returns a read-only snapshot of the value as of the
// realtime side's next release. It must be paired with NonRealtimeRelease,
// and the pointer must not be used or written after that release. Blocks on
// the slow-side mutex behind other readers and spins cooperatively until
// the realtime side acknowledges the handover.
func (o *RealtimeMutatable[T]) NonRealtimeAcquire() *T {
	o.mu.Lock()
	o.ctrl.Or(pendingBit)
	var spins uint32
	for {
		cur := o.ctrl.Load()
		if cur&pendingBit == 0 {
			return &o.slots[(cur&indexBit)^1]
		}
		spins++
		if spins%goschedEvery == 0 {
			runtime.Gosched()
		}
	}
}

// NonRealtimeRelease ends the snapshot's lifetime and lets the next reader
// in.
func (o *RealtimeMutatable[T]) NonRealtimeRelease() {
	o.mu.Unlock()
}
