// Package rtobject synchronises access to a single value of type T between
// one designated realtime goroutine and any number of non-realtime
// goroutines. The realtime side never blocks: its acquire/release pair is a
// bounded sequence of atomic operations with no locks, no retry loops and no
// allocation. The non-realtime side uses an ordinary mutex and may block.
//
// Two configurations exist, chosen by type:
//
//	NonRealtimeMutatable[T]  non-realtime side mutates (locked),
//	                         realtime side reads (wait-free)
//	RealtimeMutatable[T]     realtime side mutates (wait-free),
//	                         non-realtime side reads (locked)
//
// The mutating methods only exist on the type designated as mutator, so
// calling a replace from the wrong side does not compile.
package rtobject

// Control word layout. The two value slots plus this word are the only state
// shared between the realtime and non-realtime sides.
//
//	indexBit   which slot new realtime acquisitions will see
//	busyBit    set while the realtime side is inside acquire..release
//	pendingBit a finished private slot is waiting for the realtime side's
//	           next release to be swapped live
const (
	indexBit   = 1 << 0
	busyBit    = 1 << 1
	pendingBit = 1 << 2
)

const goschedEvery = 64 // reduce runtime.Gosched() frequency in hot loops

// noCopy makes `go vet` flag copies of values that embed it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
