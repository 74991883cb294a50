package rtobject_test

import (
	"fmt"

	"github.com/aradilov/rtobject"
)

// A control goroutine hands fresh filter coefficients to an audio callback
// that is never allowed to block.
func ExampleNonRealtimeMutatable() {
	type Coeffs struct{ Gain float64 }

	obj := rtobject.NewNonRealtimeMutatable(Coeffs{Gain: 0.5})

	// Control thread: publish new coefficients. May block briefly.
	obj.NonRealtimeReplace(Coeffs{Gain: 0.8})

	// Audio callback: wait-free access to the latest value.
	var a rtobject.RealtimeAccess[Coeffs]
	c := a.Acquire(obj)
	fmt.Println(c.Gain)
	a.Release()

	// Output: 0.8
}

// A realtime control loop owns the state and mutates it wait-free; a UI
// goroutine samples consistent snapshots. Readers only make progress while
// the realtime side keeps cycling.
func ExampleRealtimeMutatable() {
	type State struct{ Position int }

	obj := rtobject.NewRealtimeMutatable(State{})
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() { // the realtime loop
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				obj.RealtimeUpdate(func(s *State) { s.Position = 42 })
			}
		}
	}()

	// UI thread: blocks until the loop hands over a snapshot.
	s := obj.NonRealtimeAcquire()
	fmt.Println(s.Position)
	obj.NonRealtimeRelease()

	close(stop)
	<-done

	// Output: 42
}
