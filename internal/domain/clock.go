package domain

import "github.com/jonboulle/clockwork"

// clock stamps IngestedAt on normalized events. Tests freeze it via SetClock
// so event construction stays deterministic.
var clock = clockwork.NewRealClock()

// SetClock swaps the normalization time source. Pass nil to restore the real
// clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
