package dispatch

// Outcome is the result of running one request. Exactly one of the two
// shapes is used: a success with optional text, or a failure trace.
type Outcome struct {
	// Text is the rendered value or the failure trace.
	Text string

	// Present is false when a success produced no textual value.
	Present bool

	// Failed marks Text as a failure trace.
	Failed bool
}

// Value returns a successful outcome carrying text.
func Value(text string) Outcome {
	return Outcome{Text: text, Present: true}
}

// Empty returns a successful outcome with no value.
func Empty() Outcome {
	return Outcome{}
}

// Failure returns an outcome carrying a formatted trace.
func Failure(trace string) Outcome {
	return Outcome{Text: trace, Present: true, Failed: true}
}

// Slot is a capacity-one handoff from the host main thread to the
// dispatcher goroutine.
//
// Contract:
// - Concurrency: one writer and one reader may use the slot concurrently.
// - A deposited Outcome is received by exactly one Take.
// - Put never blocks; depositing into a full slot returns ErrSlotFull.
type Slot struct {
	ch chan Outcome
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{ch: make(chan Outcome, 1)}
}

// Put deposits an outcome.
func (s *Slot) Put(o Outcome) error {
	select {
	case s.ch <- o:
		return nil
	default:
		return ErrSlotFull
	}
}

// Take blocks until an outcome is available and removes it. There is no
// timeout: a host that never runs the scheduled task stalls the caller.
func (s *Slot) Take() Outcome {
	return <-s.ch
}
