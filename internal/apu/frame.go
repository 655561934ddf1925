package apu

// Frame sequencer step thresholds, counted in APU ticks. The sequencer
// is clocked once every other CPU cycle (or immediately, on the cycle
// following a $4017 write) and its count advances once per clock, so
// these are half-rate tick counts rather than CPU-cycle counts.
const (
	frameStep1         = 3728
	frameStep2         = 7456
	frameStep3         = 11185
	frameStep4FourStep = 14914
	frameStep4FiveStep = 18640
)

// frameSequencer clocks the quarter-frame (envelope/linear-counter) and
// half-frame (length-counter/sweep) events that drive the four duty-cycle
// channels. $4017 selects between a 4-step sequence that latches a frame
// IRQ on wraparound and a 5-step sequence that never does.
type frameSequencer struct {
	mode        bool // false: 4-step, true: 5-step
	intInhibit  bool
	interrupt   bool
	count       uint32
	updated     bool // a $4017 write is pending its one-cycle-delayed reset
}

// write handles $4017 (MI-- ----). The mode, inhibit flag and count reset
// take effect immediately; the extra quarter/half-frame clock (in either
// mode) is deferred to the next sequencer step through the "updated"
// latch.
func (f *frameSequencer) write(value uint8) {
	f.count = 0
	f.mode = value&0x80 != 0
	f.intInhibit = value&0x40 != 0
	f.updated = true
	if f.intInhibit {
		f.interrupt = false
	}
}

// readInterrupt reports and does not clear the latched frame IRQ flag.
// The $4015 status read (ReadStatus) does not clear it either; a $4017
// write with the inhibit bit set does.
func (f *frameSequencer) readInterrupt() bool {
	return f.interrupt
}

// frameEvent describes what a given cycle's sequencer clock should fire.
type frameEvent struct {
	quarter bool
	half    bool
}

// step advances the sequencer by one clocked tick (called every other CPU
// cycle, or on any cycle where a $4017 write is still pending) and reports
// which frame events fire on this tick.
func (f *frameSequencer) step() frameEvent {
	var ev frameEvent

	if f.mode {
		switch {
		case f.updated || f.count == frameStep2 || f.count == frameStep4FiveStep:
			ev.quarter = true
			ev.half = true
			f.updated = false
		case f.count == frameStep1 || f.count == frameStep3:
			ev.quarter = true
		}

		if f.count == frameStep4FiveStep {
			f.count = 0
		} else {
			f.count++
		}
		return ev
	}

	switch {
	case f.updated || f.count == frameStep2 || f.count == frameStep4FourStep:
		ev.quarter = true
		ev.half = true
		f.updated = false
	case f.count == frameStep1 || f.count == frameStep3:
		ev.quarter = true
	}

	if f.count == frameStep4FourStep {
		f.count = 0
		if !f.intInhibit {
			f.interrupt = true
		}
	} else {
		f.count++
	}
	return ev
}
