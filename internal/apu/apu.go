package apu

// BusReader is the memory the DMC channel pulls sample bytes from. The
// NSF driver's bus satisfies this with its full $0000-$FFFF read path,
// including bankswitched ROM.
type BusReader interface {
	Read(addr uint16) uint8
}

// APU is the 2A03/2A07 sound generator: five channels, a frame sequencer,
// and the mixer that folds them into one sample. It knows nothing about
// NSF files or the 6502 driving it; the caller is responsible for
// stepping it the right number of CPU cycles per played frame and for
// pulling samples out at the target rate.
type APU struct {
	region     Region
	sampleRate uint32
	bus        BusReader

	pulse1 pulseChannel
	pulse2 pulseChannel
	tri    triangleChannel
	noise  noiseChannel
	dmc    dmcChannel
	frame  frameSequencer

	pulse1Enabled bool
	pulse2Enabled bool
	triEnabled    bool
	noiseEnabled  bool

	cycle uint64 // free-running CPU cycle count, used for the odd/even gate

	// sample pump: a Q16.16 fixed-point accumulator. sampleAcc is
	// advanced by 1<<16 every CPU cycle; whenever it reaches
	// cyclesPerSampleFP, one output sample is due.
	cyclesPerSampleFP uint64
	sampleAcc         uint64
}

// New builds an APU clocked at the given region's CPU rate, pumping
// samples at sampleRate.
func New(region Region, sampleRate uint32) *APU {
	a := &APU{
		region:     region,
		sampleRate: sampleRate,
		pulse1:     newPulse(true),
		pulse2:     newPulse(false),
		noise:      newNoise(),
	}
	a.noise.periodActual = region.NoisePeriods[0]
	a.dmc.period = region.DMCPeriods[0]
	a.cyclesPerSampleFP = (uint64(region.CPUClockHz) << 16) / uint64(sampleRate)
	return a
}

// SetBus installs the memory reader the DMC channel uses to fetch sample
// bytes. It must be called before the first Advance once a song is loaded.
func (a *APU) SetBus(bus BusReader) {
	a.bus = bus
}

// Reset returns the APU to its post-power-on state. The NSF driver calls
// this before every song load, then writes $4015=$0F and $4017=$40
// itself to match the convention real NSF players and the original
// tinynsf loader use.
func (a *APU) Reset() {
	region := a.region
	bus := a.bus
	sampleRate := a.sampleRate
	*a = APU{
		region:     region,
		sampleRate: sampleRate,
		bus:        bus,
		pulse1:     newPulse(true),
		pulse2:     newPulse(false),
		noise:      newNoise(),
	}
	a.noise.periodActual = region.NoisePeriods[0]
	a.dmc.period = region.DMCPeriods[0]
	a.cyclesPerSampleFP = (uint64(region.CPUClockHz) << 16) / uint64(sampleRate)
}

// WriteRegister dispatches a CPU write in the $4000-$4017 range to the
// channel or sequencer it targets. Addresses outside that range are the
// caller's mistake and are ignored.
func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x4000:
		a.pulse1.writeControl(value)
	case 0x4001:
		a.pulse1.writeSweep(value)
	case 0x4002:
		a.pulse1.writeTimerLow(value)
	case 0x4003:
		a.pulse1.writeTimerHigh(value, a.pulse1Enabled)
	case 0x4004:
		a.pulse2.writeControl(value)
	case 0x4005:
		a.pulse2.writeSweep(value)
	case 0x4006:
		a.pulse2.writeTimerLow(value)
	case 0x4007:
		a.pulse2.writeTimerHigh(value, a.pulse2Enabled)
	case 0x4008:
		a.tri.writeControl(value)
	case 0x400A:
		a.tri.writeTimerLow(value)
	case 0x400B:
		a.tri.writeTimerHigh(value, a.triEnabled)
	case 0x400C:
		a.noise.writeControl(value)
	case 0x400E:
		a.noise.writePeriod(value, &a.region.NoisePeriods)
	case 0x400F:
		a.noise.writeLength(value, a.noiseEnabled)
	case 0x4010:
		a.dmc.writeControl(value, &a.region.DMCPeriods)
	case 0x4011:
		a.dmc.writeDirectLoad(value)
	case 0x4012:
		a.dmc.writeSampleAddress(value)
	case 0x4013:
		a.dmc.writeSampleLength(value)
	case 0x4015:
		a.writeStatus(value)
	case 0x4017:
		a.frame.write(value)
	}
}

func (a *APU) writeStatus(value uint8) {
	a.pulse1Enabled = value&0x01 != 0
	a.pulse2Enabled = value&0x02 != 0
	a.triEnabled = value&0x04 != 0
	a.noiseEnabled = value&0x08 != 0
	a.dmc.setEnabled(value&0x10 != 0)
	if !a.pulse1Enabled {
		a.pulse1.lengthCounter = 0
	}
	if !a.pulse2Enabled {
		a.pulse2.lengthCounter = 0
	}
	if !a.triEnabled {
		a.tri.lengthCounter = 0
	}
	if !a.noiseEnabled {
		a.noise.lengthCounter = 0
	}
}

// ReadStatus handles a CPU read of $4015.
func (a *APU) ReadStatus() uint8 {
	var v uint8
	if a.dmc.irq {
		v |= 0x80
	}
	if a.frame.readInterrupt() {
		v |= 0x40
	}
	if a.noise.lengthCounter > 0 {
		v |= 0x08
	}
	if a.tri.lengthCounter > 0 {
		v |= 0x04
	}
	if a.pulse2.lengthCounter > 0 {
		v |= 0x02
	}
	if a.pulse1.lengthCounter > 0 {
		v |= 0x01
	}
	return v
}

// Advance runs the APU for the given number of CPU cycles, in lockstep
// with the 6502's own clock. It implements the same per-cycle ordering as
// the reference player: the frame sequencer is clocked on odd cycles (or
// immediately following a pending $4017 write), the two pulses and noise
// advance their timers on odd cycles, the DMC memory reader and output
// unit run every cycle, and the triangle timer advances every cycle while
// gated on.
func (a *APU) Advance(cpuCycles uint64) {
	for i := uint64(0); i < cpuCycles; i++ {
		odd := a.cycle&1 != 0

		if odd || a.frame.updated {
			ev := a.frame.step()
			if ev.quarter {
				a.pulse1.env.clockQuarterFrame()
				a.pulse2.env.clockQuarterFrame()
				a.noise.env.clockQuarterFrame()
				a.tri.clockQuarterFrame()
			}
			if ev.half {
				a.pulse1.clockHalfFrame(a.pulse1Enabled)
				a.pulse2.clockHalfFrame(a.pulse2Enabled)
				a.tri.clockHalfFrame(a.triEnabled)
				a.noise.clockHalfFrame(a.noiseEnabled)
			}
		}

		if odd {
			a.pulse1.stepTimer()
			a.pulse2.stepTimer()
			a.noise.stepTimer()
		}

		if a.bus != nil {
			a.dmc.stepMemoryReader(a.bus.Read)
		}
		a.dmc.stepOutputUnit()

		a.tri.stepTimer()

		a.cycle++
	}
}

// Sample returns the current mixed output sample without advancing the
// clock.
func (a *APU) Sample() int32 {
	return mix(a.pulse1.output(), a.pulse2.output(), a.tri.output(), a.noise.output(), a.dmc.output())
}

// AdvanceAndCollect runs cpuCycles worth of APU emulation and appends one
// output sample to out every time the Q16.16 sample accumulator rolls
// over, the way a real DAC free-running off the APU clock would. It
// returns the (possibly grown) slice.
func (a *APU) AdvanceAndCollect(cpuCycles uint32, out []int32) []int32 {
	for i := uint32(0); i < cpuCycles; i++ {
		a.Advance(1)
		a.sampleAcc += 1 << 16
		if a.sampleAcc >= a.cyclesPerSampleFP {
			a.sampleAcc -= a.cyclesPerSampleFP
			out = append(out, a.Sample())
		}
	}
	return out
}
