// Package apu implements the 2A03/2A07 Audio Processing Unit: five sound
// channels, the frame sequencer that clocks them, and the nonlinear mixer
// that folds them into one sample. It has no notion of NSF files or the
// 6502 that drives it — those live in the bus and nsf packages, which wire
// an APU up to a program counter and a memory map.
package apu

// Region carries the clock-dependent constants the APU needs: the CPU
// clock rate and the two tables (noise and DMC periods) that differ
// between NTSC and PAL hardware.
type Region struct {
	Name         string
	CPUClockHz   uint32
	NoisePeriods [16]uint16
	DMCPeriods   [16]uint16
}

// NTSC is the American/Japanese timing standard.
var NTSC = Region{
	Name:       "NTSC",
	CPUClockHz: 1789773,
	NoisePeriods: [16]uint16{
		4, 8, 16, 32, 64, 96, 128, 160,
		202, 254, 380, 508, 762, 1016, 2034, 4068,
	},
	DMCPeriods: [16]uint16{
		428, 380, 340, 320, 286, 254, 226, 214,
		190, 160, 142, 128, 106, 84, 72, 54,
	},
}

// PAL is the European timing standard.
var PAL = Region{
	Name:       "PAL",
	CPUClockHz: 1662607,
	NoisePeriods: [16]uint16{
		4, 7, 14, 30, 60, 88, 118, 148,
		188, 236, 354, 472, 708, 944, 1890, 3778,
	},
	DMCPeriods: [16]uint16{
		398, 354, 316, 298, 276, 236, 210, 198,
		176, 148, 132, 118, 98, 78, 66, 50,
	},
}
