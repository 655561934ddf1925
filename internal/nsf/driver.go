package nsf

import (
	"fmt"

	"nsfplay/internal/apu"
	"nsfplay/internal/bus"
	"nsfplay/internal/memory"
)

// Driver runs one NSF song to completion of its lifecycle: install,
// init, and repeated play calls paced by a sample pump. It owns the bus
// (and through it the APU, memory, and CPU) for exactly one song at a
// time; switching songs or reloading the file discards the old Driver
// and builds a fresh one, so each song starts on a newly built APU,
// memory and bus rather than on reset copies of shared ones.
type Driver struct {
	file   *File
	song   int
	region apu.Region

	bus *bus.Bus

	samplesPerPlay uint32
	sampleCounter  uint32
}

// NewDriver installs song (1-based) from file and runs its init routine.
// song must have already been validated via File.Song.
func NewDriver(file *File, song int, sampleRate uint32) (*Driver, error) {
	if song < 1 || song > file.SongCount {
		return nil, fmt.Errorf("nsf: song %d out of range (1-%d)", song, file.SongCount)
	}

	region := regionFor(file.Region)

	mem := memory.New(file.PRG, file.LoadAddress, file.Bankswitch)
	a := apu.New(region, sampleRate)
	b := bus.New(a, mem)

	d := &Driver{
		file:           file,
		song:           song,
		region:         region,
		bus:            b,
		samplesPerPlay: playIntervalSamples(file, region, sampleRate),
	}

	d.resetAPU()

	regionArg := uint8(0)
	if region.Name == apu.PAL.Name {
		regionArg = 1
	}
	b.Call(file.InitAddress, uint8(song-1), regionArg)

	return d, nil
}

// regionFor selects the clock/table set for a header region byte. Dual
// region carts (region byte bit 1 set) run as PAL here, matching the
// original NSF driver's "any PAL bit set wins" rule.
func regionFor(r Region) apu.Region {
	if r == RegionPAL || r == RegionDual {
		return apu.PAL
	}
	return apu.NTSC
}

// playIntervalSamples computes how many output samples separate
// successive play calls, from the header's microsecond play period
// (falling back to the classic ~60Hz NTSC period of 16639us or ~50Hz PAL
// period of 19997us when the header declares zero, which some tools
// leave unset).
func playIntervalSamples(file *File, region apu.Region, sampleRate uint32) uint32 {
	periodUs := file.NTSCPlayPeriod
	if region.Name == apu.PAL.Name {
		periodUs = file.PALPlayPeriod
	}
	if periodUs == 0 {
		periodUs = 16639
		if region.Name == apu.PAL.Name {
			periodUs = 19997
		}
	}
	return uint32((uint64(sampleRate) * uint64(periodUs)) / 1_000_000)
}

// resetAPU zeroes all dynamic state and seeds the registers the way the
// driver's reset sequence requires: $4000-$4013 to 0, $4015=0x0F (both
// pulses, triangle and noise enabled; the DMC enable, bit 4, stays
// clear), $4017=0x40 (4-step mode, IRQ inhibited).
func (d *Driver) resetAPU() {
	d.bus.APU.Reset()
	for reg := uint16(0x4000); reg <= 0x4013; reg++ {
		d.bus.APU.WriteRegister(reg, 0x00)
	}
	d.bus.APU.WriteRegister(0x4015, 0x0F)
	d.bus.APU.WriteRegister(0x4017, 0x40)
}

// Song returns the 1-based song index this driver is playing.
func (d *Driver) Song() int { return d.song }

// Bus exposes the underlying bus for diagnostics (register dumps,
// visualizers) without widening this package's own API surface.
func (d *Driver) Bus() *bus.Bus { return d.bus }

// NextSample advances the driver by exactly one output sample (as many
// CPU cycles as the APU's sample pump needs), calling play whenever the
// pacing counter rolls over, and returns the mixed sample for this tick.
func (d *Driver) NextSample() int32 {
	if d.sampleCounter == 0 {
		d.bus.Call(d.file.PlayAddress, 0, 0)
		d.sampleCounter = d.samplesPerPlay
	}
	d.sampleCounter--

	var samples []int32
	for len(samples) == 0 {
		samples = d.bus.APU.AdvanceAndCollect(1, samples)
	}
	return samples[0]
}

// Fill renders len(out) samples into out, the unit a player thread pulls
// from the driver on each iteration before writing to the audio sink.
func (d *Driver) Fill(out []int32) {
	for i := range out {
		out[i] = d.NextSample()
	}
}
