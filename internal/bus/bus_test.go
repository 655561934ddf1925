package bus

import (
	"testing"

	"nsfplay/internal/apu"
	"nsfplay/internal/memory"
)

func newTestBus(rom []uint8) *Bus {
	mem := memory.New(rom, 0x8000, [8]uint8{})
	a := apu.New(apu.NTSC, 44100)
	return New(a, mem)
}

func TestRegisterWritesRouteToAPU(t *testing.T) {
	b := newTestBus(make([]uint8, 0x100))

	b.Write(0x4015, 0x01) // enable pulse 1 so its length counter can load
	b.Write(0x4000, 0x3F) // pulse 1 control: duty 0, const volume 15
	b.Write(0x4003, 0x08) // timer high + length load, enables envelope start

	if got := b.APU.ReadStatus(); got&0x01 == 0 {
		t.Fatalf("pulse 1 length counter not running after register writes")
	}
}

func TestStatusReadReflectsLengthCounters(t *testing.T) {
	b := newTestBus(make([]uint8, 0x100))

	if got := b.Read(0x4015); got != 0 {
		t.Fatalf("Read($4015) = %#02x before any channel enabled, want 0", got)
	}

	b.Write(0x4015, 0x01)
	b.Write(0x4003, 0x08)

	if got := b.Read(0x4015); got&0x01 == 0 {
		t.Fatalf("Read($4015) = %#02x, want bit 0 set", got)
	}
}

func TestCallRunsUntilSentinelReturn(t *testing.T) {
	rom := make([]uint8, 0x8000)
	// LDA #$42 ; RTS
	rom[0] = 0xA9
	rom[1] = 0x42
	rom[2] = 0x60
	b := newTestBus(rom)

	cycles := b.Call(0x8000, 0, 0)
	if b.CPU.A != 0x42 {
		t.Fatalf("A = %#02x after Call, want 0x42", b.CPU.A)
	}
	if cycles == 0 {
		t.Fatalf("Call reported 0 cycles consumed")
	}
}
