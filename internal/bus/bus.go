// Package bus wires the 6502, the APU, and the NSF memory map together
// into the single address space an NSF driver runs init/play routines
// against.
package bus

import (
	"nsfplay/internal/apu"
	"nsfplay/internal/cpu"
	"nsfplay/internal/memory"
)

// Bus implements cpu.MemoryInterface by decoding $4000-$4017 to the APU
// and everything else to Memory. It also satisfies apu.BusReader so the
// DMC channel can read sample bytes straight out of WRAM/SRAM/ROM.
type Bus struct {
	CPU    *cpu.CPU
	APU    *apu.APU
	Memory *memory.Memory
}

// New builds a Bus over an already-constructed APU and Memory and wires
// a CPU to read and write through it.
func New(a *apu.APU, mem *memory.Memory) *Bus {
	b := &Bus{APU: a, Memory: mem}
	b.CPU = cpu.New(b)
	a.SetBus(b)
	return b
}

// Read implements cpu.MemoryInterface and apu.BusReader.
func (b *Bus) Read(address uint16) uint8 {
	if address == 0x4015 {
		return b.APU.ReadStatus()
	}
	if address >= 0x4000 && address <= 0x4017 {
		// APU registers other than $4015 are write-only; reads fall
		// through to the underlying memory map like open bus.
		return b.Memory.Read(address)
	}
	return b.Memory.Read(address)
}

// Write implements cpu.MemoryInterface.
func (b *Bus) Write(address uint16, value uint8) {
	if address >= 0x4000 && address <= 0x4017 {
		b.APU.WriteRegister(address, value)
		return
	}
	b.Memory.Write(address, value)
}

// Call drives the 6502 through init or play the way the NSF driver
// invokes them, advancing the APU one instruction's worth of cycles at a
// time so register writes a routine makes partway through take effect at
// the right point in the APU's own cycle count rather than all landing
// at once when the routine returns. It returns the total cycles consumed.
func (b *Bus) Call(entry uint16, a, x uint8) uint64 {
	b.CPU.BeginCall(entry, a, x)

	var total uint64
	for !b.CPU.Trapped() {
		c := b.CPU.Step()
		total += c
		b.APU.Advance(c)
	}
	return total
}
