// Package memory implements the NSF memory map: work RAM, battery-backed
// SRAM, and the PRG ROM window at $8000-$FFFF, either read sequentially
// or through the eight 4KB bankswitch registers an NSF file can declare.
package memory

// Memory is the CPU-side address space an NSF driver runs a tune's
// init/play routines against. It owns no APU or I/O registers of its
// own — the bus package decodes those ranges and only falls through to
// Memory for RAM, SRAM, and ROM.
type Memory struct {
	wram [0x800]uint8 // 2KB, mirrored four times across $0000-$1FFF
	sram [0x2000]uint8 // 8KB at $6000-$7FFF

	rom        []uint8 // raw PRG image as packed in the NSF file, starting at loadAddr
	loadAddr   uint16
	bankswitch [8]uint8 // $5FF8-$5FFF; nonzero iff the tune uses bankswitching
	banked     bool
}

// New builds Memory for a PRG image that begins at loadAddr. initBanks, if
// non-nil and non-zero, switches the ROM window into bankswitched mode
// using the NSF header's bankswitch-init bytes; a nil/all-zero table
// means the tune is read sequentially instead.
func New(rom []uint8, loadAddr uint16, initBanks [8]uint8) *Memory {
	m := &Memory{
		rom:      rom,
		loadAddr: loadAddr,
	}
	for _, b := range initBanks {
		if b != 0 {
			m.banked = true
			break
		}
	}
	if m.banked {
		m.bankswitch = initBanks
	}
	return m
}

// Read services CPU reads of $0000-$1FFF, $6000-$7FFF, $5FF8-$5FFF, and
// $8000-$FFFF. Everything else reads as zero, matching NSF hardware's
// lack of PPU or input registers.
func (m *Memory) Read(address uint16) uint8 {
	switch {
	case address < 0x2000:
		return m.wram[address&0x07FF]
	case address >= 0x5FF8 && address <= 0x5FFF:
		return m.bankswitch[address&0x07]
	case address >= 0x6000 && address < 0x8000:
		return m.sram[address-0x6000]
	case address >= 0x8000:
		return m.readROM(address)
	default:
		return 0
	}
}

// Write services the same ranges as Read, plus accepting (and ignoring)
// writes into the ROM window the way real cartridge hardware would.
func (m *Memory) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.wram[address&0x07FF] = value
	case address >= 0x5FF8 && address <= 0x5FFF:
		m.bankswitch[address&0x07] = value
		m.banked = true
	case address >= 0x6000 && address < 0x8000:
		m.sram[address-0x6000] = value
	}
}

// readROM implements the sequential and bankswitched PRG decoders. In
// sequential mode, the whole PRG image is mapped starting at loadAddr
// with no wraparound; reads past the end of the image return zero. In
// bankswitched mode, each of the eight 4KB windows at $8000, $9000, ...,
// $F000 is mapped independently through its bankswitch register, with
// the first window's low bytes (up to and including loadAddr's page
// offset, so always at least $8000 itself) reading zero the way the
// reference decoder pads them.
func (m *Memory) readROM(address uint16) uint8 {
	if !m.banked {
		offset := int(address) - int(m.loadAddr)
		if offset < 0 || offset >= len(m.rom) {
			return 0
		}
		return m.rom[offset]
	}

	bankPadding := m.loadAddr & 0x0FFF
	bank := (address - 0x8000) >> 12
	if address <= (0x8000 | bankPadding) {
		return 0
	}
	offset := int(m.bankswitch[bank])*0x1000 + int(address&0x0FFF) - int(bankPadding)
	if offset < 0 || offset >= len(m.rom) {
		return 0
	}
	return m.rom[offset]
}

// Reset clears WRAM and SRAM to zero and restores the bankswitch table
// to the NSF header's declared initial banks, the way loading a new song
// reinitializes the machine without re-reading the file from disk.
func (m *Memory) Reset(initBanks [8]uint8) {
	m.wram = [0x800]uint8{}
	m.sram = [0x2000]uint8{}
	m.bankswitch = initBanks
	m.banked = false
	for _, b := range initBanks {
		if b != 0 {
			m.banked = true
			break
		}
	}
}
