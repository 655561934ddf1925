// Package nsf parses NSF (NES Sound Format) files and drives a song's
// init/play routines against a bus to produce an audio sample stream.
package nsf

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	headerSize  = 128
	magicValue  = "NESM\x1A"
	wantVersion = 1
)

// Region is the TV system an NSF song targets.
type Region uint8

const (
	RegionNTSC Region = iota
	RegionPAL
	RegionDual
)

// header is the raw 128-byte NSF header, laid out exactly as it appears
// on disk so it can be read with a single binary.Read the way the
// teacher's iNES header is.
type header struct {
	Magic          [5]uint8
	Version        uint8
	SongCount      uint8
	StartingSong   uint8
	LoadAddress    uint16
	InitAddress    uint16
	PlayAddress    uint16
	Title          [32]uint8
	Artist         [32]uint8
	Copyright      [32]uint8
	NTSCPlayPeriod uint16
	Bankswitch     [8]uint8
	PALPlayPeriod  uint16
	RegionByte     uint8
	ExpansionChips uint8
	Reserved       [4]uint8
}

// ExpansionChip flags the $7B expansion-chip bitfield. NSF players built
// against this package report these informationally; none of the
// corresponding extra sound hardware is emulated (see File.Expansions).
type ExpansionChip uint8

const (
	ExpansionVRC6 ExpansionChip = 1 << iota
	ExpansionVRC7
	ExpansionFDS
	ExpansionMMC5
	ExpansionN163
	ExpansionS5B
)

// File is a parsed NSF image: header metadata plus the raw PRG data that
// follows it in the file.
type File struct {
	SongCount    int
	StartingSong int // 1-based
	LoadAddress  uint16
	InitAddress  uint16
	PlayAddress  uint16
	Title        string
	Artist       string
	Copyright    string

	NTSCPlayPeriod uint16
	PALPlayPeriod  uint16
	Region         Region
	Bankswitch     [8]uint8
	Expansions     ExpansionChip

	PRG []uint8
}

// ParseError reports a malformed NSF file. Per the driver's error
// taxonomy these are reported to the user and terminate before any APU
// is created — no partial File is ever returned alongside one.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nsf: %s", e.Reason)
}

// LoadFromFile reads and parses an NSF file from disk.
func LoadFromFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromReader(bytes.NewReader(data))
}

// LoadFromReader parses an NSF image already held in memory.
func LoadFromReader(r io.Reader) (*File, error) {
	var raw bytes.Buffer
	if _, err := raw.ReadFrom(r); err != nil {
		return nil, err
	}
	if raw.Len() < headerSize {
		return nil, &ParseError{Reason: "file shorter than 128-byte header"}
	}

	var h header
	if err := binary.Read(bytes.NewReader(raw.Bytes()[:headerSize]), binary.LittleEndian, &h); err != nil {
		return nil, err
	}

	if string(h.Magic[:]) != magicValue {
		return nil, &ParseError{Reason: "bad magic, not an NSF file"}
	}
	if h.Version != wantVersion {
		return nil, &ParseError{Reason: fmt.Sprintf("unsupported NSF version %d", h.Version)}
	}
	if h.SongCount == 0 {
		return nil, &ParseError{Reason: "song count is zero"}
	}

	region := RegionNTSC
	if h.RegionByte&0x02 != 0 {
		region = RegionDual
	} else if h.RegionByte&0x01 != 0 {
		region = RegionPAL
	}

	f := &File{
		SongCount:      int(h.SongCount),
		StartingSong:   int(h.StartingSong),
		LoadAddress:    h.LoadAddress,
		InitAddress:    h.InitAddress,
		PlayAddress:    h.PlayAddress,
		Title:          trimCString(h.Title[:]),
		Artist:         trimCString(h.Artist[:]),
		Copyright:      trimCString(h.Copyright[:]),
		NTSCPlayPeriod: h.NTSCPlayPeriod,
		PALPlayPeriod:  h.PALPlayPeriod,
		Region:         region,
		Bankswitch:     h.Bankswitch,
		Expansions:     ExpansionChip(h.ExpansionChips),
		PRG:            append([]uint8(nil), raw.Bytes()[headerSize:]...),
	}
	if f.StartingSong < 1 {
		f.StartingSong = 1
	}
	return f, nil
}

// Banked reports whether the header declares a nonzero bankswitch table.
func (f *File) Banked() bool {
	for _, b := range f.Bankswitch {
		if b != 0 {
			return true
		}
	}
	return false
}

// UnsupportedExpansions describes any expansion-chip bits the header
// declares, for informational reporting; none of these chips produce
// sound through this package's APU.
func (f *File) UnsupportedExpansions() []string {
	var names []string
	for bit, name := range map[ExpansionChip]string{
		ExpansionVRC6: "VRC6",
		ExpansionVRC7: "VRC7",
		ExpansionFDS:  "FDS",
		ExpansionMMC5: "MMC5",
		ExpansionN163: "N163",
		ExpansionS5B:  "S5B",
	} {
		if f.Expansions&bit != 0 {
			names = append(names, name)
		}
	}
	return names
}

func trimCString(b []uint8) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

var errNoSuchSong = errors.New("nsf: song index out of range")

// Song validates a 1-based song index against the file's song count.
func (f *File) Song(index int) (int, error) {
	if index < 1 || index > f.SongCount {
		return 0, errNoSuchSong
	}
	return index, nil
}
