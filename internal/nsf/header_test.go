package nsf

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildNSF(t *testing.T, mutate func(h *header)) []byte {
	t.Helper()
	h := header{
		Magic:        [5]uint8{'N', 'E', 'S', 'M', 0x1A},
		Version:      1,
		SongCount:    3,
		StartingSong: 1,
		LoadAddress:  0x8000,
		InitAddress:  0x8003,
		PlayAddress:  0x8010,
	}
	copy(h.Title[:], "Test Song")
	if mutate != nil {
		mutate(&h)
	}

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, &h))
	buf.Write(make([]byte, 64)) // PRG payload
	return buf.Bytes()
}

func TestLoadFromReaderParsesBasicFields(t *testing.T) {
	data := buildNSF(t, nil)

	f, err := LoadFromReader(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, 3, f.SongCount)
	assert.Equal(t, 1, f.StartingSong)
	assert.Equal(t, uint16(0x8000), f.LoadAddress)
	assert.Equal(t, uint16(0x8003), f.InitAddress)
	assert.Equal(t, uint16(0x8010), f.PlayAddress)
	assert.Equal(t, "Test Song", f.Title)
	assert.Equal(t, RegionNTSC, f.Region)
	assert.Len(t, f.PRG, 64)
}

func TestLoadFromReaderRejectsBadMagic(t *testing.T) {
	data := buildNSF(t, func(h *header) { h.Magic = [5]uint8{'X', 'X', 'X', 'X', 'X'} })

	_, err := LoadFromReader(bytes.NewReader(data))
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestLoadFromReaderRejectsZeroSongs(t *testing.T) {
	data := buildNSF(t, func(h *header) { h.SongCount = 0 })

	_, err := LoadFromReader(bytes.NewReader(data))
	require.Error(t, err)
}

func TestLoadFromReaderRejectsShortFile(t *testing.T) {
	_, err := LoadFromReader(bytes.NewReader(make([]byte, 10)))
	require.Error(t, err)
}

func TestRegionDetection(t *testing.T) {
	data := buildNSF(t, func(h *header) { h.RegionByte = 0x01 })

	f, err := LoadFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, RegionPAL, f.Region)
}

func TestDualRegionDetection(t *testing.T) {
	data := buildNSF(t, func(h *header) { h.RegionByte = 0x02 })

	f, err := LoadFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, RegionDual, f.Region)
}

func TestUnsupportedExpansionsReported(t *testing.T) {
	data := buildNSF(t, func(h *header) { h.ExpansionChips = uint8(ExpansionVRC6 | ExpansionFDS) })

	f, err := LoadFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"VRC6", "FDS"}, f.UnsupportedExpansions())
}

func TestSongValidation(t *testing.T) {
	data := buildNSF(t, nil)
	f, err := LoadFromReader(bytes.NewReader(data))
	require.NoError(t, err)

	_, err = f.Song(1)
	assert.NoError(t, err)
	_, err = f.Song(3)
	assert.NoError(t, err)
	_, err = f.Song(4)
	assert.Error(t, err)
	_, err = f.Song(0)
	assert.Error(t, err)
}
