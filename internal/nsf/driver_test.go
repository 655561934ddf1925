package nsf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"nsfplay/internal/apu"
)

// minimalNSF builds a song whose init and play routines are both a bare
// RTS, load address $8000.
func minimalNSF(t *testing.T) *File {
	t.Helper()
	data := buildNSF(t, func(h *header) {
		h.InitAddress = 0x8000
		h.PlayAddress = 0x8001
	})
	f, err := LoadFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	f.PRG[0] = 0x60 // RTS at init
	f.PRG[1] = 0x60 // RTS at play
	return f
}

func TestNewDriverRunsInitAndProducesSamples(t *testing.T) {
	f := minimalNSF(t)

	d, err := NewDriver(f, 1, 44100)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_ = d.NextSample()
	}
}

func TestRegionForTreatsDualAsPAL(t *testing.T) {
	require.Equal(t, apu.PAL.Name, regionFor(RegionDual).Name)
	require.Equal(t, apu.PAL.Name, regionFor(RegionPAL).Name)
	require.Equal(t, apu.NTSC.Name, regionFor(RegionNTSC).Name)
}

func TestNewDriverRejectsOutOfRangeSong(t *testing.T) {
	f := minimalNSF(t)

	_, err := NewDriver(f, 99, 44100)
	require.Error(t, err)
}

func TestFillPopulatesEntireBuffer(t *testing.T) {
	f := minimalNSF(t)
	d, err := NewDriver(f, 1, 44100)
	require.NoError(t, err)

	out := make([]int32, 512)
	d.Fill(out)
	// Every slot should have been written by the mixer, not left at the
	// zero value Go initializes the slice with (silence maps to a
	// nonzero constant offset, see the mixer's zero-index behavior).
	for _, s := range out {
		require.NotEqual(t, int32(0), s)
	}
}
