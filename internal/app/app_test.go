package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func minimalNSFBytes() []byte {
	header := make([]byte, 128)
	copy(header, "NESM\x1A")
	header[5] = 1    // version
	header[6] = 1    // song count
	header[7] = 1    // starting song
	header[8] = 0x00 // load address low
	header[9] = 0x80 // load address high
	header[10] = 0x00
	header[11] = 0x80 // init address = $8000
	header[12] = 0x01
	header[13] = 0x80 // play address = $8001
	prg := make([]byte, 64)
	prg[0] = 0x60 // RTS
	prg[1] = 0x60 // RTS
	return append(header, prg...)
}

func newTestApp(t *testing.T) *Application {
	t.Helper()
	app := &Application{config: NewConfig()}
	app.config.Audio.Backend = "headless"
	app.config.Audio.SampleRate = 8000
	app.config.Audio.BufferSize = 64

	sink, err := app.openSink()
	require.NoError(t, err)
	app.sink = sink
	return app
}

func TestLoadFileAndPlayStop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.nsf")
	require.NoError(t, os.WriteFile(path, minimalNSFBytes(), 0644))

	app := newTestApp(t)
	require.NoError(t, app.LoadFile(path))
	require.Equal(t, 1, app.CurrentSong())

	require.NoError(t, app.Play())
	require.True(t, app.IsPlaying())

	app.Stop()
	require.False(t, app.IsPlaying())
}

func TestNextSongWrapsAround(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi.nsf")
	data := minimalNSFBytes()
	data[6] = 2 // two songs
	require.NoError(t, os.WriteFile(path, data, 0644))

	app := newTestApp(t)
	require.NoError(t, app.LoadFile(path))

	require.NoError(t, app.NextSong())
	require.Equal(t, 2, app.CurrentSong())

	require.NoError(t, app.NextSong())
	require.Equal(t, 1, app.CurrentSong())
}
