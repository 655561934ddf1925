//go:build headless
// +build headless

package app

import "nsfplay/internal/audio"

// newDefaultSink falls back to an in-memory sink in headless builds,
// where no audio device is available.
func newDefaultSink(cfg audio.Config) (audio.Sink, error) {
	return audio.NewMemorySink(cfg), nil
}
