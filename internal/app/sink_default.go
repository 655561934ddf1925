//go:build !headless
// +build !headless

package app

import "nsfplay/internal/audio"

// newDefaultSink opens the real-time Ebitengine-backed sink when a
// graphical/audio-capable build is available.
func newDefaultSink(cfg audio.Config) (audio.Sink, error) {
	return audio.NewEbitenSink(cfg)
}
