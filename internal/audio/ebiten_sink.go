//go:build !headless
// +build !headless

package audio

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// EbitenSink streams PCM through Ebitengine's audio context.
type EbitenSink struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	ctx    *ebaudio.Context
	player *ebaudio.Player
	rate   int
	closed bool
}

// NewEbitenSink opens an Ebitengine audio player at the given rate.
func NewEbitenSink(cfg Config) (*EbitenSink, error) {
	ctx := ebaudio.NewContext(cfg.SampleRate)
	s := &EbitenSink{ctx: ctx, rate: cfg.SampleRate}

	player, err := ctx.NewPlayer(s)
	if err != nil {
		return nil, fmt.Errorf("audio: open ebitengine player: %w", err)
	}
	player.SetBufferSize(0)
	player.Play()
	s.player = player
	return s, nil
}

// Read implements io.Reader, the pull side of the streaming player; it
// drains whatever PCM bytes WriteSamples has queued, blocking never —
// when nothing is queued it fills all of p with zero bytes (silence) and
// returns len(p) with a nil error, so the player never sees io.EOF.
func (s *EbitenSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf.Len() == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return s.buf.Read(p)
}

// WriteSamples encodes mono 16-bit samples as little-endian stereo PCM
// (duplicated to both channels, matching ebiten's stereo-only player)
// and appends them to the pending buffer.
func (s *EbitenSink) WriteSamples(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range samples {
		lo := byte(v)
		hi := byte(v >> 8)
		s.buf.WriteByte(lo)
		s.buf.WriteByte(hi)
		s.buf.WriteByte(lo)
		s.buf.WriteByte(hi)
	}
	return nil
}

func (s *EbitenSink) SampleRate() int { return s.rate }

func (s *EbitenSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.player.Close()
}

var _ io.Reader = (*EbitenSink)(nil)
