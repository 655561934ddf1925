package audio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
)

// MemorySink accumulates every sample written to it, for tests and for
// the headless build where no real audio device is available.
type MemorySink struct {
	rate    int
	Samples []int16
}

// NewMemorySink builds a Sink that never blocks and never plays sound.
func NewMemorySink(cfg Config) *MemorySink {
	return &MemorySink{rate: cfg.SampleRate}
}

func (s *MemorySink) WriteSamples(samples []int16) error {
	s.Samples = append(s.Samples, samples...)
	return nil
}

func (s *MemorySink) SampleRate() int { return s.rate }

func (s *MemorySink) Close() error { return nil }

// WAVSink writes a canonical 16-bit PCM mono WAV file as samples arrive,
// useful for headless rendering (batch export, regression fixtures)
// without a live audio device.
type WAVSink struct {
	rate    int
	file    *os.File
	w       *bufio.Writer
	written uint32
}

// NewWAVSink opens path and writes a placeholder RIFF/WAVE header, which
// Close backpatches with the final sizes.
func NewWAVSink(path string, cfg Config) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("audio: create wav file: %w", err)
	}
	s := &WAVSink{rate: cfg.SampleRate, file: f, w: bufio.NewWriter(f)}
	if err := s.writeHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *WAVSink) writeHeader() error {
	const (
		numChannels   = 1
		bitsPerSample = 16
	)
	byteRate := s.rate * numChannels * bitsPerSample / 8
	blockAlign := numChannels * bitsPerSample / 8

	hdr := struct {
		ChunkID       [4]byte
		ChunkSize     uint32
		Format        [4]byte
		Subchunk1ID   [4]byte
		Subchunk1Size uint32
		AudioFormat   uint16
		NumChannels   uint16
		SampleRate    uint32
		ByteRate      uint32
		BlockAlign    uint16
		BitsPerSample uint16
		Subchunk2ID   [4]byte
		Subchunk2Size uint32
	}{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   numChannels,
		SampleRate:    uint32(s.rate),
		ByteRate:      uint32(byteRate),
		BlockAlign:    uint16(blockAlign),
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
	}
	return binary.Write(s.w, binary.LittleEndian, &hdr)
}

func (s *WAVSink) WriteSamples(samples []int16) error {
	if err := binary.Write(s.w, binary.LittleEndian, samples); err != nil {
		return err
	}
	s.written += uint32(len(samples))
	return nil
}

func (s *WAVSink) SampleRate() int { return s.rate }

// Close flushes buffered PCM and backpatches the RIFF/data chunk sizes
// now that the final length is known.
func (s *WAVSink) Close() error {
	if err := s.w.Flush(); err != nil {
		s.file.Close()
		return err
	}
	const headerSize = 44
	dataSize := s.written * 2
	if _, err := s.file.WriteAt(u32le(dataSize), 40); err != nil {
		s.file.Close()
		return err
	}
	if _, err := s.file.WriteAt(u32le(headerSize-8+dataSize), 4); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
