package ui

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/nevisdale/nescore/internal/logger"
)

const (
	bytesPerFrame = 4 // 16 bit stereo
	playerBuffer  = 50 * time.Millisecond
)

type sampleSource interface {
	ReadSamples(dst []int16) int
}

// stream converts the mono PCM stream into the signed 16 bit little
// endian stereo the audio context expects. Missing samples play as
// silence so the player never blocks the device.
type stream struct {
	src sampleSource
	buf []int16
}

func (s *stream) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFrame
	if cap(s.buf) < n {
		s.buf = make([]int16, n)
	}
	samples := s.buf[:n]
	got := s.src.ReadSamples(samples)
	clear(samples[got:])

	for i, v := range samples {
		binary.LittleEndian.PutUint16(p[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(p[i*4+2:], uint16(v))
	}
	return n * bytesPerFrame, nil
}

// Speaker plays the console's samples through ebiten's audio context.
// It is the console's audio sink.
type Speaker struct {
	mu     sync.Mutex
	ctx    *audio.Context
	src    sampleSource
	player *audio.Player
}

func NewSpeaker(sampleRate int) *Speaker {
	return &Speaker{
		ctx: audio.NewContext(sampleRate),
	}
}

// Attach sets where samples are pulled from. It must be called before
// Start.
func (s *Speaker) Attach(src sampleSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src = src
}

func (s *Speaker) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src == nil {
		return errors.New("speaker has no sample source")
	}
	if s.player == nil {
		p, err := s.ctx.NewPlayer(&stream{src: s.src})
		if err != nil {
			return err
		}
		p.SetBufferSize(playerBuffer)
		s.player = p
	}
	s.player.Play()
	logger.Log("ui", "audio playing")
	return nil
}

func (s *Speaker) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return
	}
	s.player.Pause()
	logger.Log("ui", "audio paused")
}

// Close releases the player.
func (s *Speaker) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.player == nil {
		return nil
	}
	err := s.player.Close()
	s.player = nil
	return err
}
