// Package wavrec captures the PCM stream to a WAV file. Samples are
// encoded as they arrive; the header sizes are patched on Close.
package wavrec

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/nevisdale/nescore/internal/logger"
)

const (
	bitDepth    = 16
	numChannels = 1
	// WAVE_FORMAT_PCM
	pcmFormat = 1
)

type Recorder struct {
	mu       sync.Mutex
	filename string
	f        *os.File
	enc      *wav.Encoder
	buf      *audio.IntBuffer
	samples  int
}

func New(filename string, sampleRate int) (*Recorder, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("wavrec: %w", err)
	}

	logger.Logf("wavrec", "writing audio to %s", filename)
	return &Recorder{
		filename: filename,
		f:        f,
		enc:      wav.NewEncoder(f, sampleRate, bitDepth, numChannels, pcmFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: numChannels, SampleRate: sampleRate},
			SourceBitDepth: bitDepth,
		},
	}, nil
}

// Write appends mono samples.
func (r *Recorder) Write(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc == nil {
		return fmt.Errorf("wavrec: %s already closed", r.filename)
	}

	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, int(s))
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("wavrec: %w", err)
	}
	r.samples += len(samples)
	return nil
}

func (r *Recorder) Samples() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples
}

// Close finalises the header and closes the file. Calling it again is a
// no-op.
func (r *Recorder) Close() (rerr error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.enc == nil {
		return nil
	}
	defer func() {
		if err := r.f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wavrec: %w", err)
		}
	}()

	err := r.enc.Close()
	r.enc = nil
	if err != nil {
		return fmt.Errorf("wavrec: %w", err)
	}
	logger.Logf("wavrec", "wrote %d samples to %s", r.samples, r.filename)
	return nil
}
