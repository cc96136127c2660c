package apu

import "sync"

// ring is a bounded single producer, single consumer PCM queue. Samples
// pushed while it is full are dropped, the producer never waits.
type ring struct {
	mu      sync.Mutex
	data    []int16
	head    int
	count   int
	dropped uint64
}

func newRing(size int) *ring {
	if size < 1 {
		size = 1
	}
	return &ring{data: make([]int16, size)}
}

func (r *ring) push(samples []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		if r.count == len(r.data) {
			r.dropped++
			continue
		}
		r.data[(r.head+r.count)%len(r.data)] = s
		r.count++
	}
}

func (r *ring) read(dst []int16) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(len(dst), r.count)
	for i := 0; i < n; i++ {
		dst[i] = r.data[r.head]
		r.head = (r.head + 1) % len(r.data)
	}
	r.count -= n
	return n
}

func (r *ring) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func (r *ring) drops() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *ring) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.count = 0
}
