package apu

import "math"

var pulseTable [31]float64

func init() {
	for i := 1; i < len(pulseTable); i++ {
		pulseTable[i] = 95.88 / (8128.0/float64(i) + 100)
	}
}

// mix combines channel levels with the console's non-linear DAC curves.
// The result is in [0, 1].
func mix(p1, p2, t, n, d uint8) float64 {
	out := pulseTable[p1+p2]
	sum := float64(t)/8227 + float64(n)/12241 + float64(d)/22638
	if sum > 0 {
		out += 159.79 / (1/sum + 100)
	}
	return out
}

// highPass removes the DC offset of the mixed signal.
type highPass struct {
	alpha float64
	prevX float64
	prevY float64
}

func newHighPass(sampleRate, cutoff float64) highPass {
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / sampleRate
	return highPass{alpha: rc / (rc + dt)}
}

func (f *highPass) filter(x float64) float64 {
	y := f.alpha * (f.prevY + x - f.prevX)
	f.prevX = x
	f.prevY = y
	return y
}

func (f *highPass) reset() {
	f.prevX = 0
	f.prevY = 0
}

func toPCM(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(v * math.MaxInt16)
}
