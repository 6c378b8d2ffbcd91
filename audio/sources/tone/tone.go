package tone

import (
	"fmt"
	"sync"

	"github.com/chewxy/math32"

	"github.com/audiopipe/spdiftx/audio"
)

// Tone implements the audio.Producer interface and generates a
// continuous sine tone, one block pair per pull, identical on both
// channels.
type Tone struct {
	sync.Mutex
	options Options
	pool    *audio.BlockPool
	phase   float32
	step    float32
}

// NewTone returns a tone generator allocating its blocks from the given
// pool.
func NewTone(pool *audio.BlockPool, opts ...Option) (*Tone, error) {

	if pool == nil {
		return nil, fmt.Errorf("block pool is nil")
	}

	t := &Tone{
		options: Options{
			Samplerate: 44100,
			Frequency:  440,
			Amplitude:  0.5,
		},
		pool: pool,
	}

	for _, option := range opts {
		option(&t.options)
	}

	if t.options.Frequency <= 0 {
		return nil, fmt.Errorf("invalid tone frequency %f", t.options.Frequency)
	}
	if t.options.Amplitude < 0 || t.options.Amplitude > 1 {
		return nil, fmt.Errorf("tone amplitude must be within 0..1")
	}

	t.step = 2 * math32.Pi * t.options.Frequency / float32(t.options.Samplerate)

	return t, nil
}

// Pull returns the next block pair of the tone. When the pool is
// exhausted, nothing is contributed this cycle and the phase does not
// advance.
func (t *Tone) Pull() (left, right *audio.Block) {
	t.Lock()
	defer t.Unlock()

	left = t.pool.Get()
	if left == nil {
		return nil, nil
	}
	right = t.pool.Get()
	if right == nil {
		left.Release()
		return nil, nil
	}

	scale := t.options.Amplitude * 32767

	for i := 0; i < audio.BlockSamples; i++ {
		s := int16(scale * math32.Sin(t.phase))
		left.Data[i] = s
		right.Data[i] = s
		t.phase += t.step
		if t.phase >= 2*math32.Pi {
			t.phase -= 2 * math32.Pi
		}
	}

	return left, right
}
