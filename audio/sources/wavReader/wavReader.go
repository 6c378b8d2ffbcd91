package wavReader

import (
	"fmt"
	"os"
	"sync"

	wav "github.com/go-audio/wav"

	"github.com/audiopipe/spdiftx/audio"
)

// WavReader implements the audio.Producer interface and supplies block
// pairs decoded from a wav file. The file is decoded up front; Pull
// then hands out one block pair per call until the material is
// exhausted. Mono files are duplicated onto both channels.
type WavReader struct {
	sync.Mutex
	left       []int16
	right      []int16
	pos        int
	pool       *audio.BlockPool
	samplerate float64
}

// NewWavReader decodes the wav file at path and returns a producer
// allocating its blocks from the given pool.
func NewWavReader(path string, pool *audio.BlockPool) (*WavReader, error) {

	if pool == nil {
		return nil, fmt.Errorf("block pool is nil")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("unable to decode wav file %s: %v", path, err)
	}
	if buf.Format == nil {
		return nil, fmt.Errorf("wav file %s has no format information", path)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		switch buf.SourceBitDepth {
		case 8:
			samples[i] = int16((v - 128) << 8)
		case 16:
			samples[i] = int16(v)
		case 24:
			samples[i] = int16(v >> 8)
		case 32:
			samples[i] = int16(v >> 16)
		default:
			return nil, fmt.Errorf("unsupported wav bit depth %d", buf.SourceBitDepth)
		}
	}

	w := &WavReader{
		pool:       pool,
		samplerate: float64(buf.Format.SampleRate),
	}

	switch buf.Format.NumChannels {
	case 1:
		w.left = samples
		w.right = samples
	case 2:
		w.left = make([]int16, 0, len(samples)/2)
		w.right = make([]int16, 0, len(samples)/2)
		for i := 0; i+1 < len(samples); i += 2 {
			w.left = append(w.left, samples[i])
			w.right = append(w.right, samples[i+1])
		}
	default:
		return nil, fmt.Errorf("unsupported channel count %d in wav file %s",
			buf.Format.NumChannels, path)
	}

	return w, nil
}

// Samplerate returns the sample rate of the decoded file.
func (w *WavReader) Samplerate() float64 {
	return w.samplerate
}

// Exhausted reports whether all decoded material has been pulled.
func (w *WavReader) Exhausted() bool {
	w.Lock()
	defer w.Unlock()
	return w.pos >= len(w.left)
}

// Pull returns the next block pair of the file, zero padding the final
// partial block. After the material is exhausted, or when the pool runs
// dry, nothing is contributed.
func (w *WavReader) Pull() (left, right *audio.Block) {
	w.Lock()
	defer w.Unlock()

	if w.pos >= len(w.left) {
		return nil, nil
	}

	left = w.pool.Get()
	if left == nil {
		return nil, nil
	}
	right = w.pool.Get()
	if right == nil {
		left.Release()
		return nil, nil
	}

	n := copy(left.Data[:], w.left[w.pos:])
	copy(right.Data[:], w.right[w.pos:])
	for i := n; i < audio.BlockSamples; i++ {
		left.Data[i] = 0
		right.Data[i] = 0
	}
	w.pos += n

	return left, right
}
