package tone

import (
	"testing"

	"github.com/audiopipe/spdiftx/audio"
)

func TestNewToneValidatesOptions(t *testing.T) {

	pool := audio.NewBlockPool(2)

	if _, err := NewTone(nil); err == nil {
		t.Error("expected an error for a nil pool")
	}
	if _, err := NewTone(pool, Frequency(0)); err == nil {
		t.Error("expected an error for a zero frequency")
	}
	if _, err := NewTone(pool, Amplitude(1.5)); err == nil {
		t.Error("expected an error for an amplitude > 1")
	}
}

func TestToneProducesMatchedPair(t *testing.T) {

	pool := audio.NewBlockPool(2)
	gen, err := NewTone(pool, Frequency(1000), Amplitude(0.5))
	if err != nil {
		t.Fatal(err)
	}

	left, right := gen.Pull()
	if left == nil || right == nil {
		t.Fatal("expected a block pair")
	}
	defer left.Release()
	defer right.Release()

	if left.Data != right.Data {
		t.Error("both channels must carry the identical tone")
	}

	peak := 0.5 * 32767
	limit := int16(peak) + 1
	nonZero := false
	for _, s := range left.Data {
		if s > limit || s < -limit {
			t.Fatalf("sample %d exceeds the configured amplitude", s)
		}
		if s != 0 {
			nonZero = true
		}
	}
	if !nonZero {
		t.Error("expected a non silent tone")
	}
}

func TestTonePhaseIsContinuous(t *testing.T) {

	pool := audio.NewBlockPool(4)
	gen, err := NewTone(pool, Samplerate(44100), Frequency(440), Amplitude(0.5))
	if err != nil {
		t.Fatal(err)
	}

	a, b := gen.Pull()
	c, d := gen.Pull()
	defer a.Release()
	defer b.Release()
	defer c.Release()
	defer d.Release()

	signal := append(append([]int16{}, a.Data[:]...), c.Data[:]...)

	// the largest step between consecutive samples of a sine is
	// amplitude * omega
	step := 0.5 * 32767 * (2 * 3.1416 * 440 / 44100)
	maxStep := int16(step) + 4

	for i := 1; i < len(signal); i++ {
		diff := int(signal[i]) - int(signal[i-1])
		if diff < 0 {
			diff = -diff
		}
		if diff > int(maxStep) {
			t.Fatalf("discontinuity of %d at sample %d (block boundary at %d)",
				diff, i, audio.BlockSamples)
		}
	}
}

func TestToneHandlesExhaustedPool(t *testing.T) {

	pool := audio.NewBlockPool(1)
	gen, err := NewTone(pool)
	if err != nil {
		t.Fatal(err)
	}

	left, right := gen.Pull()
	if left != nil || right != nil {
		t.Fatal("a pool with a single block cannot supply a pair")
	}
	if pool.Outstanding() != 0 {
		t.Error("the lone acquired block must be handed back")
	}
}
