package wavReader

import (
	"os"
	"path/filepath"
	"testing"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"

	"github.com/audiopipe/spdiftx/audio"
)

// writeTestWav writes a 16 bit wav file and returns its path.
func writeTestWav(t *testing.T, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	enc := wav.NewEncoder(f, 44100, 16, channels, 1)
	buf := &ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  44100,
			NumChannels: channels,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWavReaderStereo(t *testing.T) {

	// one full block plus a partial one
	frames := audio.BlockSamples + 10
	data := make([]int, 0, frames*2)
	for i := 0; i < frames; i++ {
		data = append(data, i+1, -(i + 1))
	}

	pool := audio.NewBlockPool(4)
	w, err := NewWavReader(writeTestWav(t, 2, data), pool)
	if err != nil {
		t.Fatal(err)
	}

	if w.Samplerate() != 44100 {
		t.Errorf("expected samplerate 44100, got %f", w.Samplerate())
	}

	left, right := w.Pull()
	if left == nil || right == nil {
		t.Fatal("expected a block pair")
	}
	for i := 0; i < audio.BlockSamples; i++ {
		if left.Data[i] != int16(i+1) || right.Data[i] != int16(-(i+1)) {
			t.Fatalf("sample %d: got %d/%d", i, left.Data[i], right.Data[i])
		}
	}
	left.Release()
	right.Release()

	if w.Exhausted() {
		t.Fatal("reader must not be exhausted with material left")
	}

	// the final partial block is zero padded
	left, right = w.Pull()
	if left == nil || right == nil {
		t.Fatal("expected the final block pair")
	}
	if left.Data[9] != int16(audio.BlockSamples+10) {
		t.Errorf("unexpected last sample %d", left.Data[9])
	}
	for i := 10; i < audio.BlockSamples; i++ {
		if left.Data[i] != 0 || right.Data[i] != 0 {
			t.Fatal("expected the final block to be zero padded")
		}
	}
	left.Release()
	right.Release()

	if !w.Exhausted() {
		t.Error("reader must be exhausted")
	}
	if l, r := w.Pull(); l != nil || r != nil {
		t.Error("an exhausted reader must contribute nothing")
	}
	if pool.Outstanding() != 0 {
		t.Errorf("reference leak: %d blocks outstanding", pool.Outstanding())
	}
}

func TestWavReaderMonoDuplicatesChannels(t *testing.T) {

	data := make([]int, audio.BlockSamples)
	for i := range data {
		data[i] = i - 50
	}

	pool := audio.NewBlockPool(2)
	w, err := NewWavReader(writeTestWav(t, 1, data), pool)
	if err != nil {
		t.Fatal(err)
	}

	left, right := w.Pull()
	if left == nil || right == nil {
		t.Fatal("expected a block pair")
	}
	defer left.Release()
	defer right.Release()

	if left.Data != right.Data {
		t.Error("mono material must appear on both channels")
	}
	if left.Data[0] != -50 {
		t.Errorf("unexpected first sample %d", left.Data[0])
	}
}

func TestWavReaderExhaustedPool(t *testing.T) {

	data := make([]int, audio.BlockSamples*2)

	pool := audio.NewBlockPool(1)
	w, err := NewWavReader(writeTestWav(t, 1, data), pool)
	if err != nil {
		t.Fatal(err)
	}

	left, right := w.Pull()
	if left != nil || right != nil {
		t.Fatal("a pool with a single block cannot supply a pair")
	}
	if pool.Outstanding() != 0 {
		t.Error("the lone acquired block must be handed back")
	}
	if w.Exhausted() {
		t.Error("a failed pull must not consume material")
	}
}

func TestWavReaderMissingFile(t *testing.T) {

	pool := audio.NewBlockPool(1)
	if _, err := NewWavReader("does-not-exist.wav", pool); err == nil {
		t.Error("expected an error for a missing file")
	}
}
