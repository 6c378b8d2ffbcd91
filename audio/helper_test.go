package audio

import (
	"reflect"
	"testing"
)

func TestAdjustChannelsMonoToStereo(t *testing.T) {

	in := []float32{0.1, -0.2, 0.3}
	out := AdjustChannels(1, 2, in)

	expected := []float32{0.1, 0.1, -0.2, -0.2, 0.3, 0.3}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}

func TestAdjustChannelsStereoToMono(t *testing.T) {

	in := []float32{0.1, -0.2, 0.3, 0.4}
	out := AdjustChannels(2, 1, in)

	expected := []float32{0.1, 0.3}
	if !reflect.DeepEqual(out, expected) {
		t.Fatalf("expected %v, got %v", expected, out)
	}
}

func TestStereoFloat32(t *testing.T) {

	left := []int16{0, 16384, -32768}
	right := []int16{32767, -16384, 0}

	out := StereoFloat32(left, right)

	if len(out) != 6 {
		t.Fatalf("expected 6 samples, got %d", len(out))
	}
	if out[0] != 0 || out[4] != -1 {
		t.Errorf("left channel not interleaved correctly: %v", out)
	}
	if out[1] >= 1 || out[1] < 0.99 {
		t.Errorf("full scale right sample not scaled correctly: %v", out[1])
	}
	if out[3] != -0.5 {
		t.Errorf("expected -0.5, got %v", out[3])
	}
}
