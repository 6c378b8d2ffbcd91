package spdif

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/audiopipe/spdiftx/audio"
)

func TestInterleaveLayout(t *testing.T) {

	var left, right [audio.BlockSamples]int16
	for i := range left {
		left[i] = int16(i)
		right[i] = int16(-i)
	}

	dst := make([]int32, 2*audio.BlockSamples)
	Interleave(dst, &left, &right)

	for i := 0; i < audio.BlockSamples; i++ {
		if dst[2*i] != int32(left[i])<<8 {
			t.Fatalf("left sample %d not at even word: %#x", i, dst[2*i])
		}
		if dst[2*i+1] != int32(right[i])<<8 {
			t.Fatalf("right sample %d not at odd word: %#x", i, dst[2*i+1])
		}
	}
}

// every possible 16 bit sample must land in bits 8..23 with the low
// 8 bits zeroed
func TestInterleaveBitPosition(t *testing.T) {

	var left, right [audio.BlockSamples]int16
	dst := make([]int32, 2*audio.BlockSamples)

	for base := -32768; base < 32768; base += audio.BlockSamples {
		for i := 0; i < audio.BlockSamples; i++ {
			left[i] = int16(base + i)
			right[i] = int16(base + i)
		}

		Interleave(dst, &left, &right)

		for i, w := range dst {
			sample := left[i/2]
			if w&0xFF != 0 {
				t.Fatalf("sample %d: low 8 bits not zero: %#x", sample, w)
			}
			if uint16(uint32(w)>>8) != uint16(sample) {
				t.Fatalf("sample %d not in bits 8..23: %#x", sample, w)
			}
		}
	}
}

func TestInterleaveIsPure(t *testing.T) {

	var left, right [audio.BlockSamples]int16
	rnd := rand.New(rand.NewSource(1))
	for i := range left {
		left[i] = int16(rnd.Intn(65536) - 32768)
		right[i] = int16(rnd.Intn(65536) - 32768)
	}

	a := make([]int32, 2*audio.BlockSamples)
	b := make([]int32, 2*audio.BlockSamples)
	Interleave(a, &left, &right)
	Interleave(b, &left, &right)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("interleaving the same input twice produced different output")
	}
}

func TestDeinterleaveRoundtrip(t *testing.T) {

	var left, right [audio.BlockSamples]int16
	rnd := rand.New(rand.NewSource(2))
	for i := range left {
		left[i] = int16(rnd.Intn(65536) - 32768)
		right[i] = int16(rnd.Intn(65536) - 32768)
	}

	dst := make([]int32, 2*audio.BlockSamples)
	Interleave(dst, &left, &right)

	var gotLeft, gotRight [audio.BlockSamples]int16
	Deinterleave(dst, &gotLeft, &gotRight)

	if gotLeft != left || gotRight != right {
		t.Fatal("deinterleave did not recover the original samples")
	}
}
