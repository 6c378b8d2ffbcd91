package spdif

import (
	"testing"

	"github.com/audiopipe/spdiftx/audio"
)

func TestLoopbackBringUpOrder(t *testing.T) {

	lb := NewLoopback(0)

	if err := lb.EnableDMA(); err == nil {
		t.Error("enabling the DMA request before Configure must fail")
	}

	if err := lb.Configure(); err != nil {
		t.Fatal(err)
	}
	if err := lb.EnableDMA(); err != nil {
		t.Fatal(err)
	}
}

func TestLoopbackCapturesWords(t *testing.T) {

	lb := NewLoopback(0)

	lb.WriteWord(0x1234)
	lb.WriteWord(-0x1234)

	words := lb.Words()
	if len(words) != 2 || words[0] != 0x1234 || words[1] != -0x1234 {
		t.Fatalf("unexpected capture: %v", words)
	}
}

func TestLoopbackDrainKeepsPartialBlocks(t *testing.T) {

	lb := NewLoopback(0)

	var left, right [audio.BlockSamples]int16
	for i := range left {
		left[i] = int16(i + 1)
		right[i] = int16(-(i + 1))
	}

	buf := make([]int32, 2*audio.BlockSamples)
	Interleave(buf, &left, &right)

	// one complete block plus a partial one
	for _, w := range buf {
		lb.WriteWord(w)
	}
	lb.WriteWord(buf[0])
	lb.WriteWord(buf[1])

	blocks := lb.DrainBlocks()
	if len(blocks) != 1 {
		t.Fatalf("expected 1 complete block, got %d", len(blocks))
	}
	if blocks[0][0] != left || blocks[0][1] != right {
		t.Fatal("decoded block does not match the transmitted samples")
	}

	if got := len(lb.Words()); got != 2 {
		t.Fatalf("expected the partial block to stay captured, got %d words", got)
	}

	// completing the partial block makes it drainable
	for _, w := range buf[2:] {
		lb.WriteWord(w)
	}
	if blocks := lb.DrainBlocks(); len(blocks) != 1 {
		t.Fatalf("expected the completed block, got %d", len(blocks))
	}
}
