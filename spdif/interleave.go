package spdif

import "github.com/audiopipe/spdiftx/audio"

// Interleave packs one left/right block pair into dst as transmit
// sub-frame words: dst[2i] carries left sample i, dst[2i+1] the matching
// right sample. The 16 sample bits land in bits 8..23 of each word; the
// low 8 bits stay zero for the validity and subcode fields and the top 8
// bits are ignored by the transmitter. This is a plain bit remap, no
// rounding or clipping, and it runs in the completion handler, so it is
// unrolled by four and allocates nothing.
//
// dst must hold at least 2*BlockSamples words.
func Interleave(dst []int32, left, right *[audio.BlockSamples]int16) {
	_ = dst[2*audio.BlockSamples-1]
	for i := 0; i < audio.BlockSamples; i += 4 {
		dst[2*i] = int32(left[i]) << 8
		dst[2*i+1] = int32(right[i]) << 8

		dst[2*i+2] = int32(left[i+1]) << 8
		dst[2*i+3] = int32(right[i+1]) << 8

		dst[2*i+4] = int32(left[i+2]) << 8
		dst[2*i+5] = int32(right[i+2]) << 8

		dst[2*i+6] = int32(left[i+3]) << 8
		dst[2*i+7] = int32(right[i+3]) << 8
	}
}

// Deinterleave is the inverse remap: it recovers the left/right sample
// pair from a run of sub-frame words. src must hold at least
// 2*BlockSamples words.
func Deinterleave(src []int32, left, right *[audio.BlockSamples]int16) {
	_ = src[2*audio.BlockSamples-1]
	for i := 0; i < audio.BlockSamples; i++ {
		left[i] = int16(src[2*i] >> 8)
		right[i] = int16(src[2*i+1] >> 8)
	}
}
