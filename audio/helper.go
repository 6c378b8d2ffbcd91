package audio

// AdjustChannels converts an audio buffer between mono and stereo by
// duplicating respectively dropping the right channel.
func AdjustChannels(iChs, oChs int, audioFrames []float32) []float32 {
	// mono -> stereo
	if iChs == 1 && oChs == 2 {
		res := make([]float32, 0, len(audioFrames)*2)
		// left channel = right channel
		for _, frame := range audioFrames {
			res = append(res, frame)
			res = append(res, frame)
		}
		return res
	}

	// stereo -> mono
	res := make([]float32, 0, len(audioFrames)/2)
	// chop off the right channel
	for i := 0; i < len(audioFrames); i += 2 {
		res = append(res, audioFrames[i])
	}
	return res
}

// AdjustVolume applies a volume factor to all samples in the buffer.
func AdjustVolume(volume float32, audioFrames []float32) {
	for i := 0; i < len(audioFrames); i++ {
		audioFrames[i] *= volume
	}
}

// StereoFloat32 interleaves a pair of 16-bit channel buffers into a
// float32 stereo buffer scaled to [-1, 1).
func StereoFloat32(left, right []int16) []float32 {
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	res := make([]float32, 0, n*2)
	for i := 0; i < n; i++ {
		res = append(res, float32(left[i])/32768)
		res = append(res, float32(right[i])/32768)
	}
	return res
}
