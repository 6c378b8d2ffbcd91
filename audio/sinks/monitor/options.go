package monitor

import "time"

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a monitor sink.
type Options struct {
	DeviceName      string
	Samplerate      float64
	FramesPerBuffer int
	Latency         time.Duration
	RingBufferSize  int
}

// DeviceName is a functional option to specify the name of the audio
// output device the monitor plays on.
func DeviceName(name string) Option {
	return func(args *Options) {
		args.DeviceName = name
	}
}

// Samplerate is a functional option to set the sampling rate of the
// audio device. It should match the rate of the monitored transmit
// stream; the monitor performs no rate conversion.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// FramesPerBuffer is a functional option which sets the amount of sample
// frames the audio device will request per callback.
func FramesPerBuffer(s int) Option {
	return func(args *Options) {
		args.FramesPerBuffer = s
	}
}

// Latency is a functional option to set the latency of the audio device.
func Latency(t time.Duration) Option {
	return func(args *Options) {
		args.Latency = t
	}
}

// RingBufferSize is a functional option to set the size of the ring
// buffer holding audio buffers until the playback callback retrieves
// them.
func RingBufferSize(size int) Option {
	return func(args *Options) {
		args.RingBufferSize = size
	}
}
