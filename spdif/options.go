package spdif

import "github.com/audiopipe/spdiftx/audio"

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a transmitter.
type Options struct {
	Producer audio.Producer
	OnCycle  func()
}

// Producer is a functional option to set the upstream pipeline stage the
// transmitter pulls its block pairs from.
func Producer(p audio.Producer) Option {
	return func(args *Options) {
		args.Producer = p
	}
}

// OnCycle is a functional option to set a callback which gets executed
// after every serviced half cycle, outside the interrupt mask. It lets
// the surrounding pipeline run its stages in lockstep with the hardware
// cadence.
func OnCycle(fn func()) Option {
	return func(args *Options) {
		args.OnCycle = fn
	}
}
