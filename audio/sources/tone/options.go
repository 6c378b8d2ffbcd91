package tone

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a tone generator.
type Options struct {
	Samplerate float64
	Frequency  float32
	Amplitude  float32
}

// Samplerate is a functional option to set the sample rate the generated
// tone is calculated for. It must match the rate of the consuming
// transmitter, otherwise the tone plays at the wrong pitch.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}

// Frequency is a functional option to set the tone frequency in Hz.
func Frequency(f float32) Option {
	return func(args *Options) {
		args.Frequency = f
	}
}

// Amplitude is a functional option to set the tone amplitude as a
// fraction of full scale (0..1).
func Amplitude(a float32) Option {
	return func(args *Options) {
		args.Amplitude = a
	}
}
