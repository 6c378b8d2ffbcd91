package wavWriter

// Default parameters of the wav file into which the audio is recorded.
const (
	DefaultSamplerate float64 = 44100
	DefaultBitDepth   int     = 16
	DefaultChannels   int     = 2
)

// Option is the type for a function option
type Option func(*Options)

// Options contains the parameters for initializing a wav writer.
type Options struct {
	Channels   int
	BitDepth   int
	Samplerate float64
}

// Channels is a functional option to set the amount of channels to be
// written into the wav file.
func Channels(chs int) Option {
	return func(args *Options) {
		args.Channels = chs
	}
}

// BitDepth is a functional option to set the bit depth (dynamic range)
// of the recorded wav file.
func BitDepth(b int) Option {
	return func(args *Options) {
		args.BitDepth = b
	}
}

// Samplerate is a functional option to set the sample rate of the
// recorded wav file.
func Samplerate(s float64) Option {
	return func(args *Options) {
		args.Samplerate = s
	}
}
