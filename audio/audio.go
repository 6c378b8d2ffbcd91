package audio

// Producer is the interface implemented by an upstream pipeline stage
// which supplies audio blocks, e.g. a tone generator or a file reader.
// Pull is called once per transmit cycle and returns at most one block
// per channel. Ownership of a returned block transfers to the caller,
// which must release it exactly once. Returning nil for a channel means
// "nothing to contribute this cycle".
type Producer interface {
	Pull() (left, right *Block)
}

// Sink is the interface which is implemented by an audio sink. This could
// be an audio player or a file for recording.
type Sink interface {
	Start() error
	Stop() error
	Close() error
	SetVolume(float32)
	Volume() float32
	Write(Msg) error
	Flush()
}

// Msg contains an audio buffer with its metadata.
type Msg struct {
	Data       []float32
	Samplerate float64
	Channels   int
	Frames     int // Number of Frames in the buffer
	EOF        bool
}
