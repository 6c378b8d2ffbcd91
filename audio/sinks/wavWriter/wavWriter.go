package wavWriter

import (
	"os"
	"sync"

	ga "github.com/go-audio/audio"
	wav "github.com/go-audio/wav"

	"github.com/audiopipe/spdiftx/audio"
)

// WavWriter implements the audio.Sink interface and is used to record
// the decoded transmit stream into a wav file.
type WavWriter struct {
	sync.Mutex
	file    *os.File
	encoder *wav.Encoder
	options Options
	volume  float32
}

// NewWavWriter returns a wavWriter to which audio frames can be written.
// The audio data will be saved in the wav format.
func NewWavWriter(path string, opts ...Option) (*WavWriter, error) {

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := &WavWriter{
		options: Options{
			Channels:   DefaultChannels,
			BitDepth:   DefaultBitDepth,
			Samplerate: DefaultSamplerate,
		},
		volume: 1.0,
		file:   f,
	}

	for _, o := range opts {
		o(&w.options)
	}

	// make sure we only allow 12 / 16 bit bit depth (dynamic range)
	switch w.options.BitDepth {
	case 12, 16:
	default:
		w.options.BitDepth = 16
	}

	w.encoder = wav.NewEncoder(f, int(w.options.Samplerate),
		w.options.BitDepth, w.options.Channels, 1)

	return w, nil
}

// Start writing audio to the wav file.
func (w *WavWriter) Start() error {
	return nil
}

// Stop writing audio frames to the wav file.
func (w *WavWriter) Stop() error {
	return nil
}

// Close shuts down the wavWriter properly. The wav header is finalized
// here; a file that is not closed is not playable.
func (w *WavWriter) Close() error {
	w.Lock()
	defer w.Unlock()
	err := w.encoder.Close()
	w.file.Close()
	return err
}

// SetVolume sets the volume for all incoming audio frames.
func (w *WavWriter) SetVolume(v float32) {
	w.Lock()
	defer w.Unlock()
	if v < 0 {
		w.volume = 0
	} else if v > 1 {
		w.volume = 1
	} else {
		w.volume = v
	}
}

// Volume returns the current volume.
func (w *WavWriter) Volume() float32 {
	w.Lock()
	defer w.Unlock()
	return w.volume
}

// Write converts the audio buffer from float32 into the configured
// dynamic range and appends it to the wav file. The channel count will
// be adjusted if necessary; the sample rate is taken as is.
func (w *WavWriter) Write(msg audio.Msg) error {

	var aData []float32

	// max value of an audio sample converted from float32
	const (
		b12 int = 4096
		b16 int = 32768
	)

	// if necessary adjust the amount of audio channels
	if msg.Channels != w.options.Channels {
		aData = audio.AdjustChannels(msg.Channels, w.options.Channels, msg.Data)
	} else {
		aData = msg.Data
	}

	w.Lock()
	defer w.Unlock()

	audio.AdjustVolume(w.volume, aData)

	scale := b16
	if w.options.BitDepth == 12 {
		scale = b12
	}

	buf := ga.IntBuffer{
		Format: &ga.Format{
			SampleRate:  int(w.options.Samplerate),
			NumChannels: w.options.Channels,
		},
		Data:           make([]int, 0, len(aData)),
		SourceBitDepth: w.options.BitDepth,
	}

	for _, sample := range aData {
		s := int(sample * float32(scale))
		if s > scale-1 {
			s = scale - 1
		} else if s < -scale {
			s = -scale
		}
		buf.Data = append(buf.Data, s)
	}

	return w.encoder.Write(&buf)
}

// Flush is not implemented for this sink; samples are written through to
// the encoder on every call.
func (w *WavWriter) Flush() {
}
