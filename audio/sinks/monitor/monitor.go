package monitor

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	ringBuffer "github.com/dh1tw/golang-ring"
	pa "github.com/gordonklaus/portaudio"

	"github.com/audiopipe/spdiftx/audio"
)

// channels is fixed to stereo; the monitored transmit stream always
// carries a left/right pair.
const channels = 2

// Monitor implements the audio.Sink interface and plays the decoded
// transmit stream on a local audio output device, so the simulated
// output can be auditioned.
type Monitor struct {
	sync.RWMutex
	options    Options
	deviceInfo *pa.DeviceInfo
	stream     *pa.Stream
	ring       ringBuffer.Ring
	stash      []float32
	volume     float32
	bufFill    bool // indicates if the buffer is filling up
}

// NewMonitor returns a new monitor sink for a specific audio output
// device. portaudio must be initialized before calling this.
func NewMonitor(opts ...Option) (*Monitor, error) {

	m := &Monitor{
		options: Options{
			DeviceName:      "default",
			Samplerate:      44100,
			FramesPerBuffer: audio.BlockSamples,
			RingBufferSize:  10,
			Latency:         time.Millisecond * 10,
		},
		ring:   ringBuffer.Ring{},
		volume: 0.7,
	}

	for _, option := range opts {
		option(&m.options)
	}

	if m.options.DeviceName == "default" {
		dev, err := pa.DefaultOutputDevice()
		if err != nil {
			return nil, fmt.Errorf("unable to determine the default output device: %v", err)
		}
		m.deviceInfo = dev
	} else {
		dev, err := getPaDevice(m.options.DeviceName)
		if err != nil {
			return nil, err
		}
		m.deviceInfo = dev
	}

	streamDeviceParam := pa.StreamDeviceParameters{
		Device:   m.deviceInfo,
		Channels: channels,
		Latency:  m.options.Latency,
	}

	streamParm := pa.StreamParameters{
		FramesPerBuffer: m.options.FramesPerBuffer,
		Output:          streamDeviceParam,
		SampleRate:      m.options.Samplerate,
	}

	m.ring.SetCapacity(m.options.RingBufferSize)

	stream, err := pa.OpenStream(streamParm, m.playCb)
	if err != nil {
		return nil,
			fmt.Errorf("unable to open playback audio stream on device %s: %s",
				m.options.DeviceName, err)
	}

	m.stream = stream
	log.Printf("monitor sound device: %s, HostAPI: %s\n", m.deviceInfo.Name, m.deviceInfo.HostApi.Name)

	return m, nil
}

// portaudio callback which will be called continuously when the stream
// is started; this function should be short and never block
func (m *Monitor) playCb(in []float32,
	iTime pa.StreamCallbackTimeInfo,
	iFlags pa.StreamCallbackFlags) {
	switch iFlags {
	case pa.OutputUnderflow:
		log.Println("Output Underflow")
		return // move on!
	case pa.OutputOverflow:
		log.Println("Output Overflow")
		return // move on!
	}

	var data interface{}

	m.Lock()
	bufFill := m.bufFill
	bufCapacity := m.ring.Capacity()
	bufLength := m.ring.Length()
	// when filling up the buffer, don't dequeue data
	if !bufFill {
		data = m.ring.Dequeue()
	}
	m.Unlock()

	// start filling buffer when buffer runs empty
	if bufLength == 0 {
		m.Lock()
		m.bufFill = true
		m.Unlock()
	}

	if bufFill {
		// stop filling buffer when it's again half full
		if bufLength >= bufCapacity/2 {
			m.bufFill = false
		}
	}

	// if no data is available we fill the audio package with silence
	if data == nil {
		for i := 0; i < len(in); i++ {
			in[i] = 0
		}
		return
	}

	audioData := data.([]float32)

	// should never happen
	if len(audioData) != len(in) {
		log.Printf("unable to play audio frame; expected frame size %d, but got %d",
			len(in), len(audioData))
		return
	}

	copy(in, audioData)
}

// Start starts playing the monitored stream on the output device.
func (m *Monitor) Start() error {
	if m.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	return m.stream.Start()
}

// Stop stops playing audio.
func (m *Monitor) Stop() error {
	if m.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	return m.stream.Stop()
}

// Close shuts down the audio device properly.
func (m *Monitor) Close() error {
	if m.stream == nil {
		return fmt.Errorf("portaudio stream not initialized")
	}
	m.stream.Abort()
	m.stream.Stop()
	return nil
}

// SetVolume sets the volume for all upcoming audio frames.
func (m *Monitor) SetVolume(v float32) {
	m.Lock()
	defer m.Unlock()
	if v < 0 {
		m.volume = 0
	} else if v > 1 {
		m.volume = 1
	} else {
		m.volume = v
	}
}

// Volume returns the current volume.
func (m *Monitor) Volume() float32 {
	m.RLock()
	defer m.RUnlock()
	return m.volume
}

// Write chops the frames in the audio buffer into chunks of the size
// expected by the playback callback and queues them into the ring
// buffer. The monitor performs no rate conversion; buffers arriving at
// another rate play at the wrong pitch.
func (m *Monitor) Write(msg audio.Msg) error {

	var aData []float32

	// if necessary adjust the amount of audio channels
	if msg.Channels != channels {
		aData = audio.AdjustChannels(msg.Channels, channels, msg.Data)
	} else {
		aData = msg.Data
	}

	// audio buffer size expected by the playback callback
	expBufferSize := m.options.FramesPerBuffer * channels

	// if there is data stashed from previous calls, prepend it to the
	// data received
	if len(m.stash) > 0 {
		aData = append(m.stash, aData...)
		m.stash = m.stash[:0] // empty
	}

	// if the audio buffer is smaller than the one we need, stash it for
	// the next call and return
	if len(aData) < expBufferSize {
		m.stash = aData
		return nil
	}

	// slice of audio buffers which will be enqueued into the ring buffer
	var bData [][]float32

	m.Lock()
	vol := m.volume
	m.Unlock()

	for len(aData) >= expBufferSize {
		if vol != 1 {
			audio.AdjustVolume(vol, aData[:expBufferSize])
		}
		bData = append(bData, aData[:expBufferSize])
		aData = aData[expBufferSize:]
	}

	// stash the left over
	if len(aData) > 0 {
		m.stash = aData
	}

	m.Lock()
	for _, frame := range bData {
		m.ring.Enqueue(frame)
	}
	m.Unlock()

	return nil
}

// Flush clears all internal buffers.
func (m *Monitor) Flush() {
	m.Lock()
	defer m.Unlock()

	m.stash = []float32{}

	m.ring = ringBuffer.Ring{}
	m.ring.SetCapacity(m.options.RingBufferSize)
}

// getPaDevice checks if the audio device actually exists and
// then returns it
func getPaDevice(name string) (*pa.DeviceInfo, error) {
	devices, err := pa.Devices()
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if strings.EqualFold(device.Name, name) {
			return device, nil
		}
	}
	return nil, fmt.Errorf("unknown audio device '%s'", name)
}
