package spdif

import (
	"fmt"
	"sync"
	"time"

	"github.com/audiopipe/spdiftx/audio"
	"github.com/audiopipe/spdiftx/dma"
)

// Transport is the transmitter peripheral as the core sees it: a one
// time register bring-up and a data register the DMA engine writes to.
type Transport interface {
	// Configure runs the one time clock tree, pin routing and subcode
	// policy bring-up. It does not return before the transmit clock has
	// locked; there is no degraded mode to fall back to.
	Configure() error

	// EnableDMA asserts the peripheral's transmit DMA request line.
	// Configure must have completed first.
	EnableDMA() error

	// DataRegister returns the writer backing the transmit data
	// register.
	DataRegister() dma.WordWriter
}

// Loopback is a software transport which collects the transmitted
// sub-frame words so they can be read back, decoded and auditioned. It
// stands in for the hardware peripheral in tests and in the simulated
// playback path.
type Loopback struct {
	mu         sync.Mutex
	words      []int32
	configured bool
	dmaEnabled bool
	lockDelay  time.Duration
}

// NewLoopback returns a loopback transport whose transmit clock locks
// after the given delay. A zero delay locks immediately.
func NewLoopback(lockDelay time.Duration) *Loopback {
	return &Loopback{lockDelay: lockDelay}
}

// Configure waits for the simulated clock lock.
func (l *Loopback) Configure() error {
	time.Sleep(l.lockDelay)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.configured = true
	return nil
}

// EnableDMA asserts the transmit DMA request line.
func (l *Loopback) EnableDMA() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.configured {
		return fmt.Errorf("transport not configured")
	}
	l.dmaEnabled = true
	return nil
}

// DataRegister returns the loopback itself; every word the engine
// transfers lands in the capture buffer.
func (l *Loopback) DataRegister() dma.WordWriter {
	return l
}

// WriteWord implements dma.WordWriter.
func (l *Loopback) WriteWord(w int32) {
	l.mu.Lock()
	l.words = append(l.words, w)
	l.mu.Unlock()
}

// Words returns a copy of all captured sub-frame words.
func (l *Loopback) Words() []int32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	res := make([]int32, len(l.words))
	copy(res, l.words)
	return res
}

// DrainBlocks removes and returns as many complete block pairs as have
// been captured, decoded back into sample pairs. Incomplete trailing
// data stays in the capture buffer.
func (l *Loopback) DrainBlocks() [][2][audio.BlockSamples]int16 {
	const blockWords = 2 * audio.BlockSamples

	l.mu.Lock()
	n := len(l.words) / blockWords
	words := l.words[:n*blockWords]
	rest := make([]int32, len(l.words)-n*blockWords)
	copy(rest, l.words[n*blockWords:])
	blocks := make([][2][audio.BlockSamples]int16, n)
	for i := 0; i < n; i++ {
		Deinterleave(words[i*blockWords:(i+1)*blockWords], &blocks[i][0], &blocks[i][1])
	}
	l.words = rest
	l.mu.Unlock()

	return blocks
}
