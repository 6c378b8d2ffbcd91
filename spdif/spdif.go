// Package spdif implements the transmit data path of an S/PDIF output:
// block pairs supplied by an upstream producer are queued, interleaved
// into the transmitter's sub-frame layout inside the DMA completion
// handler and streamed to the peripheral by a free running circular
// transfer. When a channel has nothing queued, silence is transmitted in
// its place so the output stream never starves.
package spdif

import (
	"fmt"
	"sync/atomic"

	"github.com/audiopipe/spdiftx/audio"
	"github.com/audiopipe/spdiftx/dma"
)

const (
	// FifoWords is the size of the circular staging buffer in sub-frame
	// words: two halves of 2*BlockSamples words, each holding one
	// interleaved block pair.
	FifoWords = 4 * audio.BlockSamples

	// HalfWords is the size of one staging buffer half.
	HalfWords = FifoWords / 2

	// minorWords is the transfer granularity: one left/right word pair
	// per DMA service request.
	minorWords = 2

	// majorLoops is the number of service requests per revolution of the
	// staging buffer.
	majorLoops = FifoWords / minorWords

	// pendingSlots is the depth of the per channel pending queue.
	pendingSlots = 2
)

const (
	chLeft = iota
	chRight
	numChannels
)

// Stats holds cumulative transmit counters. All counters are updated in
// the hot path with atomic adds and can be read at any time.
type Stats struct {
	// Cycles is the number of serviced half cycles.
	Cycles uint64
	// SilentCycles is the number of half cycles in which at least one
	// channel transmitted silence.
	SilentCycles uint64
	// PairsAccepted is the number of block pairs taken over from the
	// producer.
	PairsAccepted uint64
	// PairsEvicted is the number of block pairs dropped because the
	// pending queues overflowed.
	PairsEvicted uint64
}

// Tx is the transmit data path. It owns the circular staging buffer, the
// per channel pending queues and the silence fallback. A Tx is
// constructed once and then shared between two execution contexts: the
// producer context calling Update and the interrupt context running the
// completion handler. The two synchronize exclusively through the DMA
// engine's interrupt mask.
type Tx struct {
	options Options

	eng   dma.Engine
	trans Transport

	// fifo is the circular staging buffer read continuously by the DMA
	// engine. The completion handler writes exactly one half per
	// interrupt, never the half the engine is currently reading.
	fifo [FifoWords]int32

	// pending holds the blocks awaiting transmission. Slot 0 is the next
	// block to transmit. Both channels always advance in lockstep.
	pending [numChannels][pendingSlots]*audio.Block

	silence *audio.Block

	cycles        uint64
	silentCycles  uint64
	pairsAccepted uint64
	pairsEvicted  uint64
}

// NewTx returns a transmitter bound to the given DMA engine and
// transport. The transfer is not armed until Start is called.
func NewTx(eng dma.Engine, trans Transport, opts ...Option) (*Tx, error) {

	if eng == nil {
		return nil, fmt.Errorf("dma engine is nil")
	}
	if trans == nil {
		return nil, fmt.Errorf("transport is nil")
	}

	x := &Tx{
		eng:     eng,
		trans:   trans,
		silence: audio.Silence(),
	}

	for _, option := range opts {
		option(&x.options)
	}

	return x, nil
}

// SetProducer sets the upstream pipeline stage the transmitter pulls its
// block pairs from. Must be called before the first Update.
func (x *Tx) SetProducer(p audio.Producer) {
	x.eng.MaskInterrupt()
	x.options.Producer = p
	x.eng.UnmaskInterrupt()
}

// Start performs the one time bring-up: configure the transport, program
// the transfer descriptor, attach the completion handler and arm the
// channel. Once Start returns, all buffer motion is driven by the
// engine's half/full completion interrupts; software never pushes data.
func (x *Tx) Start() error {

	if err := x.eng.Begin(); err != nil {
		return fmt.Errorf("dma begin: %v", err)
	}

	if err := x.trans.Configure(); err != nil {
		return fmt.Errorf("transport bring-up: %v", err)
	}

	d := dma.Descriptor{
		Source:        x.fifo[:],
		Dest:          x.trans.DataRegister(),
		MinorWords:    minorWords,
		MajorLoops:    majorLoops,
		InterruptHalf: true,
		InterruptFull: true,
	}

	if err := x.eng.Program(d); err != nil {
		return fmt.Errorf("dma descriptor: %v", err)
	}

	x.eng.AttachInterrupt(x.onComplete)

	if err := x.eng.Enable(); err != nil {
		return fmt.Errorf("dma enable: %v", err)
	}

	if err := x.trans.EnableDMA(); err != nil {
		return fmt.Errorf("transport dma request: %v", err)
	}

	return nil
}

// Stop halts the transfer.
func (x *Tx) Stop() error {
	return x.eng.Disable()
}

// Update pulls at most one block pair from the producer and queues it
// for transmission. It runs in the producer context at the producer's
// own cadence and may be preempted by the completion handler anywhere
// outside the masked section.
//
// The pending queues are depth-2 FIFOs with drop-oldest overflow: a pair
// arriving while both slots are full displaces the oldest queued pair,
// which is released here, after the critical section. A lone block for
// just one channel never transmits and is handed straight back.
func (x *Tx) Update() {
	if x.options.Producer == nil {
		return
	}

	left, right := x.options.Producer.Pull()

	if left == nil || right == nil {
		if left != nil {
			left.Release()
		}
		if right != nil {
			right.Release()
		}
		return
	}

	x.eng.MaskInterrupt()
	left = x.push(chLeft, left)
	right = x.push(chRight, right)
	x.eng.UnmaskInterrupt()

	atomic.AddUint64(&x.pairsAccepted, 1)

	// release the evicted leftovers outside the masked section
	if left != nil {
		left.Release()
	}
	if right != nil {
		right.Release()
	}
	if left != nil || right != nil {
		atomic.AddUint64(&x.pairsEvicted, 1)
	}
}

// push inserts b into the channel's pending queue and returns the block
// it displaced, or nil. Must run with the completion interrupt masked.
func (x *Tx) push(ch int, b *audio.Block) *audio.Block {
	q := &x.pending[ch]
	switch {
	case q[0] == nil:
		q[0] = b
		return nil
	case q[1] == nil:
		q[1] = b
		return nil
	default:
		old := q[0]
		q[0] = q[1]
		q[1] = b
		return old
	}
}

// onComplete services one half cycle. It is invoked by the DMA engine
// twice per revolution of the staging buffer and must finish well within
// one half cycle period. The body is bounded, branch-light and
// allocation-free; there is no error path, absent input becomes silence.
func (x *Tx) onComplete() {
	x.eng.MaskInterrupt()

	// The half the engine is not reading is safe to write.
	offset := x.txOffset()

	// Acknowledge before doing any buffer work so a subsequent request
	// is not missed.
	x.eng.ClearInterrupt()

	left := x.pending[chLeft][0]
	if left == nil {
		left = x.silence
	}
	right := x.pending[chRight][0]
	if right == nil {
		right = x.silence
	}

	Interleave(x.fifo[offset:offset+HalfWords], &left.Data, &right.Data)
	x.eng.FlushWrites(offset, HalfWords)

	if left != x.silence && right != x.silence {
		left.Release()
		right.Release()

		x.pending[chLeft][0] = x.pending[chLeft][1]
		x.pending[chLeft][1] = nil
		x.pending[chRight][0] = x.pending[chRight][1]
		x.pending[chRight][1] = nil
	} else {
		atomic.AddUint64(&x.silentCycles, 1)
	}

	atomic.AddUint64(&x.cycles, 1)

	x.eng.UnmaskInterrupt()

	if x.options.OnCycle != nil {
		x.options.OnCycle()
	}
}

// txOffset selects the staging buffer half the engine is not currently
// reading: while the read position lies in the first half, the second
// half is written, and vice versa.
func (x *Tx) txOffset() int {
	if x.eng.SourceAddress() < HalfWords {
		return HalfWords
	}
	return 0
}

// Stats returns a snapshot of the cumulative transmit counters.
func (x *Tx) Stats() Stats {
	return Stats{
		Cycles:        atomic.LoadUint64(&x.cycles),
		SilentCycles:  atomic.LoadUint64(&x.silentCycles),
		PairsAccepted: atomic.LoadUint64(&x.pairsAccepted),
		PairsEvicted:  atomic.LoadUint64(&x.pairsEvicted),
	}
}
