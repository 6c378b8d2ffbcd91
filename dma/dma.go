// Package dma provides a minimal abstraction of a hardware DMA engine
// capable of free running circular transfers, modelled after the eDMA
// transfer control descriptors found on i.MX RT parts. The transmit core
// only depends on this package's interfaces, so it can be exercised
// against the simulated engine without real hardware.
package dma

import "fmt"

// WordWriter is the destination of a transfer, typically a peripheral
// data register.
type WordWriter interface {
	WriteWord(int32)
}

// Descriptor describes a free running circular transfer: the engine
// copies MinorWords words from Source to Dest per service request, wraps
// back to the start of Source after MajorLoops requests and reloads the
// major loop count automatically. No software re-arming is required once
// the channel is enabled.
type Descriptor struct {
	// Source is the circular buffer the engine reads from.
	Source []int32

	// Dest receives every transferred word.
	Dest WordWriter

	// MinorWords is the number of words copied per service request.
	MinorWords int

	// MajorLoops is the number of service requests per revolution of the
	// source buffer.
	MajorLoops int

	// InterruptHalf requests an interrupt when the major loop count is
	// half complete, InterruptFull when it completes.
	InterruptHalf bool
	InterruptFull bool
}

// Validate checks the descriptor for internal consistency.
func (d Descriptor) Validate() error {
	if len(d.Source) == 0 {
		return fmt.Errorf("descriptor source buffer is empty")
	}
	if d.Dest == nil {
		return fmt.Errorf("descriptor destination is nil")
	}
	if d.MinorWords <= 0 {
		return fmt.Errorf("descriptor minor loop size must be positive")
	}
	if d.MajorLoops <= 0 || d.MajorLoops%2 != 0 {
		return fmt.Errorf("descriptor major loop count must be positive and even")
	}
	if len(d.Source) != d.MinorWords*d.MajorLoops {
		return fmt.Errorf("descriptor source length %d does not match %d requests of %d words",
			len(d.Source), d.MajorLoops, d.MinorWords)
	}
	return nil
}

// Engine is the minimal DMA capability the transmit core relies on:
// circular source semantics, a configurable minor loop size, half/full
// interrupt signalling and a readable current source address.
type Engine interface {
	// Begin acquires the channel. Must be called before Program.
	Begin() error

	// Program installs the transfer descriptor on the channel.
	Program(Descriptor) error

	// AttachInterrupt registers the handler invoked on the half and full
	// completion interrupts.
	AttachInterrupt(func())

	// ClearInterrupt acknowledges a pending interrupt request. Handlers
	// call this early, before touching any buffers, so a subsequent
	// request is not missed.
	ClearInterrupt()

	// Enable starts the transfer; Disable halts it.
	Enable() error
	Disable() error

	// SourceAddress reports the engine's current read position as a word
	// index into the descriptor's source buffer.
	SourceAddress() int

	// FlushWrites makes a freshly written range of the source buffer
	// visible to the engine, equivalent to a cache flush on parts with a
	// data cache in front of the DMA port. first and count are word
	// offsets into the source buffer.
	FlushWrites(first, count int)

	// MaskInterrupt and UnmaskInterrupt bracket a critical section during
	// which the completion handler will not run. They mask only this
	// channel's interrupt source; the section must stay minimal since the
	// handler is stalled for its duration.
	MaskInterrupt()
	UnmaskInterrupt()
}
