package dma

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Sim is a software DMA engine implementing the Engine interface. It
// reproduces the transfer semantics of a free running circular channel:
// words move from the descriptor's source buffer to its destination in
// minor loop granularity, the source address wraps after each revolution
// and the attached handler fires at the half and full completion points.
//
// Transfers are driven either manually with Step, which is what the
// tests use, or in real time with Start, which services requests at the
// rate a hardware request source would.
type Sim struct {
	mask sync.Mutex // interrupt mask, held by handlers and critical sections

	desc    Descriptor
	handler func()

	saddr   int32 // current read position (word index), read concurrently
	pending int32 // interrupt request flag
	missed  uint64

	loop       int // service requests completed in the current revolution
	begun      bool
	programmed bool
	enabled    bool

	clockDone chan struct{}
	clockWg   sync.WaitGroup
}

// NewSim returns an idle simulated DMA engine.
func NewSim() *Sim {
	return &Sim{}
}

// Begin acquires the simulated channel.
func (s *Sim) Begin() error {
	s.begun = true
	return nil
}

// Program validates and installs the transfer descriptor.
func (s *Sim) Program(d Descriptor) error {
	if !s.begun {
		return fmt.Errorf("dma channel not acquired")
	}
	if err := d.Validate(); err != nil {
		return err
	}
	s.desc = d
	s.loop = 0
	atomic.StoreInt32(&s.saddr, 0)
	s.programmed = true
	return nil
}

// AttachInterrupt registers the completion handler.
func (s *Sim) AttachInterrupt(fn func()) {
	s.handler = fn
}

// ClearInterrupt acknowledges the pending interrupt request.
func (s *Sim) ClearInterrupt() {
	atomic.StoreInt32(&s.pending, 0)
}

// Enable starts accepting service requests.
func (s *Sim) Enable() error {
	if !s.programmed {
		return fmt.Errorf("dma channel not programmed")
	}
	s.enabled = true
	return nil
}

// Disable halts the channel. A running clock keeps ticking but no words
// move until the channel is enabled again.
func (s *Sim) Disable() error {
	s.enabled = false
	return nil
}

// SourceAddress reports the current read position as a word index into
// the source buffer.
func (s *Sim) SourceAddress() int {
	return int(atomic.LoadInt32(&s.saddr))
}

// MaskInterrupt blocks completion handler dispatch until
// UnmaskInterrupt is called.
func (s *Sim) MaskInterrupt() {
	s.mask.Lock()
}

// UnmaskInterrupt re-enables completion handler dispatch.
func (s *Sim) UnmaskInterrupt() {
	s.mask.Unlock()
}

// FlushWrites is a no-op: the simulated engine reads the source buffer
// directly, there is no cache between it and the writer.
func (s *Sim) FlushWrites(first, count int) {}

// MissedInterrupts returns how often a completion point was reached
// while the previous interrupt request was still pending, i.e. not yet
// acknowledged by the handler.
func (s *Sim) MissedInterrupts() uint64 {
	return atomic.LoadUint64(&s.missed)
}

// Step services the given number of DMA requests: for each request,
// MinorWords words are copied from the source buffer to the destination
// and the source address advances, wrapping at the end of the buffer.
// The attached handler is invoked synchronously whenever the major loop
// count crosses its half or full completion point.
//
// Step must not be called concurrently with itself or with a running
// clock.
func (s *Sim) Step(requests int) {
	if !s.enabled {
		return
	}
	for i := 0; i < requests; i++ {
		saddr := int(atomic.LoadInt32(&s.saddr))
		for w := 0; w < s.desc.MinorWords; w++ {
			s.desc.Dest.WriteWord(s.desc.Source[saddr])
			saddr++
			if saddr == len(s.desc.Source) {
				saddr = 0
			}
		}
		atomic.StoreInt32(&s.saddr, int32(saddr))

		s.loop++
		switch {
		case s.loop == s.desc.MajorLoops/2:
			if s.desc.InterruptHalf {
				s.raise()
			}
		case s.loop == s.desc.MajorLoops:
			s.loop = 0
			if s.desc.InterruptFull {
				s.raise()
			}
		}
	}
}

// raise sets the interrupt request flag and dispatches the handler.
func (s *Sim) raise() {
	if !atomic.CompareAndSwapInt32(&s.pending, 0, 1) {
		atomic.AddUint64(&s.missed, 1)
		return
	}
	if s.handler != nil {
		s.handler()
	}
}

// Start drives the channel in real time: every half revolution period,
// derived from the given sample rate, one half revolution worth of
// service requests is executed. The engine must be enabled first.
func (s *Sim) Start(samplerate float64) error {
	if !s.enabled {
		return fmt.Errorf("dma channel not enabled")
	}
	if s.clockDone != nil {
		return fmt.Errorf("dma clock already running")
	}
	if samplerate <= 0 {
		return fmt.Errorf("invalid samplerate %f", samplerate)
	}

	halfRequests := s.desc.MajorLoops / 2
	period := time.Duration(float64(halfRequests) / samplerate * float64(time.Second))

	s.clockDone = make(chan struct{})
	s.clockWg.Add(1)

	go func() {
		defer s.clockWg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Step(halfRequests)
			case <-s.clockDone:
				return
			}
		}
	}()

	return nil
}

// Stop halts the real time clock and waits for the service goroutine to
// exit.
func (s *Sim) Stop() {
	if s.clockDone == nil {
		return
	}
	close(s.clockDone)
	s.clockWg.Wait()
	s.clockDone = nil
}
