package audio

import (
	"sync"
	"sync/atomic"
)

// BlockSamples is the fixed number of samples a Block holds: one
// channel's worth of audio for one transmit cycle.
const BlockSamples = 128

// Block is a reference counted buffer holding one channel's PCM samples
// for one transmit cycle. Blocks are passed between pipeline stages by
// reference; whoever consumes a block releases it back to the pool it
// came from. A block must be released exactly once per reference.
type Block struct {
	Data [BlockSamples]int16

	refs int32
	pool *BlockPool
}

// Retain adds a reference to the block.
func (b *Block) Retain() {
	if b.pool == nil {
		return
	}
	atomic.AddInt32(&b.refs, 1)
}

// Release drops a reference to the block. When the last reference is
// dropped, the block returns to its pool. Releasing the immortal silence
// block is a no-op.
func (b *Block) Release() {
	if b.pool == nil {
		return
	}
	refs := atomic.AddInt32(&b.refs, -1)
	if refs < 0 {
		panic("audio: block released twice")
	}
	if refs == 0 {
		b.pool.put(b)
	}
}

// BlockPool is a fixed capacity allocator for audio blocks. Like the
// hardware pools it models, Get fails (returns nil) when the pool is
// exhausted instead of growing.
type BlockPool struct {
	mu          sync.Mutex
	free        []*Block
	outstanding int
}

// NewBlockPool returns a pool holding capacity preallocated blocks.
func NewBlockPool(capacity int) *BlockPool {
	p := &BlockPool{
		free: make([]*Block, 0, capacity),
	}
	for i := 0; i < capacity; i++ {
		p.free = append(p.free, &Block{pool: p})
	}
	return p
}

// Get returns a block with a single reference, or nil if the pool is
// exhausted. The block's sample data is not cleared; the caller is
// expected to fill it completely.
func (p *BlockPool) Get() *Block {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.free) == 0 {
		return nil
	}
	b := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	p.outstanding++
	atomic.StoreInt32(&b.refs, 1)
	return b
}

// Outstanding returns the number of blocks currently checked out of the
// pool.
func (p *BlockPool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding
}

func (p *BlockPool) put(b *Block) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, b)
	p.outstanding--
}

// silence is the immortal all-zero block substituted whenever a channel
// has no real data at consumption time. It belongs to no pool and is
// never released.
var silence Block

// Silence returns the shared all-zero block. Retain and Release on it
// are no-ops, so it can be transmitted any number of times.
func Silence() *Block {
	return &silence
}
