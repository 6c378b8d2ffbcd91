package audio

import "testing"

func TestBlockPoolAccounting(t *testing.T) {

	p := NewBlockPool(3)

	if p.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding blocks, got %d", p.Outstanding())
	}

	a := p.Get()
	b := p.Get()
	if a == nil || b == nil {
		t.Fatal("pool returned nil although blocks are available")
	}
	if p.Outstanding() != 2 {
		t.Fatalf("expected 2 outstanding blocks, got %d", p.Outstanding())
	}

	a.Release()
	b.Release()

	if p.Outstanding() != 0 {
		t.Fatalf("expected 0 outstanding blocks after release, got %d", p.Outstanding())
	}
}

func TestBlockPoolExhaustion(t *testing.T) {

	p := NewBlockPool(1)

	a := p.Get()
	if a == nil {
		t.Fatal("pool returned nil although a block is available")
	}

	if b := p.Get(); b != nil {
		t.Fatal("exhausted pool must return nil")
	}

	a.Release()

	if b := p.Get(); b == nil {
		t.Fatal("pool must hand out returned blocks again")
	}
}

func TestBlockRetainRelease(t *testing.T) {

	p := NewBlockPool(1)

	a := p.Get()
	a.Retain()

	a.Release()
	if p.Outstanding() != 1 {
		t.Fatal("block with remaining references must not return to the pool")
	}

	a.Release()
	if p.Outstanding() != 0 {
		t.Fatal("block must return to the pool on its final release")
	}
}

func TestBlockDoubleReleasePanics(t *testing.T) {

	p := NewBlockPool(2)
	a := p.Get()
	a.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("releasing a block twice must panic")
		}
	}()
	a.Release()
}

func TestSilenceIsImmortal(t *testing.T) {

	s := Silence()

	for _, sample := range s.Data {
		if sample != 0 {
			t.Fatal("silence block must be all zero")
		}
	}

	// must all be no-ops
	s.Retain()
	s.Release()
	s.Release()

	if Silence() != s {
		t.Fatal("silence must be a singleton")
	}
}
