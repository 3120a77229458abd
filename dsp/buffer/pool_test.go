package buffer

import "testing"

func TestPoolGetReturnsZeroed(t *testing.T) {
	p := NewPool()
	b := p.Get(8)
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}
	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}
	p.Put(b)
}

func TestPoolReuseIsZeroed(t *testing.T) {
	p := NewPool()
	b := p.Get(4)
	b.Samples()[0] = 42
	b.Samples()[3] = 43
	p.Put(b)

	b2 := p.Get(6)
	if b2.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", b2.Len())
	}
	for i, v := range b2.Samples() {
		if v != 0 {
			t.Fatalf("reused Samples()[%d] = %v, want 0", i, v)
		}
	}
	p.Put(b2)
}

func TestPoolPutNilSafe(_ *testing.T) {
	NewPool().Put(nil)
}
