package handle

import "testing"

func TestAllocIsSequential(t *testing.T) {
	var p Pool
	a := p.Alloc()
	b := p.Alloc()

	if a.Index() != 0 || b.Index() != 1 {
		t.Errorf("expected sequential indices 0,1, got %d,%d", a.Index(), b.Index())
	}
	if a.Generation() != 1 || b.Generation() != 1 {
		t.Errorf("expected generation 1 for fresh handles, got %d,%d", a.Generation(), b.Generation())
	}
	if !p.IsValid(a) || !p.IsValid(b) {
		t.Error("freshly allocated handles should be valid")
	}
}

func TestFreeBumpsGeneration(t *testing.T) {
	var p Pool
	a := p.Alloc()

	if !p.Free(a) {
		t.Fatal("expected Free to succeed on a live handle")
	}
	if p.IsValid(a) {
		t.Error("handle should be invalid after Free")
	}

	b := p.Alloc()
	if b.Index() != a.Index() {
		t.Errorf("expected reused index %d, got %d", a.Index(), b.Index())
	}
	if b.Generation() != a.Generation()+1 {
		t.Errorf("expected generation %d, got %d", a.Generation()+1, b.Generation())
	}
	if p.IsValid(a) {
		t.Error("stale handle must stay invalid after slot reuse")
	}
	if !p.IsValid(b) {
		t.Error("reused handle should be valid")
	}
}

func TestFreeStaleHandleFails(t *testing.T) {
	var p Pool
	a := p.Alloc()
	p.Free(a)

	if p.Free(a) {
		t.Error("freeing an already-stale handle should fail")
	}
}

func TestZeroHandleIsAlwaysInvalid(t *testing.T) {
	var p Pool
	p.Alloc()

	var zero Handle
	if !zero.IsNil() {
		t.Error("zero value should report IsNil")
	}
	if p.IsValid(zero) {
		t.Error("zero handle must never be valid")
	}
}

func TestCapAndLen(t *testing.T) {
	var p Pool
	a := p.Alloc()
	p.Alloc()
	p.Free(a)

	if p.Cap() != 2 {
		t.Errorf("expected cap 2, got %d", p.Cap())
	}
	if p.Len() != 1 {
		t.Errorf("expected len 1 live handle, got %d", p.Len())
	}
}
