package surface

import "testing"

func TestNullID(t *testing.T) {
	if !Null.IsNull() {
		t.Fatal("Null.IsNull() = false")
	}
	a := NewAllocator(3)
	for i := 0; i < 100; i++ {
		id := a.NewID()
		if id.IsNull() {
			t.Fatalf("allocator produced the null id")
		}
		if id == Null {
			t.Fatalf("allocated id %v equals Null", id)
		}
	}
}

func TestAllocatorUnique(t *testing.T) {
	a := NewAllocator(1)
	seen := make(map[ID]bool)
	for i := 0; i < 64; i++ {
		id := a.NewID()
		if seen[id] {
			t.Fatalf("duplicate id %v", id)
		}
		seen[id] = true
		if id.Namespace != 1 {
			t.Errorf("Namespace = %d, want 1", id.Namespace)
		}
	}
}

func TestDeterministicAllocator(t *testing.T) {
	a := NewDeterministicAllocator(2)
	b := NewDeterministicAllocator(2)
	if a.NewID() != b.NewID() {
		t.Error("deterministic allocators diverged")
	}
	id := a.NewID()
	if id.Nonce != 0 || id.Local != 2 {
		t.Errorf("NewID() = %+v, want Local 2 and no nonce", id)
	}
	if s := a.NewSequence(); s != (Sequence{Namespace: 2, Value: 1}) {
		t.Errorf("NewSequence() = %+v", s)
	}
}

func TestIDEqualityIsStructural(t *testing.T) {
	x := ID{Namespace: 1, Local: 2, Nonce: 3}
	y := ID{Namespace: 1, Local: 2, Nonce: 3}
	z := ID{Namespace: 1, Local: 2, Nonce: 4}
	if x != y {
		t.Error("equal fields should compare equal")
	}
	if x == z {
		t.Error("different nonce should not compare equal")
	}
}
