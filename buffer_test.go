package meshsimplify

import "testing"

func TestGrowBufferPushGrows(t *testing.T) {
	b := newGrowBuffer[int](0)
	for i := 0; i < 20; i++ {
		if got := b.Push(i); got != i {
			t.Fatalf("Push returned index %d, want %d", got, i)
		}
	}
	if b.Len() != 20 {
		t.Fatalf("expected length 20, got %d", b.Len())
	}
	for i := 0; i < 20; i++ {
		if *b.At(i) != i {
			t.Fatalf("At(%d) = %d, want %d", i, *b.At(i), i)
		}
	}
}

func TestGrowBufferResizeShrinkThenGrow(t *testing.T) {
	b := newGrowBuffer[int](10)
	for i := 0; i < 10; i++ {
		*b.At(i) = i
	}
	b.Resize(3)
	if b.Len() != 3 {
		t.Fatalf("expected length 3 after shrink, got %d", b.Len())
	}
	b.Resize(5)
	if b.Len() != 5 {
		t.Fatalf("expected length 5 after regrow, got %d", b.Len())
	}
	// The first 3 elements must have survived the shrink/regrow round trip.
	for i := 0; i < 3; i++ {
		if *b.At(i) != i {
			t.Fatalf("At(%d) = %d after resize round-trip, want %d", i, *b.At(i), i)
		}
	}
}

func TestGrowBufferTrim(t *testing.T) {
	b := newGrowBuffer[int](0)
	for i := 0; i < 9; i++ {
		b.Push(i)
	}
	b.Trim()
	if cap(b.data) != b.Len() {
		t.Fatalf("expected capacity trimmed to length %d, got cap %d", b.Len(), cap(b.data))
	}
}
