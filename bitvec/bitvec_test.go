package bitvec

import "testing"

func TestBitVector_Basic(t *testing.T) {
	b := New(100)

	if !b.IsEmpty() {
		t.Error("new vector should be empty")
	}
	if b.Get(5) {
		t.Error("empty vector should not contain 5")
	}

	b.Set(5)
	if !b.Get(5) {
		t.Error("vector should contain 5 after Set")
	}
	if b.Count() != 1 {
		t.Errorf("count should be 1, got %d", b.Count())
	}

	b.Set(10)
	b.Set(3)
	b.Set(70)
	if b.Count() != 4 {
		t.Errorf("count should be 4, got %d", b.Count())
	}

	b.Unset(10)
	if b.Get(10) {
		t.Error("10 should be gone after Unset")
	}
	if b.Count() != 3 {
		t.Errorf("count should be 3 after unset, got %d", b.Count())
	}

	b.Clear()
	if !b.IsEmpty() {
		t.Error("vector should be empty after Clear")
	}
}

func TestBitVector_Iteration(t *testing.T) {
	b := New(200)
	want := []int{0, 1, 63, 64, 65, 127, 128, 199}
	for _, i := range want {
		b.Set(i)
	}

	var got []int
	b.Each(func(i int) { got = append(got, i) })

	if len(got) != len(want) {
		t.Fatalf("got %d bits, want %d: %v", len(got), len(want), got)
	}
	for i, v := range want {
		if got[i] != v {
			t.Errorf("position %d: got %d, want %d", i, got[i], v)
		}
	}
}

func TestBitVector_FirstAndNextSet(t *testing.T) {
	b := New(200)

	if _, ok := b.FirstSet(); ok {
		t.Error("empty vector should have no first set bit")
	}

	b.Set(64)
	b.Set(65)
	b.Set(130)

	first, ok := b.FirstSet()
	if !ok || first != 64 {
		t.Fatalf("FirstSet() = %d, %v; want 64, true", first, ok)
	}

	next, ok := b.NextSet(64)
	if !ok || next != 65 {
		t.Fatalf("NextSet(64) = %d, %v; want 65, true", next, ok)
	}

	next, ok = b.NextSet(65)
	if !ok || next != 130 {
		t.Fatalf("NextSet(65) = %d, %v; want 130, true", next, ok)
	}

	if _, ok := b.NextSet(130); ok {
		t.Error("NextSet(130) should report no further bits")
	}

	// Exercise the word-boundary edge case (bit 63 is the last bit of word 0).
	b2 := New(128)
	b2.Set(63)
	b2.Set(64)
	next, ok = b2.NextSet(63)
	if !ok || next != 64 {
		t.Fatalf("NextSet(63) across word boundary = %d, %v; want 64, true", next, ok)
	}
}

func TestBitVector_SetOps(t *testing.T) {
	a := New(128)
	b := New(128)
	a.Set(1)
	a.Set(2)
	b.Set(2)
	b.Set(3)

	union := a.Clone()
	union.UnionWith(b)
	for _, i := range []int{1, 2, 3} {
		if !union.Get(i) {
			t.Errorf("union missing bit %d", i)
		}
	}

	inter := a.Clone()
	inter.IntersectWith(b)
	if inter.Count() != 1 || !inter.Get(2) {
		t.Errorf("intersection should contain only bit 2, got count=%d", inter.Count())
	}

	diff := a.Clone()
	diff.DifferenceWith(b)
	if diff.Count() != 1 || !diff.Get(1) {
		t.Errorf("difference should contain only bit 1, got count=%d", diff.Count())
	}
}

func TestBitVector_Swap(t *testing.T) {
	a := New(64)
	b := New(64)
	a.Set(1)
	b.Set(2)

	a.Swap(b)

	if !a.Get(2) || a.Get(1) {
		t.Error("a should now hold b's bits")
	}
	if !b.Get(1) || b.Get(2) {
		t.Error("b should now hold a's original bits")
	}
}

func TestThreadSet_SwapCurrentNext(t *testing.T) {
	ts := NewThreadSet(64)
	ts.Current.Set(1)
	ts.Next.Set(2)

	ts.SwapCurrentNext()

	if !ts.Current.Get(2) {
		t.Error("Current should hold the old Next contents")
	}
	if !ts.Next.IsEmpty() {
		t.Error("Next should be cleared after swap")
	}
}
