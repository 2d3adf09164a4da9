package dataset

import (
	"errors"
	"testing"
)

func TestPartitionInvariant(t *testing.T) {
	p := NewLabeledPool(100, 1)

	if p.LabeledSize() != 0 || p.PoolSize() != 100 {
		t.Fatalf("fresh pool: labeled=%d pool=%d", p.LabeledSize(), p.PoolSize())
	}

	picked, err := p.LabelRandomly(30)
	if err != nil {
		t.Fatalf("LabelRandomly: %v", err)
	}
	if len(picked) != 30 {
		t.Fatalf("expected 30 picked, got %d", len(picked))
	}
	if p.LabeledSize() != 30 || p.PoolSize() != 70 {
		t.Fatalf("after labeling: labeled=%d pool=%d", p.LabeledSize(), p.PoolSize())
	}
	if p.LabeledSize()+p.PoolSize() != p.Size() {
		t.Fatal("label set and pool do not partition the universe")
	}

	// Label set and pool are disjoint
	for _, i := range p.PoolIndices() {
		if p.IsLabeled(i) {
			t.Fatalf("index %d in both pool and label set", i)
		}
	}
	for _, i := range picked {
		if !p.IsLabeled(i) {
			t.Fatalf("picked index %d not labeled", i)
		}
	}
}

func TestLabelRandomlyInsufficientPool(t *testing.T) {
	p := NewLabeledPool(10, 1)
	if _, err := p.LabelRandomly(7); err != nil {
		t.Fatalf("LabelRandomly: %v", err)
	}

	_, err := p.LabelRandomly(5)
	var insufficient *InsufficientPoolError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientPoolError, got %v", err)
	}
	if insufficient.Requested != 5 || insufficient.PoolSize != 3 {
		t.Fatalf("error fields: %+v", insufficient)
	}

	// State unchanged after the failed call
	if p.LabeledSize() != 7 || p.PoolSize() != 3 {
		t.Fatalf("state changed on failure: labeled=%d pool=%d", p.LabeledSize(), p.PoolSize())
	}
}

func TestLabelExplicit(t *testing.T) {
	p := NewLabeledPool(10, 1)
	if err := p.Label([]int{2, 5, 9}); err != nil {
		t.Fatalf("Label: %v", err)
	}
	if p.LabeledSize() != 3 {
		t.Fatalf("expected 3 labeled, got %d", p.LabeledSize())
	}
	for _, i := range []int{2, 5, 9} {
		if !p.IsLabeled(i) {
			t.Fatalf("index %d not labeled", i)
		}
	}
}

func TestLabelInvalidIndex(t *testing.T) {
	cases := []struct {
		name    string
		indices []int
	}{
		{"out of range high", []int{3, 10}},
		{"negative", []int{-1}},
		{"already labeled", []int{0, 3}},
		{"duplicate in call", []int{4, 4}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewLabeledPool(10, 1)
			if err := p.Label([]int{0}); err != nil {
				t.Fatalf("setup label: %v", err)
			}

			err := p.Label(tc.indices)
			var invalid *InvalidIndexError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidIndexError, got %v", err)
			}
			// All-or-nothing: valid members of the batch stayed unlabeled
			if p.LabeledSize() != 1 {
				t.Fatalf("partial labeling happened: labeled=%d", p.LabeledSize())
			}
		})
	}
}

func TestLabelRandomlySeedDeterminism(t *testing.T) {
	a := NewLabeledPool(50, 7)
	b := NewLabeledPool(50, 7)

	pa, err := a.LabelRandomly(10)
	if err != nil {
		t.Fatalf("LabelRandomly: %v", err)
	}
	pb, err := b.LabelRandomly(10)
	if err != nil {
		t.Fatalf("LabelRandomly: %v", err)
	}

	if len(pa) != len(pb) {
		t.Fatalf("draw sizes differ: %d vs %d", len(pa), len(pb))
	}
	for i := range pa {
		if pa[i] != pb[i] {
			t.Fatalf("same seed drew different indices: %v vs %v", pa, pb)
		}
	}
}

func TestViewsAscending(t *testing.T) {
	p := NewLabeledPool(20, 3)
	if _, err := p.LabelRandomly(8); err != nil {
		t.Fatalf("LabelRandomly: %v", err)
	}

	for name, view := range map[string][]int{
		"pool":    p.PoolIndices(),
		"labeled": p.LabeledIndices(),
	} {
		for i := 1; i < len(view); i++ {
			if view[i] <= view[i-1] {
				t.Fatalf("%s view not strictly ascending: %v", name, view)
			}
		}
	}
}
