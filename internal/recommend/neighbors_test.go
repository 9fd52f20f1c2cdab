// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"errors"
	"testing"
)

func fitNeighbors(t *testing.T, docs []string) *NeighborIndex {
	t.Helper()
	vs, err := Fit(context.Background(), docs)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return FitNeighbors(vs)
}

func rowsOf(neighbors []Neighbor) []int {
	rows := make([]int, len(neighbors))
	for i, n := range neighbors {
		rows[i] = n.Row
	}
	return rows
}

func TestNeighborIndex_Query(t *testing.T) {
	t.Parallel()

	ni := fitNeighbors(t, Normalize(scenarioBooks()))

	got, err := ni.Query(0, 11)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want min(11, 3) = 3", len(got))
	}
	if got[0].Row != 0 || got[0].Distance != 0 {
		t.Errorf("first result = %+v, want the query row at distance 0", got[0])
	}
	if got[1].Row != 1 || got[2].Row != 2 {
		t.Errorf("order = %v, want [0 1 2]", rowsOf(got))
	}
	if got[1].Distance <= 0 || got[1].Distance >= got[2].Distance {
		t.Errorf("distances not increasing: %+v", got)
	}
	if got[2].Distance != 1 {
		t.Errorf("unrelated row distance = %v, want 1", got[2].Distance)
	}

	two, _ := ni.Query(2, 2)
	if len(two) != 2 || two[0].Row != 2 {
		t.Errorf("Query(2, 2) = %+v", two)
	}

	none, err := ni.Query(0, 0)
	if err != nil || len(none) != 0 {
		t.Errorf("Query(0, 0) = %+v, %v", none, err)
	}
}

func TestNeighborIndex_QueryOutOfRange(t *testing.T) {
	t.Parallel()

	ni := fitNeighbors(t, Normalize(scenarioBooks()))
	for _, row := range []int{-1, 3, 100} {
		_, err := ni.Query(row, 5)
		if !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("Query(%d) error = %v, want ErrInvariantViolation", row, err)
		}
		var ie *InvariantError
		if !errors.As(err, &ie) || ie.Row != row || ie.Rows != 3 {
			t.Errorf("Query(%d) error detail = %+v", row, ie)
		}
	}
}

func TestNeighborIndex_DuplicateDocuments(t *testing.T) {
	t.Parallel()

	// row 1 is identical to row 0 but the query row still comes first
	ni := fitNeighbors(t, []string{"java tools", "java tools", "knitting"})

	got, err := ni.Query(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if rows := rowsOf(got); rows[0] != 1 || rows[1] != 0 || rows[2] != 2 {
		t.Errorf("order = %v, want [1 0 2]", rows)
	}
	if got[1].Distance > 1e-12 {
		t.Errorf("duplicate distance = %v, want ~0", got[1].Distance)
	}
}

func TestNeighborIndex_ZeroVectorAndTies(t *testing.T) {
	t.Parallel()

	ni := fitNeighbors(t, []string{"", "alpha", "beta", "gamma"})

	got, err := ni.Query(0, 4)
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []int{0, 1, 2, 3} {
		if got[i].Row != want {
			t.Fatalf("order = %v, want rows by index on equal distance", rowsOf(got))
		}
	}
	for _, n := range got[1:] {
		if n.Distance != 1 {
			t.Errorf("distance from zero vector = %v, want 1", n.Distance)
		}
	}
}

func TestNeighborIndex_QueryVector(t *testing.T) {
	t.Parallel()

	vs, err := Fit(context.Background(), Normalize(scenarioBooks()))
	if err != nil {
		t.Fatal(err)
	}
	ni := FitNeighbors(vs)

	got := ni.QueryVector(vs.Transform("learn food"), 2)
	if len(got) != 2 || got[0].Row != 2 {
		t.Errorf("QueryVector = %+v, want cooking row first", got)
	}
	if all := ni.QueryVector(vs.Transform("advanced java"), 10); len(all) != 3 || all[0].Row != 1 {
		t.Errorf("QueryVector(advanced java) = %+v", all)
	}
	if got := ni.QueryVector(SparseVector{}, 0); len(got) != 0 {
		t.Errorf("QueryVector k=0 = %+v", got)
	}
}

func TestCosineDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		dot, want float64
	}{
		{dot: 1, want: 0},
		{dot: 1.0000000000000002, want: 0},
		{dot: 0, want: 1},
		{dot: -1, want: 2},
		{dot: -1.5, want: 2},
	}
	for _, tt := range tests {
		if got := cosineDistance(tt.dot); got != tt.want {
			t.Errorf("cosineDistance(%v) = %v, want %v", tt.dot, got, tt.want)
		}
	}
}
