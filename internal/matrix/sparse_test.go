package matrix

import "testing"

func TestSparseSetGet(t *testing.T) {
	s := NewSparse(3, 3)
	s.Set(0, 1, 5)
	s.Set(0, 1, 6) // overwrite
	s.Set(2, 2, 9)
	if got := s.Get(0, 1); got != 6 {
		t.Fatalf("Get(0,1) = %d, want 6", got)
	}
	if got := s.Get(2, 2); got != 9 {
		t.Fatalf("Get(2,2) = %d, want 9", got)
	}
	if got := s.Get(1, 1); got != 0 {
		t.Fatalf("Get(1,1) = %d, want 0 (unset)", got)
	}
}

func TestSparseDensify(t *testing.T) {
	s := NewSparse(2, 4)
	s.Set(0, 0, 1)
	s.Set(0, 3, 2)
	s.Set(1, 1, 3)

	d := NewDense(1, 1)
	s.Densify(d)

	if d.Rows != 2 || d.Cols != 4 {
		t.Fatalf("Densify produced shape %dx%d, want 2x4", d.Rows, d.Cols)
	}
	want := [][]byte{{1, 0, 0, 2}, {0, 3, 0, 0}}
	for r := range want {
		for c := range want[r] {
			if d.At(r, c) != want[r][c] {
				t.Fatalf("Densify[%d][%d] = %d, want %d", r, c, d.At(r, c), want[r][c])
			}
		}
	}
}
