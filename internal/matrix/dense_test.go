package matrix

import "testing"

func TestDenseSetAtResize(t *testing.T) {
	d := NewDense(3, 5)
	if d.Rows != 3 || d.Cols != 5 {
		t.Fatalf("unexpected shape %dx%d", d.Rows, d.Cols)
	}
	d.Set(1, 2, 7)
	if d.At(1, 2) != 7 {
		t.Fatalf("At(1,2) = %d, want 7", d.At(1, 2))
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 5; c++ {
			if r == 1 && c == 2 {
				continue
			}
			if d.At(r, c) != 0 {
				t.Fatalf("expected zeroed matrix elsewhere, got %d at (%d,%d)", d.At(r, c), r, c)
			}
		}
	}
}

func TestDenseSwapRowCol(t *testing.T) {
	d := NewDense(2, 2)
	d.Set(0, 0, 1)
	d.Set(0, 1, 2)
	d.Set(1, 0, 3)
	d.Set(1, 1, 4)
	d.SwapRow(0, 1)
	if d.At(0, 0) != 3 || d.At(1, 0) != 1 {
		t.Fatalf("SwapRow did not exchange rows: %v", d)
	}
	d.SwapCol(0, 1)
	if d.At(0, 0) != 4 || d.At(0, 1) != 3 {
		t.Fatalf("SwapCol did not exchange cols: %v", d)
	}
}

func TestDenseCopyIsIndependent(t *testing.T) {
	d := NewDense(2, 2)
	d.Set(0, 0, 9)
	c := d.Copy()
	c.Set(0, 0, 1)
	if d.At(0, 0) != 9 {
		t.Fatalf("Copy shares storage with original")
	}
}

func TestDenseGEMM(t *testing.T) {
	a := NewDense(2, 2)
	a.Set(0, 0, 1)
	a.Set(0, 1, 1)
	a.Set(1, 0, 0)
	a.Set(1, 1, 1)

	b := NewDense(2, 1)
	b.Set(0, 0, 5)
	b.Set(1, 0, 3)

	out := NewDense(2, 1)
	GEMM(out, a, b)
	if out.At(0, 0) != 5^3 {
		t.Fatalf("GEMM row0 = %d, want %d", out.At(0, 0), 5^3)
	}
	if out.At(1, 0) != 3 {
		t.Fatalf("GEMM row1 = %d, want 3", out.At(1, 0))
	}
}

func TestDenseAddRowIsXOR(t *testing.T) {
	dst := NewDense(1, 3)
	dst.Set(0, 0, 1)
	dst.Set(0, 1, 2)
	dst.Set(0, 2, 3)
	src := NewDense(1, 3)
	src.Set(0, 0, 1)
	src.Set(0, 1, 1)
	src.Set(0, 2, 1)
	dst.AddRow(0, src, 0)
	want := []byte{0, 3, 2}
	for i, w := range want {
		if dst.At(0, i) != w {
			t.Fatalf("AddRow[%d] = %d, want %d", i, dst.At(0, i), w)
		}
	}
}
