package precode_test

import (
	"testing"

	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/params"
	"github.com/ppavstudio/nanorq-go/internal/precode"
)

func pattern(r, c, seed int) byte {
	return byte((r*7 + c*13 + seed) % 251)
}

func TestSolveReproducesD(t *testing.T) {
	for _, k := range []int{10, 27, 101} {
		prm, err := params.Lookup(k)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", k, err)
		}

		a := precode.BuildConstraintMatrix(prm, 0)
		aOrig := a.Copy()

		const cols = 5
		d := matrix.NewDense(prm.L, cols)
		for r := 0; r < prm.L; r++ {
			for c := 0; c < cols; c++ {
				d.Set(r, c, pattern(r, c, 1))
			}
		}
		dOrig := d.Copy()

		c, err := precode.Solve(prm, a, d)
		if err != nil {
			t.Fatalf("K=%d: Solve failed: %v", k, err)
		}
		if c.Rows != prm.L {
			t.Fatalf("K=%d: C has %d rows, want %d", k, c.Rows, prm.L)
		}

		check := matrix.NewDense(prm.L, cols)
		matrix.GEMM(check, aOrig, c)
		for r := 0; r < prm.L; r++ {
			got, want := check.Row(r), dOrig.Row(r)
			for col := range want {
				if got[col] != want[col] {
					t.Fatalf("K=%d: row %d col %d: got %#x want %#x", k, r, col, got[col], want[col])
				}
			}
		}
	}
}

func TestSolveWithOverheadReproducesD(t *testing.T) {
	prm, err := params.Lookup(15)
	if err != nil {
		t.Fatal(err)
	}
	const overhead = 3
	a := precode.BuildConstraintMatrix(prm, overhead)
	aOrig := a.Copy()

	// BuildConstraintMatrix leaves A's overhead rows all-zero -- only
	// FillRepairRows populates them at decode time -- so D's overhead rows
	// must be zero too, or the system is inconsistent rather than singular.
	const cols = 4
	d := matrix.NewDense(prm.L+overhead, cols)
	for r := 0; r < prm.L; r++ {
		for c := 0; c < cols; c++ {
			d.Set(r, c, pattern(r, c, 9))
		}
	}
	dOrig := d.Copy()

	c, err := precode.Solve(prm, a, d)
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}

	check := matrix.NewDense(d.Rows, cols)
	matrix.GEMM(check, aOrig, c)
	for r := 0; r < d.Rows; r++ {
		got, want := check.Row(r), dOrig.Row(r)
		for col := range want {
			if got[col] != want[col] {
				t.Fatalf("row %d col %d: got %#x want %#x", r, col, got[col], want[col])
			}
		}
	}
}

func TestFillRepairRowsOverwritesGapsAndTail(t *testing.T) {
	prm, err := params.Lookup(12)
	if err != nil {
		t.Fatal(err)
	}
	const overhead = 2
	numSymbols := 10 // < prm.KPadded in general, exercising the gap path
	a := precode.BuildConstraintMatrix(prm, overhead)

	mask := matrix.NewBitmask(1 << 20)
	for i := 0; i < numSymbols; i++ {
		if i != 3 {
			mask.Set(i)
		}
	}

	repair := []precode.RepairSymbol{
		{ESI: uint32(numSymbols)},
		{ESI: uint32(numSymbols) + 1},
		{ESI: uint32(numSymbols) + 2},
	}

	precode.FillRepairRows(prm, a, mask, numSymbols, repair, overhead)

	gapRow := 3 + prm.S + prm.H
	nonZero := false
	for c := 0; c < a.Cols; c++ {
		if a.At(gapRow, c) != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatalf("gap row %d is all-zero after FillRepairRows", gapRow)
	}

	for row := a.Rows - overhead; row < a.Rows; row++ {
		nz := false
		for c := 0; c < a.Cols; c++ {
			if a.At(row, c) != 0 {
				nz = true
				break
			}
		}
		if !nz {
			t.Fatalf("overhead row %d is all-zero after FillRepairRows", row)
		}
	}
}
