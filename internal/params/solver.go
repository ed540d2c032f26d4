package params

import (
	"errors"

	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/oct"
)

// ErrSingular is returned when Phase 1 can't find a non-zero row, or
// Phase 2 can't find a pivot: the received set is insufficient in rank
// even if sufficient in count (§7).
var ErrSingular = errors.New("precode: constraint matrix is singular")

// Solve runs the five-phase solver (§4.3) against A (M x L) and D
// (M x cols), producing the intermediate symbols C (L x cols) such that
// A*C = D over GF(256).
func Solve(prm Params, a, d *matrix.Dense) (*matrix.Dense, error) {
	if prm.L == 0 || a == nil || a.Rows == 0 || a.Cols == 0 {
		return nil, ErrSingular
	}

	x := a.Copy()
	c := make([]int, prm.L)
	for l := range c {
		c[l] = l
	}

	i, u, ok := phase1(prm, a, x, d, c)
	if !ok {
		return nil, ErrSingular
	}
	if !phase2(a, d, i, u, prm.L) {
		return nil, ErrSingular
	}
	phase3(a, x, d, i)
	phase4(a, d, i, u)
	phase5(a, d, i)

	out := matrix.NewDense(prm.L, d.Cols)
	for l := 0; l < prm.L; l++ {
		copy(out.Row(c[l]), d.Row(l))
	}
	return out, nil
}

// phase1 performs the structured upper-triangulation (§4.3 Phase 1).
func phase1(prm Params, a, x, d *matrix.Dense, c []int) (i, u int, ok bool) {
	u = prm.P
	chooser := NewChooser(a.Rows, func(row int) bool {
		return row >= prm.S && row < prm.S+prm.H
	})

	for i+u < prm.L {
		subRows := a.Rows - i
		subCols := a.Cols - i - u

		rowOffset, nonZero, singular := SelectPivotRow(a, chooser, i, subRows, subCols)
		if singular {
			return 0, 0, false
		}
		if rowOffset != 0 {
			a.SwapRow(i, rowOffset+i)
			x.SwapRow(i, rowOffset+i)
			d.SwapRow(i, rowOffset+i)
			chooser.Swap(i, rowOffset+i)
		}

		if a.At(i, i) == 0 {
			idx := 1
			for ; idx < subCols; idx++ {
				if a.At(i, idx+i) != 0 {
					break
				}
			}
			a.SwapCol(i, i+idx)
			x.SwapCol(i, i+idx)
			c[i], c[i+idx] = c[i+idx], c[i]
		}

		// Compact the chosen row's remaining non-zeros to the right of
		// the active column span, claiming non_zero-1 columns for u.
		col := subCols - 1
		swap := 1
		for ; col > subCols-nonZero; col-- {
			if a.At(i, col+i) != 0 {
				continue
			}
			for swap < col && a.At(i, swap+i) == 0 {
				swap++
			}
			if swap >= col {
				break
			}
			a.SwapCol(col+i, swap+i)
			x.SwapCol(col+i, swap+i)
			c[col+i], c[swap+i] = c[swap+i], c[col+i]
		}

		for row := 1; row < subRows; row++ {
			if a.At(row+i, i) == 0 {
				continue
			}
			mnum, mden := a.At(row+i, i), a.At(i, i)
			var multiple byte
			if mnum != 0 && mden != 0 {
				multiple = oct.Div(mnum, mden)
			}
			if multiple == 0 {
				continue
			}
			a.AXPY(row+i, i, multiple)
			d.AXPY(row+i, i, multiple)
		}

		i++
		u += nonZero - 1
	}
	return i, u, true
}

// phase2 performs the dense Gaussian elimination with partial pivoting
// over the U-strip (§4.3 Phase 2).
func phase2(a, d *matrix.Dense, i, u, l int) bool {
	rowStart, rowEnd := i, a.Rows
	colStart := a.Cols - u

	for row := rowStart; row < rowEnd; row++ {
		diag := colStart + (row - rowStart)
		if diag >= l {
			break
		}

		rowNonzero := row
		for ; rowNonzero < rowEnd; rowNonzero++ {
			if a.At(rowNonzero, diag) != 0 {
				break
			}
		}
		if rowNonzero == rowEnd {
			return false
		}
		if row != rowNonzero {
			a.SwapRow(row, rowNonzero)
			d.SwapRow(row, rowNonzero)
		}

		if v := a.At(row, diag); v != 1 {
			inv := oct.Div(1, v)
			a.SCAL(row, inv)
			d.SCAL(row, inv)
		}

		for delRow := rowStart; delRow < rowEnd; delRow++ {
			if delRow == row {
				continue
			}
			multiple := a.At(delRow, diag)
			if multiple == 0 {
				continue
			}
			a.AXPY(delRow, row, multiple)
			d.AXPY(delRow, row, multiple)
		}
	}
	return true
}

// phase3 replays the row operations captured in X against a fresh copy of
// A and D (§4.3 Phase 3).
func phase3(a, x, d *matrix.Dense, i int) {
	if i == 0 {
		return
	}
	xb := matrix.NewDense(i, i)
	for r := 0; r < i; r++ {
		for col := 0; col < i; col++ {
			xb.Set(r, col, x.At(r, col))
		}
	}
	ab := a.Copy()
	db := d.Copy()
	matrix.GEMM(a, xb, ab)
	matrix.GEMM(d, xb, db)
}

// phase4 performs the upper-right back-substitution into D (§4.3 Phase 4).
func phase4(a, d *matrix.Dense, i, u int) {
	skip := a.Cols - u
	for row := 0; row < i; row++ {
		for col := 0; col < u; col++ {
			multiple := a.At(row, col+skip)
			if multiple == 0 {
				continue
			}
			d.AXPY(row, i+col, multiple)
		}
	}
}

// phase5 reduces the upper-left block to identity: it scales D only, so
// A's diagonal is left un-normalized, and back-substitutes both A and D.
// A is not read again after this phase (§9).
func phase5(a, d *matrix.Dense, i int) {
	for j := 0; j <= i; j++ {
		if v := a.At(j, j); v != 1 {
			d.SCAL(j, oct.Div(1, v))
		}
		for l := 0; l < j; l++ {
			multiple := a.At(j, l)
			if multiple == 0 {
				continue
			}
			a.AXPY(j, l, multiple)
			d.AXPY(j, l, multiple)
		}
	}
}
