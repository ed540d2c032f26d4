package params

import (
	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/oct"
)

// BuildConstraintMatrix assembles the sparse constraint matrix A
// (shape (L+overhead) x L, §4.2) for the block described by prm and
// densifies it. Rows [L, L+overhead) are left zero here: the decode path
// fills them (and overwrites any source-gap row) with repair-symbol row
// patterns in Phase 0, per §4.5/decode_phase0 in original_source. It lives
// in this package (not precode, which only solves) so buildTable can
// validate a candidate K' against its own zero-overhead matrix without an
// import cycle.
func BuildConstraintMatrix(prm Params, overhead int) *matrix.Dense {
	rows := prm.L + overhead
	sp := matrix.NewSparse(rows, prm.L)

	initLDPC1(sp, prm.S, prm.B)
	addIdentity(sp, prm.S, 0, prm.B)
	initLDPC2(sp, prm.W, prm.S, prm.P)
	initHDPC(sp, prm)
	addIdentity(sp, prm.H, prm.S, prm.L-prm.H)
	addGENC(sp, prm)

	dense := matrix.NewDense(rows, prm.L)
	sp.Densify(dense)
	return dense
}

// initLDPC1 fills rows [0,S) x cols [0,B) of the first LDPC band (§4.2.1).
func initLDPC1(sp *matrix.Sparse, s, b int) {
	for row := 0; row < s; row++ {
		for col := 0; col < b; col++ {
			submtx := col / s
			if row == col%s || row == (col+submtx+1)%s || row == (col+2*(submtx+1))%s {
				sp.Set(row, col, 1)
			}
		}
	}
}

// initLDPC2 fills rows [0,rows) x cols [skip, skip+cols) of the second
// LDPC band (§4.2.3): each row sets two adjacent (mod cols) columns.
func initLDPC2(sp *matrix.Sparse, skip, rows, cols int) {
	for row := 0; row < rows; row++ {
		start := row % cols
		sp.Set(row, skip+start, 1)
		sp.Set(row, skip+(start+1)%cols, 1)
	}
}

// addIdentity places a size x size identity block at (skipRow, skipCol).
func addIdentity(sp *matrix.Sparse, size, skipRow, skipCol int) {
	for diag := 0; diag < size; diag++ {
		sp.Set(skipRow+diag, skipCol+diag, 1)
	}
}

// makeMT builds the H x (K'+S) MT factor of the HDPC band (§4.2.4): two
// rnd-table-selected bits per column plus an OCT_EXP value in the last
// column.
func makeMT(rows, cols int) *matrix.Sparse {
	mt := matrix.NewSparse(rows, cols)
	for col := 0; col < cols-1; col++ {
		tmp := Rand(uint32(col+1), 6, uint32(rows))
		other := (tmp + Rand(uint32(col+1), 7, uint32(rows-1)) + 1) % uint32(rows)
		for row := 0; row < rows; row++ {
			if uint32(row) == tmp || uint32(row) == other {
				mt.Set(row, col, 1)
			}
		}
	}
	for row := 0; row < rows; row++ {
		mt.Set(row, cols-1, oct.Exp(row))
	}
	return mt
}

// makeGamma builds the dim x dim lower-triangular Gamma factor of the
// HDPC band (§4.2.4).
func makeGamma(dim int) *matrix.Sparse {
	gamma := matrix.NewSparse(dim, dim)
	for row := 0; row < dim; row++ {
		for col := 0; col <= row; col++ {
			gamma.Set(row, col, oct.Exp(row-col))
		}
	}
	return gamma
}

// initHDPC fills rows [S, S+H) with MT*Gamma (§4.2.4).
func initHDPC(sp *matrix.Sparse, prm Params) {
	m, n := prm.H, prm.KPadded+prm.S
	if m == 0 || n == 0 {
		return
	}

	mtDense := matrix.NewDense(m, n)
	makeMT(m, n).Densify(mtDense)

	gammaDense := matrix.NewDense(n, n)
	makeGamma(n).Densify(gammaDense)

	product := matrix.NewDense(m, n)
	matrix.GEMM(product, mtDense, gammaDense)

	for row := 0; row < m; row++ {
		for col := 0; col < n; col++ {
			if v := product.At(row, col); v != 0 {
				sp.Set(prm.S+row, col, v)
			}
		}
	}
}

// addGENC fills rows [S+H, L) with the LT/PI pattern for each padded
// source position (§4.2.6).
func addGENC(sp *matrix.Sparse, prm Params) {
	for row := prm.S + prm.H; row < prm.L; row++ {
		isi := uint32(row - prm.S - prm.H)
		for _, col := range Indices(prm, isi) {
			sp.Set(row, col, 1)
		}
	}
}
