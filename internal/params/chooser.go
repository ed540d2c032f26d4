package params

import "github.com/ppavstudio/nanorq-go/internal/matrix"

// Chooser tracks, per physical row position, whether that row originated
// from the HDPC band -- the one piece of row identity that must survive
// row swaps during Phase 1, since HDPC rows are deprioritized for pivot
// selection regardless of how many times they've moved (§4.3, §4.6).
type Chooser struct {
	hdpc []bool
}

// NewChooser builds a chooser for a matrix with the given row count. isHDPC
// reports, for each original row, whether it belongs to the HDPC band.
func NewChooser(rows int, isHDPC func(row int) bool) *Chooser {
	c := &Chooser{hdpc: make([]bool, rows)}
	for r := 0; r < rows; r++ {
		c.hdpc[r] = isHDPC(r)
	}
	return c
}

// Swap mirrors a physical row swap so HDPC identity tracks the data.
func (c *Chooser) Swap(a, b int) {
	c.hdpc[a], c.hdpc[b] = c.hdpc[b], c.hdpc[a]
}

// SelectPivotRow implements §4.3 step 1 / §4.6: scan the active
// sub-matrix A[i:i+subRows, i:i+subCols], build a graph from non-HDPC
// degree-2 rows, and pick a pivot. It returns the row offset (relative to
// i) to swap into position i, that row's degree within the active window
// (the "non_zero" count driving column compaction), and whether the
// active region is singular (no row has any non-zero left).
func SelectPivotRow(a *matrix.Dense, chooser *Chooser, i, subRows, subCols int) (rowOffset, nonZero int, singular bool) {
	g := NewGraph(subCols)
	degrees := make([]int, subRows)
	pairCols := make([][2]int, subRows)

	for r := 0; r < subRows; r++ {
		row := i + r
		d := 0
		var c0, c1 int
		for c := 0; c < subCols; c++ {
			if a.At(row, i+c) != 0 {
				d++
				if d == 1 {
					c0 = c
				} else if d == 2 {
					c1 = c
				}
			}
		}
		degrees[r] = d
		if d == 2 {
			pairCols[r] = [2]int{c0, c1}
			if !chooser.hdpc[row] {
				g.Union(c0, c1)
			}
		}
	}

	minDegree := subCols + 1
	for _, d := range degrees {
		if d > 0 && d < minDegree {
			minDegree = d
		}
	}
	if minDegree > subCols {
		return 0, subCols + 1, true
	}

	best := -1
	bestIsHDPC := true
	bestComponent := -1
	for r := 0; r < subRows; r++ {
		if degrees[r] != minDegree {
			continue
		}
		row := i + r
		isHDPC := chooser.hdpc[row]

		if best == -1 {
			best, bestIsHDPC = r, isHDPC
			if minDegree == 2 && !isHDPC {
				bestComponent = g.ComponentSize(pairCols[r][0])
			}
			continue
		}
		if bestIsHDPC && !isHDPC {
			best, bestIsHDPC = r, isHDPC
			if minDegree == 2 {
				bestComponent = g.ComponentSize(pairCols[r][0])
			} else {
				bestComponent = -1
			}
			continue
		}
		if !bestIsHDPC && isHDPC {
			continue // HDPC rows never outrank an already-found non-HDPC candidate
		}
		if minDegree == 2 && !isHDPC {
			if comp := g.ComponentSize(pairCols[r][0]); comp > bestComponent {
				best, bestComponent = r, comp
			}
		}
	}
	return best, minDegree, false
}
