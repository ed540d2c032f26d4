package precode

import (
	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/params"
)

// RepairSymbol pairs a received repair symbol's ESI with its decoded row
// bytes, in arrival order.
type RepairSymbol struct {
	ESI uint32
	Row []byte
}

// FillRepairRows overwrites A's source-gap rows and its overhead tail with
// the LT/PI row pattern belonging to the repair symbols actually received
// (§4.5). It's the decode-time counterpart to addGENC: where addGENC fills
// G_ENC from the padded source ISIs, this fills from whatever repair ESIs
// arrived, consuming them in the same order they're recorded in repair.
//
// The original loops gap up to L, but num_gaps is seeded from a scan over
// [0, numSymbols) and only decrements on unmasked positions, so it always
// exhausts before gap reaches numSymbols; bounding the loop at numSymbols
// here avoids reading past the mask's tracked range for the same effect.
func FillRepairRows(prm params.Params, a *matrix.Dense, mask *matrix.Bitmask, numSymbols int, repair []RepairSymbol, overhead int) {
	padding := prm.KPadded - numSymbols
	numGaps := mask.Gaps(numSymbols)
	repIdx := 0

	for gap := 0; gap < numSymbols && numGaps > 0; gap++ {
		if mask.Check(gap) {
			continue
		}
		row := gap + prm.S + prm.H
		zeroRow(a, row)
		isi := repair[repIdx].ESI + uint32(padding)
		repIdx++
		for _, col := range params.Indices(prm, isi) {
			a.Set(row, col, 1)
		}
		numGaps--
	}

	for repRow := a.Rows - overhead; repRow < a.Rows; repRow++ {
		zeroRow(a, repRow)
		isi := repair[repIdx].ESI + uint32(padding)
		repIdx++
		for _, col := range params.Indices(prm, isi) {
			a.Set(repRow, col, 1)
		}
	}
}

func zeroRow(a *matrix.Dense, row int) {
	r := a.Row(row)
	for i := range r {
		r[i] = 0
	}
}
