package nanorq

import (
	"fmt"

	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/params"
	"github.com/ppavstudio/nanorq-go/internal/precode"
)

// decoderCore holds one source block's accumulated receive state (§3
// "Decoder core"): received source rows land directly in symbolMat,
// received repair rows accumulate in repair until a decode is requested.
type decoderCore struct {
	sbn        uint8
	numSymbols int
	symbolSize int
	prm        params.Params
	symbolMat  *matrix.Dense
	repair     []precode.RepairSymbol
	mask       *matrix.Bitmask
}

// Decoder drives reconstruction for one transfer from a stream of
// (fid, bytes) fragments (§4.5), built from the Common and
// Scheme-specific OTI alone so a decoder never needs to see the original
// encoder.
type Decoder struct {
	f, t    uint64
	al      uint8
	scheme  scheme
	srcPart Partition
	subPart Partition
	logger  Logger

	cores map[uint8]*decoderCore
}

// NewDecoderFromOTI reconstructs a Decoder from the Common and
// Scheme-specific OTI a remote encoder produced (§6), mirroring
// nanorq_decoder_new. logger may be nil.
func NewDecoderFromOTI(common uint64, schemeBits uint32, logger Logger) (*Decoder, error) {
	if logger == nil {
		logger = NewLogger(LogLevelSilent, "")
	}
	f, t := unpackCommonOTI(common)
	if f > MaxTransferLength {
		return nil, fmt.Errorf("%w: transfer length %d exceeds %d", ErrConstructionRejected, f, MaxTransferLength)
	}
	z, n, al := unpackSchemeOTI(schemeBits)

	kt := ceilDivU64(f, uint64(t))
	if kt == 0 {
		kt = 1
	}
	if t == 0 || uint16(al) == 0 || t%uint16(al) != 0 {
		return nil, fmt.Errorf("%w: symbol size %d incompatible with alignment %d", ErrConstructionRejected, t, al)
	}
	if blockK := ceilDivU64(kt, uint64(z)); blockK > uint64(params.KMax) {
		return nil, fmt.Errorf("%w: per-block K' %d exceeds K_max %d", ErrConstructionRejected, blockK, params.KMax)
	}

	d := &Decoder{
		f: f, t: uint64(t), al: al,
		scheme: scheme{Z: z, N: n, Kt: kt},
		logger: logger,
		cores:  make(map[uint8]*decoderCore),
	}
	d.srcPart = fillPartition(kt, uint32(z))
	d.subPart = fillPartition(uint64(t)/uint64(al), uint32(n))
	logger.Infof("decoder ready: Z=%d N=%d Kt=%d", z, n, kt)
	return d, nil
}

// BlockSymbols returns the source-symbol count of block sbn.
func (d *Decoder) BlockSymbols(sbn uint8) uint16 {
	if uint32(sbn) < d.srcPart.JL {
		return uint16(d.srcPart.IL)
	}
	if uint32(sbn)-d.srcPart.JL < d.srcPart.JS {
		return uint16(d.srcPart.IS)
	}
	return 0
}

func (d *Decoder) blockDecoder(sbn uint8) (*decoderCore, error) {
	if core, ok := d.cores[sbn]; ok {
		return core, nil
	}
	numSymbols := int(d.BlockSymbols(sbn))
	symbolSize := int(d.t / uint64(d.al))
	if numSymbols == 0 || symbolSize == 0 {
		return nil, fmt.Errorf("%w: sbn %d", ErrUnknownBlock, sbn)
	}
	prm, err := params.Lookup(numSymbols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConstructionRejected, err)
	}
	core := &decoderCore{
		sbn: sbn, numSymbols: numSymbols, symbolSize: symbolSize, prm: prm,
		symbolMat: matrix.NewDense(numSymbols, symbolSize*int(d.al)),
		mask:      matrix.NewBitmask(1 << 20),
	}
	d.cores[sbn] = core
	return core, nil
}

// AddSymbol records one received fragment (§4.5). Unknown blocks return
// an error; an out-of-range ESI, a symbol received after its block is
// already complete, and a duplicate ESI are all silently accepted as
// no-ops, matching nanorq_decoder_add_symbol's idempotent acceptance.
func (d *Decoder) AddSymbol(fid uint32, data []byte) error {
	sbn, esi := SplitFID(fid)
	core, err := d.blockDecoder(sbn)
	if err != nil {
		return err
	}
	if esi >= 1<<20 {
		return nil
	}
	if core.mask.Gaps(core.numSymbols) == 0 {
		return nil
	}
	if core.mask.Check(int(esi)) {
		return nil
	}

	if int(esi) < core.numSymbols {
		copy(core.symbolMat.Row(int(esi)), data)
	} else {
		row := append([]byte(nil), data...)
		core.repair = append(core.repair, precode.RepairSymbol{ESI: esi, Row: row})
	}
	core.mask.Set(int(esi))
	return nil
}

// NumMissing returns the count of source ESIs not yet received for sbn.
func (d *Decoder) NumMissing(sbn uint8) int {
	core, err := d.blockDecoder(sbn)
	if err != nil {
		return 0
	}
	return core.mask.Gaps(core.numSymbols)
}

// NumRepair returns the count of repair symbols received so far for sbn.
func (d *Decoder) NumRepair(sbn uint8) int {
	core, err := d.blockDecoder(sbn)
	if err != nil {
		return 0
	}
	return len(core.repair)
}

func (d *Decoder) sourceBlockFor(sbn uint8, symbolSize int) sourceBlock {
	return newSourceBlock(d.srcPart, d.subPart, d.al, sbn, uint32(symbolSize))
}

// solve fills in every still-missing source row of core.symbolMat,
// mirroring precode_matrix_decode/precode_matrix_intermediate2: Phase 0
// replaces the constraint rows for gap positions and the overhead tail
// with received repair rows' LT patterns, the five-phase solver recovers
// C, and each gap is recomputed as the XOR of C over indices(gap) --
// gap itself, not gap+padding, since real source ESIs already live at
// ISI 0..num_symbols-1 and only repair ESIs need the padding shift (§9).
func (d *Decoder) solve(core *decoderCore) error {
	numSymbols := core.numSymbols
	numGaps := core.mask.Gaps(numSymbols)
	if numGaps == 0 {
		return nil
	}
	numRepair := len(core.repair)
	if numRepair < numGaps {
		return fmt.Errorf("%w: block %d has %d repair symbols for %d gaps", ErrInsufficientSymbols, core.sbn, numRepair, numGaps)
	}

	overhead := numRepair - numGaps
	prm := core.prm
	a := precode.BuildConstraintMatrix(prm, overhead)

	skip := prm.S + prm.H
	dm := matrix.NewDense(skip+prm.KPadded+overhead, core.symbolMat.Cols)
	for row := 0; row < numSymbols; row++ {
		copy(dm.Row(skip+row), core.symbolMat.Row(row))
	}

	repIdx := 0
	for gap := 0; gap < numSymbols && repIdx < numRepair; gap++ {
		if core.mask.Check(gap) {
			continue
		}
		copy(dm.Row(skip+gap), core.repair[repIdx].Row)
		repIdx++
	}
	for row := skip + prm.KPadded; repIdx < numRepair; row++ {
		copy(dm.Row(row), core.repair[repIdx].Row)
		repIdx++
	}

	precode.FillRepairRows(prm, a, core.mask, numSymbols, core.repair, overhead)

	c, err := precode.Solve(prm, a, dm)
	if err != nil {
		return fmt.Errorf("%w: block %d: %v", ErrSingular, core.sbn, err)
	}

	recovered := 0
	for gap := 0; gap < numSymbols && recovered < c.Rows; gap++ {
		if core.mask.Check(gap) {
			continue
		}
		symbol := precode.EncodeRow(prm, c, uint32(gap))
		copy(core.symbolMat.Row(gap), symbol)
		core.mask.Set(gap)
		recovered++
	}
	return nil
}

// DecodeBlock solves any remaining gaps in sbn and writes every source
// symbol back through io, truncating the final symbol to the transfer
// length F (§4.5).
func (d *Decoder) DecodeBlock(sbn uint8, io IOContext) (int, error) {
	core, err := d.blockDecoder(sbn)
	if err != nil {
		return 0, err
	}
	if err := d.solve(core); err != nil {
		return 0, err
	}

	written := 0
	blk := d.sourceBlockFor(sbn, core.symbolSize)
	for row := 0; row < core.numSymbols; row++ {
		col := 0
		for i := 0; i < core.symbolSize; {
			offset := symbolOffset(blk, uint64(i), uint32(core.numSymbols), uint32(row))
			sublen := int(sublenAt(blk, uint64(i)))
			stride := sublen * int(d.al)
			i += sublen

			if !io.Seek(offset) || offset >= d.f {
				col += stride
				continue
			}
			length := stride
			if offset+uint64(stride) >= d.f {
				length = int(d.f - offset)
			}
			written += io.Write(core.symbolMat.Row(row)[col : col+length])
			col += stride
		}
	}
	d.logger.Debugf("block %d: decoded and wrote %d bytes", sbn, written)
	return written, nil
}
