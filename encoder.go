package nanorq

import (
	"fmt"

	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/params"
	"github.com/ppavstudio/nanorq-go/internal/precode"
)

// encoderCore holds one source block's lazily-built precode state
// (§3 "Encoder core"). symbolMat is nil until the first repair-symbol
// request forces it to be built.
type encoderCore struct {
	sbn        uint8
	numSymbols int
	symbolSize int // T/Al, in alignment units
	prm        params.Params
	symbolMat  *matrix.Dense
}

// Encoder drives repair-capable symbol generation for one transfer,
// split across Z source blocks (§4.4). A single Encoder must not be used
// from two goroutines at once (§5); distinct blocks of the same Encoder
// may be driven from different goroutines only if the caller serializes
// access to the shared core map itself -- the reference driver does not.
type Encoder struct {
	f, t    uint64 // F, T as stored for OTI packing
	al      uint8
	scheme  scheme
	srcPart Partition
	subPart Partition
	logger  Logger

	cores map[uint8]*encoderCore
}

// NewEncoder validates cfg and derives the block partition (§6). logger
// may be nil, in which case a silent logger is used.
func NewEncoder(cfg Config, logger Logger) (*Encoder, error) {
	if logger == nil {
		logger = NewLogger(LogLevelSilent, "")
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	sch, err := genSchemeSpecific(cfg)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		f:      cfg.TransferLength,
		t:      uint64(cfg.SymbolSize),
		al:     cfg.Alignment,
		scheme: sch,
		logger: logger,
		cores:  make(map[uint8]*encoderCore),
	}
	e.srcPart = fillPartition(sch.Kt, uint32(sch.Z))
	e.subPart = fillPartition(uint64(cfg.SymbolSize/uint16(cfg.Alignment)), uint32(sch.N))
	logger.Infof("encoder ready: Z=%d N=%d Kt=%d", sch.Z, sch.N, sch.Kt)
	return e, nil
}

// CommonOTI packs F and T into the 64-bit Common OTI (§6).
func (e *Encoder) CommonOTI() uint64 { return packCommonOTI(e.f, uint16(e.t)) }

// SchemeSpecificOTI packs Z, N and Al into the 32-bit Scheme-specific
// OTI (§6).
func (e *Encoder) SchemeSpecificOTI() uint32 {
	return packSchemeOTI(e.scheme.Z, e.scheme.N, e.al)
}

// Blocks returns the number of source blocks in this transfer.
func (e *Encoder) Blocks() uint8 { return uint8(e.srcPart.JL + e.srcPart.JS) }

// BlockSymbols returns the source-symbol count of block sbn, or 0 if sbn
// is out of range.
func (e *Encoder) BlockSymbols(sbn uint8) uint16 {
	if uint32(sbn) < e.srcPart.JL {
		return uint16(e.srcPart.IL)
	}
	if uint32(sbn)-e.srcPart.JL < e.srcPart.JS {
		return uint16(e.srcPart.IS)
	}
	return 0
}

// MaxRepair returns the largest repair ESI offset block sbn can still
// address (the 20-bit ESI space minus the symbols already used for
// source data).
func (e *Encoder) MaxRepair(sbn uint8) uint32 {
	return uint32(1<<20) - uint32(e.BlockSymbols(sbn))
}

func (e *Encoder) blockEncoder(sbn uint8) (*encoderCore, error) {
	if core, ok := e.cores[sbn]; ok {
		return core, nil
	}
	numSymbols := int(e.BlockSymbols(sbn))
	symbolSize := int(e.t / uint64(e.al))
	if numSymbols == 0 || symbolSize == 0 {
		return nil, fmt.Errorf("%w: sbn %d", ErrUnknownBlock, sbn)
	}
	prm, err := params.Lookup(numSymbols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConstructionRejected, err)
	}
	core := &encoderCore{sbn: sbn, numSymbols: numSymbols, symbolSize: symbolSize, prm: prm}
	e.cores[sbn] = core
	return core, nil
}

func (e *Encoder) sourceBlockFor(sbn uint8, symbolSize int) sourceBlock {
	return newSourceBlock(e.srcPart, e.subPart, e.al, sbn, uint32(symbolSize))
}

// readSymbolUnits reads symbol_id's bytes (symbolSize alignment units,
// each al bytes) from io into dst, zero-filling any short read.
func readSymbolUnits(io IOContext, blk sourceBlock, symbolSize, k int, symbolID uint32, al uint8, dst []byte) {
	col := 0
	for i := 0; i < symbolSize; {
		offset := symbolOffset(blk, uint64(i), uint32(k), symbolID)
		sublen := int(sublenAt(blk, uint64(i)))
		i += sublen
		stride := sublen * int(al)

		got := 0
		if io.Seek(offset) {
			got = io.Read(dst[col : col+stride])
		}
		for b := got; b < stride; b++ {
			dst[col+b] = 0
		}
		col += stride
	}
}

// GenerateSymbols builds block sbn's intermediate-symbol matrix C by
// reading every source symbol from io and running §4.2/§4.3 with zero
// overhead rows (§4.4). It's a no-op if C is already built; callers don't
// need to call it directly -- Encode calls it lazily on first repair
// request.
func (e *Encoder) GenerateSymbols(sbn uint8, io IOContext) error {
	core, err := e.blockEncoder(sbn)
	if err != nil {
		return err
	}
	if core.symbolMat != nil {
		return nil
	}

	prm := core.prm
	a := precode.BuildConstraintMatrix(prm, 0)
	d := matrix.NewDense(prm.S+prm.H+prm.KPadded, core.symbolSize*int(e.al))

	blk := e.sourceBlockFor(sbn, core.symbolSize)
	for row := prm.S + prm.H; row < prm.S+prm.H+core.numSymbols; row++ {
		symbolID := uint32(row - prm.S - prm.H)
		readSymbolUnits(io, blk, core.symbolSize, core.numSymbols, symbolID, e.al, d.Row(row))
	}

	c, err := precode.Solve(prm, a, d)
	if err != nil {
		return fmt.Errorf("%w: block %d: %v", ErrSingular, sbn, err)
	}
	core.symbolMat = c
	e.logger.Debugf("block %d: generated intermediate symbols (L=%d)", sbn, prm.L)
	return nil
}

// Encode produces the symbol_size*Al bytes for (sbn, esi) (§4.4). Source
// ESIs are read straight from io; repair ESIs trigger GenerateSymbols on
// first use and are then synthesized as an XOR of intermediate rows.
func (e *Encoder) Encode(sbn uint8, esi uint32, io IOContext) ([]byte, error) {
	core, err := e.blockEncoder(sbn)
	if err != nil {
		return nil, err
	}

	byteLen := core.symbolSize * int(e.al)
	if int(esi) < core.numSymbols {
		out := make([]byte, byteLen)
		blk := e.sourceBlockFor(sbn, core.symbolSize)
		readSymbolUnits(io, blk, core.symbolSize, core.numSymbols, esi, e.al, out)
		return out, nil
	}

	if core.symbolMat == nil {
		if err := e.GenerateSymbols(sbn, io); err != nil {
			return nil, err
		}
	}
	isi := esi + uint32(core.prm.KPadded-core.numSymbols)
	return precode.EncodeRow(core.prm, core.symbolMat, isi), nil
}
