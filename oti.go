package nanorq

import (
	"fmt"

	"github.com/ppavstudio/nanorq-go/internal/params"
)

// MaxTransferLength is the largest F representable in Common OTI's
// 40-bit transfer-length field (§6).
const MaxTransferLength = (uint64(1) << 40) - 1

// Config is the construction-time object transmission information a
// caller supplies to build an Encoder (§6): F (transfer length), T
// (symbol size), SS (sub-symbol size), Al (alignment), and WS (the
// decoder's max working sub-block size, which bounds how finely T gets
// split into sub-blocks).
type Config struct {
	TransferLength  uint64
	SymbolSize      uint16
	SubSymbolSize   uint16
	Alignment       uint8
	MaxSubBlockSize uint64
}

func validateConfig(cfg Config) error {
	if cfg.Alignment == 0 || cfg.Alignment > 8 {
		return fmt.Errorf("%w: alignment %d outside [1,8]", ErrConstructionRejected, cfg.Alignment)
	}
	al := uint16(cfg.Alignment)
	if cfg.SymbolSize == 0 || cfg.SymbolSize < al || cfg.SymbolSize%al != 0 {
		return fmt.Errorf("%w: symbol size %d incompatible with alignment %d", ErrConstructionRejected, cfg.SymbolSize, cfg.Alignment)
	}
	if cfg.SubSymbolSize < al || cfg.SubSymbolSize%al != 0 || cfg.SubSymbolSize > cfg.SymbolSize {
		return fmt.Errorf("%w: sub-symbol size %d incompatible with symbol size %d", ErrConstructionRejected, cfg.SubSymbolSize, cfg.SymbolSize)
	}
	if cfg.TransferLength > MaxTransferLength {
		return fmt.Errorf("%w: transfer length %d exceeds %d", ErrConstructionRejected, cfg.TransferLength, MaxTransferLength)
	}
	return nil
}

// scheme is the decoded/derived scheme-specific state shared by the
// encoder and decoder drivers: Z source blocks, N sub-blocks per block,
// and Kt, the total symbol count across the whole transfer.
type scheme struct {
	Z  int
	N  int
	Kt uint64
}

// genSchemeSpecific derives (Z, N) from Config, mirroring
// gen_scheme_specific: it searches, for each candidate sub-block count n,
// the largest tabulated K' that keeps a decoder's working set within WS,
// then picks the smallest Z that keeps every block's K' within that
// bound, and the smallest N sufficient for the resulting per-block K'.
func genSchemeSpecific(cfg Config) (scheme, error) {
	nMax := int(cfg.SymbolSize / cfg.SubSymbolSize)
	if nMax == 0 {
		return scheme{}, fmt.Errorf("%w: symbol size %d smaller than sub-symbol size %d", ErrConstructionRejected, cfg.SymbolSize, cfg.SubSymbolSize)
	}
	kt := ceilDivU64(cfg.TransferLength, uint64(cfg.SymbolSize))
	if kt == 0 {
		kt = 1
	}

	kl := make([]int, nMax)
	for n := 1; n <= nMax; n++ {
		denom := uint64(cfg.Alignment) * ceilDivU64(uint64(cfg.SymbolSize), uint64(cfg.Alignment)*uint64(n))
		klMax := params.KMax
		if denom > 0 {
			bound := cfg.MaxSubBlockSize / denom
			if bound < uint64(params.KMax) {
				klMax = int(bound)
			}
		}
		p, _ := params.LargestAtMost(klMax)
		kl[n-1] = p.KPadded
	}

	zTmp := int(ceilDivU64(kt, uint64(kl[nMax-1])))
	if zTmp > 256 {
		return scheme{}, fmt.Errorf("%w: transfer requires %d source blocks, more than 256", ErrConstructionRejected, zTmp)
	}
	if zTmp == 0 {
		zTmp = 1
	}

	tmp := int(ceilDivU64(kt, uint64(zTmp)))
	n := nMax
	for idx, k := range kl {
		if tmp <= k {
			n = idx + 1
			break
		}
	}
	return scheme{Z: zTmp, N: n, Kt: kt}, nil
}

func packCommonOTI(f uint64, t uint16) uint64 {
	return f<<24 | uint64(t)
}

func unpackCommonOTI(v uint64) (f uint64, t uint16) {
	return v >> 24, uint16(v & 0xffff)
}

func packSchemeOTI(z, n int, al uint8) uint32 {
	return uint32(z%256)<<24 | uint32(n%65536)<<8 | uint32(al)
}

func unpackSchemeOTI(v uint32) (z, n int, al uint8) {
	z = int(v>>24) & 0xff
	n = int(v>>8) & 0xffff
	al = uint8(v)
	if z == 0 {
		z = 256
	}
	if n == 0 {
		n = 65536
	}
	return z, n, al
}

// FID packs a fragment identifier from a source block number and an ESI
// (§6): sbn in the high 8 bits, esi truncated to 24 bits in the low bits.
func FID(sbn uint8, esi uint32) uint32 {
	return uint32(sbn)<<24 | (esi & 0x00ffffff)
}

// SplitFID inverts FID.
func SplitFID(fid uint32) (sbn uint8, esi uint32) {
	return uint8(fid >> 24), fid & 0x00ffffff
}
