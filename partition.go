package nanorq

// Partition holds the (IL, IS, JL, JS) split of Partition[I,J] (§6):
// JL blocks of length IL, followed by JS blocks of length IS.
type Partition struct {
	IL, IS uint32
	JL, JS uint32
}

// fillPartition computes Partition[i,j]; j == 0 yields the zero Partition.
func fillPartition(i uint64, j uint32) Partition {
	if j == 0 {
		return Partition{}
	}
	il := uint32(ceilDivU64(i, uint64(j)))
	is := uint32(i / uint64(j))
	jl := uint32(i - uint64(is)*uint64(j))
	js := j - jl
	if jl == 0 {
		il = 0
	}
	return Partition{IL: il, IS: is, JL: jl, JS: js}
}

func ceilDivU64(a, b uint64) uint64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// sourceBlock is a source block's byte layout within the payload (§6,
// get_source_block): its starting offset in Al-byte units (symbolOffset
// multiplies by al to get bytes), the sub-block partition shared by every
// block, and the width of the long-sub-block region in T/Al units.
type sourceBlock struct {
	byteOffset uint64
	partTotal  uint64
	part       Partition
	al         uint8
}

// newSourceBlock locates block sbn within the payload given the top-level
// source partition (over source blocks) and the shared sub-block
// partition (over T/Al positions within one symbol).
func newSourceBlock(srcPart, subPart Partition, al uint8, sbn uint8, symbolSize uint32) sourceBlock {
	blk := sourceBlock{
		part:      subPart,
		al:        al,
		partTotal: uint64(subPart.IL) * uint64(subPart.JL),
	}
	switch {
	case uint32(sbn) < srcPart.JL:
		blk.byteOffset = uint64(sbn) * uint64(srcPart.IL) * uint64(symbolSize)
	case uint32(sbn)-srcPart.JL < srcPart.JS:
		blk.byteOffset = uint64(srcPart.IL)*uint64(srcPart.JL)*uint64(symbolSize) +
			uint64(uint32(sbn)-srcPart.JL)*uint64(srcPart.IS)*uint64(symbolSize)
	}
	return blk
}

// symbolOffset computes the byte offset of position pos (in T/Al units)
// within the symbol identified by symbolID, for a block of k symbols
// (§6). The long sub-block region is covered first, then the short one.
func symbolOffset(blk sourceBlock, pos uint64, k uint32, symbolID uint32) uint64 {
	var idx uint64
	if pos < blk.partTotal {
		subBlkID := pos / uint64(blk.part.IL)
		idx = blk.byteOffset + subBlkID*uint64(k)*uint64(blk.part.IL) +
			uint64(symbolID)*uint64(blk.part.IL) + pos%uint64(blk.part.IL)
	} else {
		pos2 := pos - blk.partTotal
		subBlkID := pos2 / uint64(blk.part.IS)
		idx = blk.byteOffset + blk.partTotal*uint64(k) + subBlkID*uint64(k)*uint64(blk.part.IS) +
			uint64(symbolID)*uint64(blk.part.IS) + pos2%uint64(blk.part.IS)
	}
	return idx * uint64(blk.al)
}

// sublenAt returns the sub-block length (in T/Al units) covering pos.
func sublenAt(blk sourceBlock, pos uint64) uint32 {
	if pos < blk.partTotal {
		return blk.part.IL
	}
	return blk.part.IS
}
