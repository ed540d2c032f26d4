package nanorq

import "errors"

// Sentinel errors returned by the encoder/decoder drivers (§7). Callers
// should use errors.Is against these; wrapped detail is added with %w.
var (
	// ErrConstructionRejected means the OTI or partition constraints were
	// violated -- the caller passed parameters that can never produce a
	// valid block layout.
	ErrConstructionRejected = errors.New("nanorq: construction parameters rejected")

	// ErrInsufficientSymbols means decode was invoked with fewer repair
	// symbols than gaps; the caller must supply more before retrying.
	ErrInsufficientSymbols = errors.New("nanorq: repair symbols received so far are insufficient to cover the gaps")

	// ErrSingular means Phase 1 found no non-zero row, or Phase 2 found no
	// pivot: the received set is insufficient in rank even though it was
	// sufficient in count. The caller should request more symbols.
	ErrSingular = errors.New("nanorq: received symbol set is rank-deficient")

	// ErrUnknownBlock means a decode or encode operation referenced an sbn
	// that the partition layout doesn't allocate any symbols to.
	ErrUnknownBlock = errors.New("nanorq: source block number has no symbols")
)
