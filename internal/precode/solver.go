package precode

import "github.com/ppavstudio/nanorq-go/internal/params"

// ErrSingular and Solve now live in package params alongside
// BuildConstraintMatrix (§4.3): buildTable uses the same five-phase
// solver to validate a candidate K' against its own zero-overhead
// matrix, and params can't import precode without a cycle. These
// re-exports keep the decoder/encoder call sites unchanged.
var (
	ErrSingular = params.ErrSingular
	Solve       = params.Solve
)
