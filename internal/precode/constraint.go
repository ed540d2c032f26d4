package precode

import "github.com/ppavstudio/nanorq-go/internal/params"

// BuildConstraintMatrix assembles the constraint matrix A for a block
// (§4.2). The band-assembly logic lives in package params now, so
// buildTable can self-validate a candidate K' against its own
// zero-overhead matrix without precode importing params in a cycle; this
// re-export keeps the solver-facing call sites unchanged.
var BuildConstraintMatrix = params.BuildConstraintMatrix
