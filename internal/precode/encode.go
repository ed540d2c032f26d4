package precode

import (
	"github.com/ppavstudio/nanorq-go/internal/matrix"
	"github.com/ppavstudio/nanorq-go/internal/oct"
	"github.com/ppavstudio/nanorq-go/internal/params"
)

// EncodeRow computes the encoded-symbol row for isi from the intermediate
// matrix c: the XOR of C[k] over k in indices(isi) (§4.4).
func EncodeRow(prm params.Params, c *matrix.Dense, isi uint32) []byte {
	out := make([]byte, c.Cols)
	for _, k := range params.Indices(prm, isi) {
		oct.AXPY(out, c.Row(k), 1, c.Cols)
	}
	return out
}
