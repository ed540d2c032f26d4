// Package oct implements GF(256) octet arithmetic: the exponent/logarithm
// tables used by the precode engine and the row-level primitives (AXPY,
// SCAL) that the dense matrix layer builds on.
package oct

import "github.com/klauspost/cpuid/v2"

// polynomial is the irreducible polynomial used to build the field,
// x^8 + x^4 + x^3 + x^2 + 1 (0x11d), the one RaptorQ is specified against.
const polynomial = 0x11d

// ExpSize is the size of the exponent table; log values range over
// [0, 254] and the table is doubled so that (log a + log b) never
// needs a second reduction.
const ExpSize = 255 * 2

var (
	expTable [ExpSize]byte
	logTable [256]byte
)

func init() {
	x := 1
	for i := 0; i < 255; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= polynomial
		}
	}
	for i := 255; i < ExpSize; i++ {
		expTable[i] = expTable[i-255]
	}
}

// Exp returns OCT_EXP[i mod 255], matching the C `OCT_EXP[x % OCT_EXP_SIZE]`
// idiom used throughout precode.c.
func Exp(i int) byte {
	return expTable[i%255]
}

// Mul multiplies two field elements via the log/exp tables.
func Mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// Div divides a by b; b must be non-zero.
func Div(a, b byte) byte {
	if a == 0 {
		return 0
	}
	la := int(logTable[a])
	lb := int(logTable[b])
	diff := la - lb
	if diff < 0 {
		diff += 255
	}
	return expTable[diff]
}

// rowStride is the unit the AXPY/SCAL loops unroll by. Wider CPUs with a
// larger cache line and 64-bit vector-friendly ALUs get an 8-wide unroll;
// everything else falls back to a conservative 4-wide one. This mirrors
// the capability-probe-then-dispatch shape klauspost/reedsolomon's leopard
// codec uses cpuid for, without requiring hand-written SIMD.
var rowStride = func() int {
	if cpuid.CPU.CacheLine >= 64 && cpuid.CPU.X64Level() >= 2 {
		return 8
	}
	return 4
}()

// RowStride reports the unroll width chosen for this process at startup.
func RowStride() int { return rowStride }

// AXPY computes dst ^= mul*src over a row of length n: dst[k] ^= mul*src[k].
// This is the GF(256) analogue of BLAS axpy (y += a*x), with GF addition
// being XOR.
func AXPY(dst, src []byte, mul byte, n int) {
	if mul == 0 {
		return
	}
	if mul == 1 {
		k := 0
		for ; k+rowStride <= n; k += rowStride {
			for j := 0; j < rowStride; j++ {
				dst[k+j] ^= src[k+j]
			}
		}
		for ; k < n; k++ {
			dst[k] ^= src[k]
		}
		return
	}
	lm := int(logTable[mul])
	k := 0
	for ; k+rowStride <= n; k += rowStride {
		for j := 0; j < rowStride; j++ {
			s := src[k+j]
			if s != 0 {
				dst[k+j] ^= expTable[int(logTable[s])+lm]
			}
		}
	}
	for ; k < n; k++ {
		s := src[k]
		if s != 0 {
			dst[k] ^= expTable[int(logTable[s])+lm]
		}
	}
}

// SCAL scales a row in place: row[k] *= c.
func SCAL(row []byte, c byte, n int) {
	if c == 1 {
		return
	}
	if c == 0 {
		for k := 0; k < n; k++ {
			row[k] = 0
		}
		return
	}
	lc := int(logTable[c])
	for k := 0; k < n; k++ {
		v := row[k]
		if v != 0 {
			row[k] = expTable[int(logTable[v])+lc]
		}
	}
}
