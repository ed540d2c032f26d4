package params

import "github.com/google/btree"

// Tuple holds the (d, a, b, d1, a1, b1) values used to generate the
// intermediate-to-encoded row for a given ISI, per spec.md §4.1.
type Tuple struct {
	D, A, B    int
	D1, A1, B1 int
}

// degreeBreakpoints is the cumulative RaptorQ LT degree distribution,
// scaled to a 2^20 random draw: Deg(v) is the smallest index d such that
// v < degreeBreakpoints[d-1].
var degreeBreakpoints = [...]uint32{
	5243, 529531, 704294, 791675, 844104, 879057, 904023, 922747, 937311,
	948962, 958494, 966438, 973160, 978921, 983914, 988283, 992126, 995520,
	998522, 1048576,
}

// deg maps a random draw in [0, 2^20) to an LT degree in [1, W].
func deg(v uint32, w int) int {
	for i, bp := range degreeBreakpoints {
		if v < bp {
			d := i + 1
			if d > w {
				return w
			}
			return d
		}
	}
	if w < len(degreeBreakpoints)+1 {
		return w
	}
	return len(degreeBreakpoints) + 1
}

// MakeTuple computes the (d,a,b,d1,a1,b1) tuple for isi over a block with
// the given params, following the RaptorQ Tuple[K',X] construction
// (SPEC_FULL.md §4.1): a 32-bit mix of K' and the ISI seeds the `y` used
// to pull d/a/b from the rnd table, and — once P > 0 — a second PI
// sub-pattern of degree d1 over P.
func MakeTuple(prm Params, isi uint32) Tuple {
	a := uint32(53591 + prm.KPadded*997)
	if a%2 == 0 {
		a++
	}
	b := uint32(10267 * (prm.KPadded + 1))
	y := b + isi*a

	d := deg(Rand(y, 0, 1<<20), prm.W)
	aa := coprimeStep(1+int(Rand(y, 1, uint32(prm.W-1))), prm.W)
	bb := int(Rand(y, 2, uint32(prm.W)))

	t := Tuple{D: d, A: aa, B: bb}
	if prm.P > 0 {
		d1 := 2
		if d < 4 {
			d1 = 1
		}
		a1 := 1
		if prm.P > 1 {
			a1 = coprimeStep(1+int(Rand(y, 3, uint32(prm.P-1))), prm.P)
		}
		b1 := int(Rand(y, 4, uint32(prm.P)))
		t.D1, t.A1, t.B1 = d1, a1, b1
	}
	return t
}

// coprimeStep nudges a candidate step value up until it's coprime with m,
// wrapping back into [1, m). A walk of up to m steps with a step coprime to
// its modulus visits m distinct residues before repeating, so this is what
// keeps a degree-d LT/PI walk (d <= m by construction) from revisiting a
// column before exhausting its degree.
func coprimeStep(a, m int) int {
	if m <= 1 {
		return a
	}
	for gcdInt(a, m) != 1 {
		a++
		if a >= m {
			a = 1
		}
	}
	return a
}

func gcdInt(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Indices computes the sorted LT-PI column pattern for isi (§4.1): a
// degree-d walk over [0,W) starting at b with step a, plus — when the
// tuple carries a PI sub-pattern — a degree-d1 walk over [W, W+P)
// starting at W+b1 with step a1. coprimeStep keeps each walk's step
// coprime with its modulus, so a walk of its own degree never revisits a
// column; the two walks land in disjoint ranges, so the only reason to
// accumulate into a set rather than a plain slice is to get the result
// sorted for free.
func Indices(prm Params, isi uint32) []int {
	t := MakeTuple(prm, isi)

	set := btree.NewG(32, func(a, b int) bool { return a < b })

	b := t.B % prm.W
	for j := 0; j < t.D; j++ {
		set.ReplaceOrInsert(b)
		b = (b + t.A) % prm.W
	}

	if prm.P > 0 && t.D1 > 0 {
		b1 := t.B1 % prm.P
		for j := 0; j < t.D1; j++ {
			set.ReplaceOrInsert(prm.W + b1)
			b1 = (b1 + t.A1) % prm.P
		}
	}

	out := make([]int, 0, set.Len())
	set.Ascend(func(item int) bool {
		out = append(out, item)
		return true
	})
	return out
}
