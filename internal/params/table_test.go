package params

import "testing"

func TestLookupRoundsUp(t *testing.T) {
	prm, err := Lookup(10)
	if err != nil {
		t.Fatalf("Lookup(10): %v", err)
	}
	if prm.KPadded < 10 {
		t.Fatalf("KPadded %d < requested K 10", prm.KPadded)
	}

	prm2, err := Lookup(prm.KPadded + 1)
	if err != nil {
		t.Fatalf("Lookup(%d): %v", prm.KPadded+1, err)
	}
	if prm2.KPadded <= prm.KPadded {
		t.Fatalf("Lookup should round up to a strictly larger tabulated K' when K exceeds the previous one")
	}
}

func TestLookupInvariants(t *testing.T) {
	for _, k := range []int{1, 10, 100, 1000, 10000, KMax} {
		prm, err := Lookup(k)
		if err != nil {
			t.Fatalf("Lookup(%d): %v", k, err)
		}
		if prm.B != prm.W-prm.S {
			t.Fatalf("K=%d: B=%d, want W-S=%d", k, prm.B, prm.W-prm.S)
		}
		if prm.P != prm.L-prm.W {
			t.Fatalf("K=%d: P=%d, want L-W=%d", k, prm.P, prm.L-prm.W)
		}
		if prm.L != prm.KPadded+prm.S+prm.H {
			t.Fatalf("K=%d: L=%d, want K'+S+H=%d", k, prm.L, prm.KPadded+prm.S+prm.H)
		}
		if prm.KPadded < k {
			t.Fatalf("K=%d: KPadded=%d is less than K", k, prm.KPadded)
		}
	}
}

func TestLookupRejectsOutOfRange(t *testing.T) {
	if _, err := Lookup(0); err == nil {
		t.Fatalf("Lookup(0) should be rejected")
	}
	if _, err := Lookup(KMax + 1); err == nil {
		t.Fatalf("Lookup(KMax+1) should be rejected")
	}
}
