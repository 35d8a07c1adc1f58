package mathx

import "testing"

func TestFloorDivAndMod(t *testing.T) {
	cases := []struct {
		a, b    int
		div, md int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
		{33, 16, 2, 1},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.div {
			t.Fatalf("FloorDiv(%d,%d)=%d want %d", c.a, c.b, got, c.div)
		}
		if got := Mod(c.a, c.b); got != c.md {
			t.Fatalf("Mod(%d,%d)=%d want %d", c.a, c.b, got, c.md)
		}
		if FloorDiv(c.a, c.b)*c.b+Mod(c.a, c.b) != c.a {
			t.Fatalf("div/mod identity broken for %d,%d", c.a, c.b)
		}
	}
}

func TestChebyshev(t *testing.T) {
	if got := Chebyshev(-3, 2, 1); got != 3 {
		t.Fatalf("Chebyshev=%d want 3", got)
	}
	if got := Chebyshev(0, 0, 0); got != 0 {
		t.Fatalf("Chebyshev=%d want 0", got)
	}
}

func TestHash3Deterministic(t *testing.T) {
	a := Hash3(42, 1, -2, 3)
	b := Hash3(42, 1, -2, 3)
	if a != b {
		t.Fatalf("hash not stable: %x vs %x", a, b)
	}
	if Hash3(43, 1, -2, 3) == a {
		t.Fatalf("seed did not change hash")
	}
}
