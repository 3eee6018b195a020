package adjacency

import "testing"

func TestCornerTypeClassification(t *testing.T) {
	cases := []struct {
		name   string
		adj    Adjacency
		corner Corner
		want   CornerType
	}{
		{"isolated tile", 0, NorthEast, Convex},
		{"both cardinals and diagonal", N | E | NE, NorthEast, Flat},
		{"both cardinals only", N | E, NorthEast, Concave},
		{"vertical only", N, NorthEast, Vertical},
		{"horizontal only", E, NorthEast, Horizontal},
		{"diagonal alone does not count", NE, NorthEast, Convex},
		{"unrelated bits ignored", S | W | SW, NorthEast, Convex},
		{"southwest flat", S | W | SW, SouthWest, Flat},
		{"southwest concave", S | W, SouthWest, Concave},
		{"southeast vertical", S, SouthEast, Vertical},
		{"northwest horizontal", W, NorthWest, Horizontal},
	}
	for _, c := range cases {
		got := c.adj.CornerType(c.corner)
		if got != c.want {
			t.Errorf("%s: CornerType(%08b, %s)=%s, want %s",
				c.name, uint8(c.adj), c.corner, got, c.want)
		}
	}
}

func TestCornerTypeAlwaysDefined(t *testing.T) {
	for sig := 0; sig < 256; sig++ {
		adj := Adjacency(sig)
		for _, corner := range Corners() {
			ct := adj.CornerType(corner)
			if ct > Flat {
				t.Fatalf("CornerType(%08b, %s) out of range: %d", sig, corner, ct)
			}
			if ct == Flat {
				diag := FromCorner(corner)
				v, h := diag.CornerSides()
				if !adj.Contains(v | h | diag) {
					t.Fatalf("Flat returned for %08b %s without full support", sig, corner)
				}
			}
		}
	}
}

func TestRotateToRoundTrip(t *testing.T) {
	singles := []Adjacency{N, S, E, W}
	pairs := [][2]Adjacency{{N, N}, {S, S}, {E, W}, {W, E}}
	for _, a := range singles {
		for _, p := range pairs {
			got := a.RotateTo(p[0]).RotateTo(p[1])
			if got != a {
				t.Errorf("rotate %08b to %08b then %08b = %08b, want identity",
					uint8(a), uint8(p[0]), uint8(p[1]), uint8(got))
			}
		}
	}
}

func TestRotateToEast(t *testing.T) {
	// Facing East is a counter-clockwise quarter turn of the signature.
	cases := []struct {
		in, want Adjacency
	}{
		{N, W},
		{N | E, W | N},
		{N | E | NE, W | N | NW},
		{Cardinals, Cardinals},
	}
	for _, c := range cases {
		if got := c.in.RotateTo(E); got != c.want {
			t.Errorf("RotateTo(%08b, E)=%08b, want %08b",
				uint8(c.in), uint8(got), uint8(c.want))
		}
	}
}

func TestRotateToSouthIdentity(t *testing.T) {
	for sig := 0; sig < 256; sig++ {
		adj := Adjacency(sig)
		if got := adj.RotateTo(S); got != adj {
			t.Fatalf("RotateTo(%08b, S)=%08b, want identity", sig, uint8(got))
		}
	}
}

func TestRotateToDiagonalTargetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic rotating to a diagonal target")
		}
	}()
	_ = N.RotateTo(NE)
}

func TestCornerSidesNonCornerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on CornerSides of a cardinal")
		}
	}()
	_, _ = N.CornerSides()
}

func TestHasNoOrphanedCorner(t *testing.T) {
	cases := []struct {
		adj  Adjacency
		want bool
	}{
		{0, true},
		{Cardinals, true},
		{NE, false},
		{N | NE, false},
		{E | NE, false},
		{N | E | NE, true},
		{N | E | NE | SW, false},
		{N | S | E | W | NE | SE | SW | NW, true},
	}
	for _, c := range cases {
		if got := c.adj.HasNoOrphanedCorner(); got != c.want {
			t.Errorf("HasNoOrphanedCorner(%08b)=%v, want %v", uint8(c.adj), got, c.want)
		}
	}
}

func TestDMICardinalOrder(t *testing.T) {
	want := [4]Adjacency{S, N, E, W}
	if DMICardinals() != want {
		t.Errorf("DMICardinals()=%v, want %v", DMICardinals(), want)
	}
	wantSides := [4]Side{South, North, East, West}
	if DMICardinalSides() != wantSides {
		t.Errorf("DMICardinalSides()=%v, want %v", DMICardinalSides(), wantSides)
	}
}

func TestSetFlags(t *testing.T) {
	adj := N | W | S
	got := adj.SetFlags()
	if len(got) != 3 {
		t.Fatalf("SetFlags returned %d flags, want 3", len(got))
	}
	var union Adjacency
	for _, f := range got {
		union |= f
	}
	if union != adj {
		t.Errorf("SetFlags union = %08b, want %08b", uint8(union), uint8(adj))
	}
}

func TestParseNames(t *testing.T) {
	if s, err := ParseSide("east"); err != nil || s != East {
		t.Errorf("ParseSide(east)=%v,%v", s, err)
	}
	if _, err := ParseSide("up"); err == nil {
		t.Error("ParseSide(up) should fail")
	}
	if ct, err := ParseCornerType("concave"); err != nil || ct != Concave {
		t.Errorf("ParseCornerType(concave)=%v,%v", ct, err)
	}
	if _, err := ParseCornerType("bent"); err == nil {
		t.Error("ParseCornerType(bent) should fail")
	}
}
