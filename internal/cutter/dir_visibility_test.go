package cutter

import (
	"errors"
	"image/color"
	"testing"

	"tilecut/internal/adjacency"
)

func fullSlicePoint(n, s, e, w int) SlicePoint {
	var sp SlicePoint
	sp.Set(adjacency.North, n)
	sp.Set(adjacency.South, s)
	sp.Set(adjacency.East, e)
	sp.Set(adjacency.West, w)
	return sp
}

func TestDirVisibilityStateEnumeration(t *testing.T) {
	sheet := testSheet(32, 1, standardColumns())
	vis := &BitmaskDirVisibility{SlicePoint: fullSlicePoint(12, 20, 16, 16)}

	icon, _, err := vis.Perform(sheet, false)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	// 16 signatures x 4 sides, plus one inner corner per diagonal.
	if want := 16*4 + 4; len(icon.States) != want {
		t.Fatalf("got %d states, want %d", len(icon.States), want)
	}

	// Sides are emitted in DMI cardinal order S,N,E,W; engine dir bits are
	// S=2, N=1, E=4, W=8.
	wantFirst := []string{"0-2", "0-1", "0-4", "0-8", "1-2"}
	for i, want := range wantFirst {
		if icon.States[i].Name != want {
			t.Errorf("state[%d] = %q, want %q", i, icon.States[i].Name, want)
		}
	}

	seen := map[string]bool{}
	for _, state := range icon.States {
		seen[state.Name] = true
	}
	for _, name := range []string{"innercorner-5", "innercorner-6", "innercorner-9", "innercorner-10"} {
		if !seen[name] {
			t.Errorf("missing state %q", name)
		}
	}
}

func TestDirVisibilityMasking(t *testing.T) {
	sheet := testSheet(32, 1, standardColumns())
	vis := &BitmaskDirVisibility{SlicePoint: fullSlicePoint(12, 20, 16, 16)}

	icon, _, err := vis.Perform(sheet, false)
	if err != nil {
		t.Fatalf("Perform: %v", err)
	}

	byName := map[string]int{}
	for i, state := range icon.States {
		byName[state.Name] = i
	}

	// North mask of signature 0 keeps rows [0,12) and blanks the rest.
	north := icon.States[byName["0-1"]].Images[0]
	if got := north.NRGBAAt(8, 4); got != convexColor {
		t.Errorf("north strip pixel = %v, want %v", got, convexColor)
	}
	if got := north.NRGBAAt(8, 20); got != (color.NRGBA{}) {
		t.Errorf("pixel below north slice = %v, want transparent", got)
	}

	// East mask keeps columns [16,32).
	east := icon.States[byName["0-4"]].Images[0]
	if got := east.NRGBAAt(24, 8); got != convexColor {
		t.Errorf("east strip pixel = %v, want %v", got, convexColor)
	}
	if got := east.NRGBAAt(8, 8); got != (color.NRGBA{}) {
		t.Errorf("pixel west of east slice = %v, want transparent", got)
	}

	// The NE inner corner trims the fully-surrounded tile to x [16,32),
	// y [0,12); innercorner-5 is N|E.
	inner := icon.States[byName["innercorner-5"]].Images[0]
	if got := inner.NRGBAAt(24, 4); got != concaveColor {
		t.Errorf("inner corner pixel = %v, want %v", got, concaveColor)
	}
	if got := inner.NRGBAAt(8, 4); got != (color.NRGBA{}) {
		t.Errorf("pixel outside inner corner = %v, want transparent", got)
	}
}

func TestDirVisibilityMissingSlicePoint(t *testing.T) {
	sheet := testSheet(32, 1, standardColumns())
	var sp SlicePoint
	sp.Set(adjacency.North, 12)
	vis := &BitmaskDirVisibility{SlicePoint: sp}

	_, _, err := vis.Perform(sheet, false)
	var geo *GeometryError
	if !errors.As(err, &geo) {
		t.Fatalf("expected GeometryError for missing slice point, got %v", err)
	}
}
