package cutter

import (
	"image"
	"image/color"
	"testing"

	"tilecut/internal/dmi"
)

func solidTile(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDedupeFramesMergesRuns(t *testing.T) {
	a := solidTile(color.NRGBA{R: 255, A: 255})
	b := solidTile(color.NRGBA{G: 255, A: 255})
	b2 := solidTile(color.NRGBA{G: 255, A: 255})

	state := dedupeFrames(dmi.State{
		Name:   "anim",
		Dirs:   1,
		Frames: 3,
		Delay:  []float64{1, 2, 3},
		Images: []*image.NRGBA{a, b, b2},
	})

	if state.Frames != 2 {
		t.Fatalf("frames = %d, want 2", state.Frames)
	}
	if len(state.Images) != 2 || len(state.Delay) != 2 {
		t.Fatalf("images/delays = %d/%d, want 2/2", len(state.Images), len(state.Delay))
	}
	if state.Delay[0] != 1 || state.Delay[1] != 5 {
		t.Errorf("delays = %v, want [1 5]", state.Delay)
	}
}

func TestDedupeFramesLeavesDistinctAlone(t *testing.T) {
	a := solidTile(color.NRGBA{R: 255, A: 255})
	b := solidTile(color.NRGBA{G: 255, A: 255})

	state := dedupeFrames(dmi.State{
		Dirs:   1,
		Frames: 2,
		Delay:  []float64{1, 2},
		Images: []*image.NRGBA{a, b},
	})
	if state.Frames != 2 || state.Delay[1] != 2 {
		t.Errorf("distinct frames changed: %+v", state)
	}
}

func TestDedupeFramesSkipsIneligibleStates(t *testing.T) {
	a := solidTile(color.NRGBA{R: 255, A: 255})

	// Multi-dir and delay-less states pass through untouched.
	multi := dmi.State{Dirs: 4, Frames: 2, Delay: []float64{1, 1},
		Images: []*image.NRGBA{a, a, a, a, a, a, a, a}}
	if got := dedupeFrames(multi); got.Frames != 2 || len(got.Images) != 8 {
		t.Errorf("multi-dir state was modified: %+v", got)
	}

	noDelay := dmi.State{Dirs: 1, Frames: 2, Images: []*image.NRGBA{a, a}}
	if got := dedupeFrames(noDelay); got.Frames != 2 {
		t.Errorf("delay-less state was modified: %+v", got)
	}
}
