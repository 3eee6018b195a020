package cutter

import (
	"bytes"
	"image"

	"tilecut/internal/dmi"
)

// dedupeFrames collapses runs of identical animation frames into one frame
// whose delay is the sum of the run. Only single-direction animated states
// with explicit delays are touched.
func dedupeFrames(state dmi.State) dmi.State {
	if state.Dirs != 1 || state.Frames <= 1 || state.Delay == nil {
		return state
	}
	var images []*image.NRGBA
	var delays []float64
	var prev *image.NRGBA
	var current float64
	for i, img := range state.Images {
		if prev != nil && bytes.Equal(prev.Pix, img.Pix) {
			current += state.Delay[i]
			continue
		}
		if prev != nil {
			delays = append(delays, current)
		}
		images = append(images, img)
		prev = img
		current = state.Delay[i]
	}
	delays = append(delays, current)

	state.Frames = len(images)
	state.Images = images
	state.Delay = delays
	return state
}
