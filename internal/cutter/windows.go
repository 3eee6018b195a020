package cutter

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"tilecut/internal/adjacency"
	"tilecut/internal/dmi"
)

// BitmaskWindows cuts window-style sheets: two five-column reference sets
// (main and alt) side by side, always diagonally smoothed, with each
// signature split into an upper and a lower half-height state. Signatures
// with orphaned diagonal corners are skipped; window smoothing only senses
// a diagonal neighbor through both of its cardinals.
type BitmaskWindows struct {
	IconSize       Vec2       `yaml:"icon_size"`
	OutputIconPos  Vec2       `yaml:"output_icon_pos"`
	OutputIconSize Vec2       `yaml:"output_icon_size"`
	Animation      *Animation `yaml:"animation"`
}

// innerSlice builds the shared slice engine config for one column set.
func (c *BitmaskWindows) innerSlice(firstColumn int) *BitmaskSlice {
	positions := Positions{}
	positions.Set(adjacency.Convex, firstColumn)
	positions.Set(adjacency.Concave, firstColumn+1)
	positions.Set(adjacency.Horizontal, firstColumn+2)
	positions.Set(adjacency.Vertical, firstColumn+3)
	positions.Set(adjacency.Flat, firstColumn+4)
	slice := &BitmaskSlice{
		IconSize:         c.IconSize,
		OutputIconPos:    c.OutputIconPos,
		OutputIconSize:   c.IconSize,
		Positions:        &positions,
		CutPos:           &Vec2{X: c.IconSize.X / 2, Y: c.IconSize.Y / 2},
		Animation:        c.Animation,
		SmoothDiagonally: true,
	}
	return slice
}

func (c *BitmaskWindows) Perform(sheet image.Image, debug bool) (*dmi.Icon, []NamedImage, error) {
	if c.IconSize.X == 0 {
		c.IconSize.X = 32
	}
	if c.IconSize.Y == 0 {
		c.IconSize.Y = 32
	}
	if c.OutputIconSize.X == 0 {
		c.OutputIconSize.X = c.IconSize.X
	}
	if c.OutputIconSize.Y == 0 {
		c.OutputIconSize.Y = c.IconSize.Y / 2
	}

	main := c.innerSlice(0)
	main.normalize()
	corners, prefabs, frames, err := main.GenerateCorners(sheet)
	if err != nil {
		return nil, nil, err
	}
	assembled := main.GenerateIcons(corners, prefabs, frames, NumDiagonalSignatures)

	alt := c.innerSlice(5)
	alt.normalize()
	cornersAlt, prefabsAlt, _, err := alt.GenerateCorners(sheet)
	if err != nil {
		return nil, nil, err
	}
	assembledAlt := alt.GenerateIcons(cornersAlt, prefabsAlt, frames, NumDiagonalSignatures)

	var delays []float64
	if c.Animation != nil {
		delays = repeatFor(c.Animation.Delays, frames)
	}

	var states []dmi.State
	appendHalves := func(prefix string, adj adjacency.Adjacency, set map[adjacency.Adjacency][]*image.NRGBA) {
		upper := make([]*image.NRGBA, frames)
		lower := make([]*image.NRGBA, frames)
		for frame, uncut := range set[adj] {
			upper[frame] = imaging.Crop(uncut, image.Rect(
				0, 0, c.OutputIconSize.X, c.OutputIconSize.Y))
			lower[frame] = imaging.Crop(uncut, image.Rect(
				0, c.IconSize.Y/2, c.OutputIconSize.X, c.IconSize.Y/2+c.OutputIconSize.Y))
		}
		states = append(states,
			dedupeFrames(dmi.State{
				Name:   fmt.Sprintf("%s%d-upper", prefix, adj),
				Dirs:   1,
				Frames: frames,
				Delay:  delays,
				Images: upper,
			}),
			dedupeFrames(dmi.State{
				Name:   fmt.Sprintf("%s%d-lower", prefix, adj),
				Dirs:   1,
				Frames: frames,
				Delay:  delays,
				Images: lower,
			}),
		)
	}

	for sig := 0; sig < NumDiagonalSignatures; sig++ {
		adj := adjacency.Adjacency(sig)
		if !adj.HasNoOrphanedCorner() {
			continue
		}
		appendHalves("", adj, assembled)
		appendHalves("alt-", adj, assembledAlt)
	}

	icon := &dmi.Icon{
		Width:  c.OutputIconSize.X,
		Height: c.OutputIconSize.Y,
		States: states,
	}

	var extras []NamedImage
	if debug {
		extras = main.DebugImages(corners)
	}
	return icon, extras, nil
}
