package cutter

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"tilecut/internal/adjacency"
	"tilecut/internal/dmi"
)

// byondSideDir maps a side to the consuming engine's direction bit.
func byondSideDir(side adjacency.Side) int {
	switch side {
	case adjacency.North:
		return 1
	case adjacency.South:
		return 2
	case adjacency.East:
		return 4
	default:
		return 8
	}
}

// byondCornerDir is the union of a corner's two side bits.
func byondCornerDir(corner adjacency.Corner) int {
	h, v := corner.Sides()
	return byondSideDir(h) | byondSideDir(v)
}

// BitmaskDirVisibility post-processes assembled signatures into per-side
// visibility masks: for each signature and each side, only the strip of the
// tile visible from that side (bounded by the configured slice point)
// remains, at its original offset on an otherwise blank tile.
type BitmaskDirVisibility struct {
	BitmaskSlice `yaml:",inline"`
	SlicePoint   SlicePoint `yaml:"slice_point"`
}

// SideCuts returns the visible pixel range for a side: North/West run from
// the tile edge to the slice point, South/East from the slice point to the
// far edge.
func (c *BitmaskDirVisibility) SideCuts(side adjacency.Side) (SideSpacing, error) {
	point, ok := c.SlicePoint.Get(side)
	if !ok {
		return SideSpacing{}, geometryErrorf("slice_point has no entry for side %s", side)
	}
	switch side {
	case adjacency.North:
		return SideSpacing{Start: 0, End: point}, nil
	case adjacency.South:
		return SideSpacing{Start: point, End: c.IconSize.Y}, nil
	case adjacency.East:
		return SideSpacing{Start: point, End: c.IconSize.X}, nil
	default:
		return SideSpacing{Start: 0, End: point}, nil
	}
}

func (c *BitmaskDirVisibility) Perform(sheet image.Image, debug bool) (*dmi.Icon, []NamedImage, error) {
	c.normalize()
	corners, prefabs, frames, err := c.GenerateCorners(sheet)
	if err != nil {
		return nil, nil, err
	}
	assembled := c.GenerateIcons(corners, prefabs, frames, c.signatureCount())

	var delays []float64
	if c.Animation != nil {
		delays = repeatFor(c.Animation.Delays, frames)
	}

	// maskState isolates one rectangle of every frame of a signature onto
	// a blank tile, keeping the crop at its original offset.
	maskState := func(name string, images []*image.NRGBA, rect image.Rectangle) dmi.State {
		masked := make([]*image.NRGBA, len(images))
		for i, img := range images {
			blank := image.NewNRGBA(image.Rect(0, 0, c.IconSize.X, c.IconSize.Y))
			crop := imaging.Crop(img, rect)
			masked[i] = imaging.Overlay(blank, crop, rect.Min, 1.0)
		}
		return dmi.State{
			Name:   name,
			Dirs:   1,
			Frames: len(images),
			Delay:  delays,
			Images: masked,
		}
	}

	var states []dmi.State
	for sig := 0; sig < c.signatureCount(); sig++ {
		adj := adjacency.Adjacency(sig)
		images := assembled[adj]
		for _, side := range adjacency.DMICardinalSides() {
			cuts, err := c.SideCuts(side)
			if err != nil {
				return nil, nil, err
			}
			var rect image.Rectangle
			if side.IsVertical() {
				rect = image.Rect(0, cuts.Start, c.IconSize.X, cuts.End)
			} else {
				rect = image.Rect(cuts.Start, 0, cuts.End, c.IconSize.Y)
			}
			states = append(states,
				maskState(fmt.Sprintf("%d-%d", adj, byondSideDir(side)), images, rect))
		}
	}

	// Inner corner states: the fully-surrounded tile cut down to each
	// corner's quadrant, trimmed at the vertical slice point.
	convex := assembled[adjacency.Cardinals]
	for _, corner := range adjacency.Corners() {
		hSide, vSide := corner.Sides()
		hSpace := c.SideInfo(hSide)
		point, ok := c.SlicePoint.Get(vSide)
		if !ok {
			return nil, nil, geometryErrorf("slice_point has no entry for side %s", vSide)
		}
		var y0, y1 int
		if vSide == adjacency.North {
			y0, y1 = 0, point
		} else {
			y0, y1 = point, c.IconSize.Y
		}
		rect := image.Rect(hSpace.Start, y0, hSpace.End, y1)
		states = append(states,
			maskState(fmt.Sprintf("innercorner-%d", byondCornerDir(corner)), convex, rect))
	}

	if c.MapIcon != nil {
		state, err := c.mapIconState()
		if err != nil {
			return nil, nil, err
		}
		states = append(states, *state)
	}

	icon := &dmi.Icon{
		Width:  c.OutputIconSize.X,
		Height: c.OutputIconSize.Y,
		States: states,
	}

	var extras []NamedImage
	if debug {
		extras = c.DebugImages(corners)
	}
	return icon, extras, nil
}
