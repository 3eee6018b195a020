// Package cutter implements the bitmask autotiling engine: slicing a
// reference cut sheet into per-corner-type pieces and reassembling one
// output tile per neighbor-adjacency signature.
package cutter

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"tilecut/internal/adjacency"
	"tilecut/internal/dmi"
	"tilecut/internal/mapicon"
)

// Signature space sizes: the power set of 4 cardinal or all 8 directions.
const (
	NumCardinalSignatures = 1 << 4
	NumDiagonalSignatures = 1 << 8
)

// BitmaskSlice cuts a sheet laid out as one column per corner type
// (optionally times N animation frame rows) into a full autotile set.
type BitmaskSlice struct {
	OutputName       string          `yaml:"output_name"`
	ProduceDirs      bool            `yaml:"produce_dirs"`
	SmoothDiagonally bool            `yaml:"smooth_diagonally"`
	IconSize         Vec2            `yaml:"icon_size"`
	OutputIconPos    Vec2            `yaml:"output_icon_pos"`
	OutputIconSize   Vec2            `yaml:"output_icon_size"`
	Positions        *Positions      `yaml:"positions"`
	CutPos           *Vec2           `yaml:"cut_pos"`
	Animation        *Animation      `yaml:"animation"`
	Prefabs          Prefabs         `yaml:"prefabs"`
	MapIcon          *mapicon.Config `yaml:"map_icon"`
}

// normalize fills unset geometry with the conventional defaults: 32x32
// tiles, output matching input, the cut in the middle of the tile, and the
// standard 4-column sheet layout.
func (c *BitmaskSlice) normalize() {
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
		c.OutputIconSize.Y = c.IconSize.Y
	}
	if c.CutPos == nil {
		c.CutPos = &Vec2{X: c.IconSize.X / 2, Y: c.IconSize.Y / 2}
	}
	if c.Positions == nil {
		p := DefaultPositions()
		c.Positions = &p
	}
}

// SideInfo returns the pixel range a side occupies along its axis. The cut
// position divides each axis in two: West/North take the low range,
// East/South the high one.
func (c *BitmaskSlice) SideInfo(side adjacency.Side) SideSpacing {
	switch side {
	case adjacency.North:
		return SideSpacing{Start: 0, End: c.CutPos.Y}
	case adjacency.South:
		return SideSpacing{Start: c.CutPos.Y, End: c.IconSize.Y}
	case adjacency.East:
		return SideSpacing{Start: c.CutPos.X, End: c.IconSize.X}
	default:
		return SideSpacing{Start: 0, End: c.CutPos.X}
	}
}

// cornerTypes returns the corner types enabled under the smoothing mode.
func (c *BitmaskSlice) cornerTypes() []adjacency.CornerType {
	if c.SmoothDiagonally {
		return adjacency.DiagonalCornerTypes()
	}
	return adjacency.CardinalCornerTypes()
}

// signatureCount returns the size of the enabled signature space.
func (c *BitmaskSlice) signatureCount() int {
	if c.SmoothDiagonally {
		return NumDiagonalSignatures
	}
	return NumCardinalSignatures
}

// frameCount derives the animation frame count from the sheet height,
// which must be an exact multiple of the tile height.
func (c *BitmaskSlice) frameCount(sheet image.Image) (int, error) {
	h := sheet.Bounds().Dy()
	if h == 0 || h%c.IconSize.Y != 0 {
		return 0, geometryErrorf("sheet height %d is not a multiple of tile height %d",
			h, c.IconSize.Y)
	}
	return h / c.IconSize.Y, nil
}

// CornerSet holds every cropped corner piece, indexed by corner type,
// corner and frame.
type CornerSet struct {
	frames [adjacency.NumCornerTypes][4][]*image.NRGBA
	types  []adjacency.CornerType
}

// Types lists the corner types populated in the set.
func (cs *CornerSet) Types() []adjacency.CornerType {
	return cs.types
}

// Get returns the crop for one (corner type, corner, frame) triple.
func (cs *CornerSet) Get(ct adjacency.CornerType, corner adjacency.Corner, frame int) *image.NRGBA {
	return cs.frames[ct][corner][frame]
}

// PrefabSet holds the literal override crops per configured signature.
type PrefabSet map[adjacency.Adjacency][]*image.NRGBA

// GenerateCorners crops the source sheet into the per-corner-type corner
// pieces and the configured prefab tiles, returning the frame count it
// derived from the sheet height.
func (c *BitmaskSlice) GenerateCorners(sheet image.Image) (*CornerSet, PrefabSet, int, error) {
	frames, err := c.frameCount(sheet)
	if err != nil {
		return nil, nil, 0, err
	}
	bounds := sheet.Bounds()

	set := &CornerSet{types: c.cornerTypes()}
	for _, ct := range set.types {
		column, ok := c.Positions.Get(ct)
		if !ok {
			return nil, nil, 0, geometryErrorf("corner type %s has no configured position", ct)
		}
		for _, corner := range adjacency.Corners() {
			hSide, vSide := corner.Sides()
			hSpace := c.SideInfo(hSide)
			vSpace := c.SideInfo(vSide)
			crops := make([]*image.NRGBA, frames)
			for frame := 0; frame < frames; frame++ {
				x := column*c.IconSize.X + hSpace.Start
				y := frame*c.IconSize.Y + vSpace.Start
				rect := image.Rect(x, y, x+hSpace.Step(), y+vSpace.Step())
				if !rect.In(bounds) {
					return nil, nil, 0, &GeometryError{
						Detail: fmt.Sprintf(
							"%s corner of corner type %s (column %d, frame %d) lies outside the %dx%d sheet",
							corner, ct, column, frame, bounds.Dx(), bounds.Dy()),
						Rect: rect,
					}
				}
				crops[frame] = imaging.Crop(sheet, rect)
			}
			set.frames[ct][corner] = crops
		}
	}

	prefabs := make(PrefabSet, len(c.Prefabs))
	for bits, column := range c.Prefabs {
		crops := make([]*image.NRGBA, frames)
		for frame := 0; frame < frames; frame++ {
			x := column * c.IconSize.X
			y := frame * c.IconSize.Y
			rect := image.Rect(x, y, x+c.IconSize.X, y+c.IconSize.Y)
			if !rect.In(bounds) {
				return nil, nil, 0, &GeometryError{
					Detail: fmt.Sprintf(
						"prefab for signature %d (column %d, frame %d) lies outside the %dx%d sheet",
						bits, column, frame, bounds.Dx(), bounds.Dy()),
					Rect: rect,
				}
			}
			crops[frame] = imaging.Crop(sheet, rect)
		}
		prefabs[bits] = crops
	}

	return set, prefabs, frames, nil
}

// GenerateIcons assembles the canonical South-facing frame set for every
// signature in the space. A configured prefab replaces corner composition
// outright; otherwise each of the four corners contributes its piece at the
// offset given by its two side spacings.
func (c *BitmaskSlice) GenerateIcons(corners *CornerSet, prefabs PrefabSet, frames, signatures int) map[adjacency.Adjacency][]*image.NRGBA {
	assembled := make(map[adjacency.Adjacency][]*image.NRGBA, signatures)
	for sig := 0; sig < signatures; sig++ {
		adj := adjacency.Adjacency(sig)
		images := make([]*image.NRGBA, frames)
		for frame := 0; frame < frames; frame++ {
			canvas := image.NewNRGBA(image.Rect(0, 0, c.OutputIconSize.X, c.OutputIconSize.Y))
			if prefab, ok := prefabs[adj]; ok {
				images[frame] = imaging.Paste(canvas, prefab[frame],
					image.Pt(c.OutputIconPos.X, c.OutputIconPos.Y))
				continue
			}
			out := canvas
			for _, corner := range adjacency.Corners() {
				ct := adj.CornerType(corner)
				piece := corners.Get(ct, corner, frame)
				hSide, vSide := corner.Sides()
				pos := image.Pt(c.SideInfo(hSide).Start, c.SideInfo(vSide).Start)
				out = imaging.Overlay(out, piece, pos, 1.0)
			}
			images[frame] = out
		}
		assembled[adj] = images
	}
	return assembled
}

// Perform runs the full slice operation over a decoded sheet. The returned
// extras are debug artifacts, populated only when debug is set.
func (c *BitmaskSlice) Perform(sheet image.Image, debug bool) (*dmi.Icon, []NamedImage, error) {
	c.normalize()
	corners, prefabs, frames, err := c.GenerateCorners(sheet)
	if err != nil {
		return nil, nil, err
	}

	directions := []adjacency.Adjacency{adjacency.S}
	if c.ProduceDirs {
		cardinals := adjacency.DMICardinals()
		directions = cardinals[:]
	}

	assembled := c.GenerateIcons(corners, prefabs, frames, c.signatureCount())

	var delays []float64
	if c.Animation != nil {
		delays = repeatFor(c.Animation.Delays, frames)
	}

	// Rotation selects a different assembled signature per direction; no
	// pixels are ever rotated, which is why assembly must fully finish
	// before this pass.
	states := make([]dmi.State, 0, c.signatureCount()+1)
	for sig := 0; sig < c.signatureCount(); sig++ {
		adj := adjacency.Adjacency(sig)
		var images []*image.NRGBA
		for _, dir := range directions {
			rotated := adj.RotateTo(dir)
			for _, frame := range assembled[rotated] {
				images = append(images, imaging.Clone(frame))
			}
		}
		states = append(states, dmi.State{
			Name:   c.stateName(sig),
			Dirs:   len(directions),
			Frames: frames,
			Delay:  delays,
			Images: images,
		})
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

func (c *BitmaskSlice) stateName(sig int) string {
	if c.OutputName != "" {
		return fmt.Sprintf("%s-%d", c.OutputName, sig)
	}
	return fmt.Sprintf("%d", sig)
}

func (c *BitmaskSlice) mapIconState() (*dmi.State, error) {
	img, err := mapicon.Generate(c.OutputIconSize.X, c.OutputIconSize.Y, c.MapIcon)
	if err != nil {
		return nil, err
	}
	name := c.MapIcon.StateName
	if name == "" {
		name = "map_icon"
	}
	return &dmi.State{
		Name:   name,
		Dirs:   1,
		Frames: 1,
		Images: []*image.NRGBA{img},
	}, nil
}

// DebugImages emits each corner type's first-frame crops as standalone
// artifacts plus one composite reassembling the reference columns, for
// visual verification of the cut boundaries.
func (c *BitmaskSlice) DebugImages(corners *CornerSet) []NamedImage {
	var out []NamedImage
	composite := image.NewNRGBA(image.Rect(0, 0,
		len(corners.Types())*c.IconSize.X, c.IconSize.Y))
	for _, ct := range corners.Types() {
		column, _ := c.Positions.Get(ct)
		for _, corner := range adjacency.Corners() {
			first := corners.Get(ct, corner, 0)
			out = append(out, NamedImage{
				PathHint: "DEBUGOUT/CORNERS/",
				NameHint: fmt.Sprintf("CORNER-%s-%s", ct, corner),
				Image:    first,
			})
			hSide, vSide := corner.Sides()
			pos := image.Pt(
				column*c.IconSize.X+c.SideInfo(hSide).Start,
				c.SideInfo(vSide).Start,
			)
			composite = imaging.Paste(composite, first, pos)
		}
	}
	out = append(out, NamedImage{
		PathHint: "DEBUGOUT",
		NameHint: "ASSEMBLED-CORNERS",
		Image:    composite,
	})
	return out
}
