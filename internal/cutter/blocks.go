package cutter

import (
	"fmt"
	"strconv"

	"tilecut/internal/adjacency"
)

// Vec2 is an x/y pixel pair in config documents.
type Vec2 struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// SideSpacing is the pixel range one side of a tile occupies along its
// axis, derived from the cut position: West/North run from 0 to the cut,
// East/South from the cut to the tile size.
type SideSpacing struct {
	Start int
	End   int
}

// Step is the width of the range.
func (s SideSpacing) Step() int {
	return s.End - s.Start
}

// Positions maps each corner type to the zero-based column of the source
// sheet holding its reference art. Backed by a dense array; the key set is
// closed and tiny.
type Positions struct {
	columns [adjacency.NumCornerTypes]int
	present [adjacency.NumCornerTypes]bool
}

// Get returns the column for a corner type, if configured.
func (p *Positions) Get(ct adjacency.CornerType) (int, bool) {
	return p.columns[ct], p.present[ct]
}

// Set assigns the column for a corner type.
func (p *Positions) Set(ct adjacency.CornerType, column int) {
	p.columns[ct] = column
	p.present[ct] = true
}

// DefaultPositions is the standard 4-column reference sheet layout.
func DefaultPositions() Positions {
	var p Positions
	p.Set(adjacency.Convex, 0)
	p.Set(adjacency.Concave, 1)
	p.Set(adjacency.Horizontal, 2)
	p.Set(adjacency.Vertical, 3)
	return p
}

func (p *Positions) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]int
	if err := unmarshal(&raw); err != nil {
		return err
	}
	var out Positions
	for key, column := range raw {
		ct, err := adjacency.ParseCornerType(key)
		if err != nil {
			return fmt.Errorf("positions: %w", err)
		}
		out.Set(ct, column)
	}
	*p = out
	return nil
}

func (p Positions) MarshalYAML() (any, error) {
	out := map[string]int{}
	for ct := adjacency.CornerType(0); ct < adjacency.NumCornerTypes; ct++ {
		if p.present[ct] {
			out[ct.String()] = p.columns[ct]
		}
	}
	return out, nil
}

// Prefabs maps a literal adjacency bit value to a source sheet column whose
// art replaces the assembled tile for that exact signature. YAML keys are
// the decimal bit values.
type Prefabs map[adjacency.Adjacency]int

func (p *Prefabs) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]int
	if err := unmarshal(&raw); err != nil {
		return err
	}
	out := make(Prefabs, len(raw))
	for key, column := range raw {
		bits, err := strconv.ParseUint(key, 10, 8)
		if err != nil {
			return fmt.Errorf("prefabs: key %q is not an adjacency bit value", key)
		}
		out[adjacency.Adjacency(bits)] = column
	}
	*p = out
	return nil
}

func (p Prefabs) MarshalYAML() (any, error) {
	out := map[string]int{}
	for bits, column := range p {
		out[strconv.Itoa(int(bits))] = column
	}
	return out, nil
}

// Animation configures per-frame delays. A delay list shorter than the
// frame count is cycled to match; it is never truncated below its length.
type Animation struct {
	Delays []float64 `yaml:"delays"`
}

// repeatFor cycles delays to exactly count entries.
func repeatFor(delays []float64, count int) []float64 {
	if len(delays) == 0 {
		return nil
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = delays[i%len(delays)]
	}
	return out
}

// SlicePoint is the per-side pixel offset map used by the directional
// visibility mode. YAML keys are side names.
type SlicePoint struct {
	offsets [4]int
	present [4]bool
}

// Get returns the offset for a side, if configured.
func (s *SlicePoint) Get(side adjacency.Side) (int, bool) {
	return s.offsets[side], s.present[side]
}

// Set assigns the offset for a side.
func (s *SlicePoint) Set(side adjacency.Side, offset int) {
	s.offsets[side] = offset
	s.present[side] = true
}

func (s *SlicePoint) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]int
	if err := unmarshal(&raw); err != nil {
		return err
	}
	var out SlicePoint
	for key, offset := range raw {
		side, err := adjacency.ParseSide(key)
		if err != nil {
			return fmt.Errorf("slice_point: %w", err)
		}
		out.Set(side, offset)
	}
	*s = out
	return nil
}

func (s SlicePoint) MarshalYAML() (any, error) {
	out := map[string]int{}
	for side := adjacency.Side(0); side < 4; side++ {
		if s.present[side] {
			out[side.String()] = s.offsets[side]
		}
	}
	return out, nil
}
