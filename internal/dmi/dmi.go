// Package dmi encodes multi-state icons into the DMI container format: a
// PNG sprite sheet carrying a zTXt metadata chunk that names each state and
// its direction/frame/delay layout. Only the narrow encode surface the
// cutter needs is exposed; callers hand over named frame sequences and get
// back bytes.
package dmi

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const Version = "4.0"

// State is one named icon state: Dirs*Frames images in direction-major
// order (all frames of the first direction, then the next direction).
type State struct {
	Name     string
	Dirs     int
	Frames   int
	Delay    []float64
	Rewind   bool
	Movement bool
	Images   []*image.NRGBA
}

// Icon is a full DMI document: uniform per-state image size plus the state
// list in output order.
type Icon struct {
	Width  int
	Height int
	States []State
}

func (s *State) validate() error {
	if want := s.Dirs * s.Frames; len(s.Images) != want {
		return fmt.Errorf("state %q has %d images, want dirs*frames = %d",
			s.Name, len(s.Images), want)
	}
	if s.Delay != nil && len(s.Delay) != s.Frames {
		return fmt.Errorf("state %q has %d delays, want %d", s.Name, len(s.Delay), s.Frames)
	}
	return nil
}

// totalImages counts every frame of every state.
func (ic *Icon) totalImages() int {
	total := 0
	for i := range ic.States {
		total += len(ic.States[i].Images)
	}
	return total
}

// metadata renders the DMI description block embedded in the zTXt chunk.
func (ic *Icon) metadata() string {
	var b strings.Builder
	b.WriteString("# BEGIN DMI\n")
	fmt.Fprintf(&b, "version = %s\n", Version)
	fmt.Fprintf(&b, "\twidth = %d\n", ic.Width)
	fmt.Fprintf(&b, "\theight = %d\n", ic.Height)
	for i := range ic.States {
		state := &ic.States[i]
		fmt.Fprintf(&b, "state = \"%s\"\n", state.Name)
		fmt.Fprintf(&b, "\tdirs = %d\n", state.Dirs)
		fmt.Fprintf(&b, "\tframes = %d\n", state.Frames)
		if state.Delay != nil {
			parts := make([]string, len(state.Delay))
			for j, d := range state.Delay {
				parts[j] = strconv.FormatFloat(d, 'g', -1, 64)
			}
			fmt.Fprintf(&b, "\tdelay = %s\n", strings.Join(parts, ","))
		}
		if state.Rewind {
			b.WriteString("\trewind = 1\n")
		}
		if state.Movement {
			b.WriteString("\tmovement = 1\n")
		}
	}
	b.WriteString("# END DMI\n")
	return b.String()
}

// sheetGrid picks the sprite sheet layout for n images: the squarest grid
// that fits them, column-count first.
func sheetGrid(n int) (cols, rows int) {
	if n == 0 {
		return 1, 1
	}
	cols = 1
	for cols*cols < n {
		cols++
	}
	rows = (n + cols - 1) / cols
	return cols, rows
}

// sheet packs every state's images left-to-right, top-to-bottom into one
// RGBA sprite sheet.
func (ic *Icon) sheet() (*image.NRGBA, error) {
	total := ic.totalImages()
	cols, rows := sheetGrid(total)
	out := image.NewNRGBA(image.Rect(0, 0, cols*ic.Width, rows*ic.Height))
	idx := 0
	for i := range ic.States {
		state := &ic.States[i]
		if err := state.validate(); err != nil {
			return nil, err
		}
		for _, frame := range state.Images {
			b := frame.Bounds()
			if b.Dx() != ic.Width || b.Dy() != ic.Height {
				return nil, fmt.Errorf("state %q frame is %dx%d, icon is %dx%d",
					state.Name, b.Dx(), b.Dy(), ic.Width, ic.Height)
			}
			ox := (idx % cols) * ic.Width
			oy := (idx / cols) * ic.Height
			for y := 0; y < ic.Height; y++ {
				srcOff := frame.PixOffset(b.Min.X, b.Min.Y+y)
				dstOff := out.PixOffset(ox, oy+y)
				copy(out.Pix[dstOff:dstOff+ic.Width*4], frame.Pix[srcOff:srcOff+ic.Width*4])
			}
			idx++
		}
	}
	return out, nil
}

// Encode serializes the icon. The sprite sheet is PNG-encoded and the
// metadata chunk spliced in directly after the header chunk.
func (ic *Icon) Encode() ([]byte, error) {
	sheet, err := ic.sheet()
	if err != nil {
		return nil, errors.Wrap(err, "assemble sprite sheet")
	}
	return encodePNGWithDescription(sheet, ic.metadata())
}
