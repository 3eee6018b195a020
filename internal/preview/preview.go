// Package preview renders an animated GIF montage of a finished icon so a
// whole autotile set can be eyeballed without loading it into the engine.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"tilecut/internal/dmi"
)

var errNoStates = errors.New("icon has no renderable states")

// Options controls montage rendering.
type Options struct {
	// Scale is the integer upscale factor per tile. Zero means 2.
	Scale int
	// Colors caps the global palette size, transparent entry included.
	// Zero means 64; the hard ceiling is 256.
	Colors int
	// DelayMS is the per-frame delay used when the icon has no animation
	// delays of its own. Zero means 200.
	DelayMS int
	// Gutter is the pixel gap between tiles, before scaling.
	Gutter int
}

func (o *Options) normalize() {
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.Colors <= 0 {
		o.Colors = 64
	}
	if o.Colors > 256 {
		o.Colors = 256
	}
	if o.DelayMS <= 0 {
		o.DelayMS = 200
	}
	if o.Gutter < 0 {
		o.Gutter = 0
	}
}

// montageGrid picks the squarest column count for n cells, columns first.
func montageGrid(n int) (cols, rows int) {
	if n == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// frameSpan is the montage's animation length: the longest state frame
// count. Shorter states cycle.
func frameSpan(icon *dmi.Icon) int {
	span := 1
	for _, state := range icon.States {
		if state.Frames > span {
			span = state.Frames
		}
	}
	return span
}

// composeFrame renders montage frame f: every state's first direction, each
// state cycling its own frames.
func composeFrame(icon *dmi.Icon, f, cols, rows, gutter int) *image.RGBA {
	cellW := icon.Width + gutter
	cellH := icon.Height + gutter
	out := image.NewRGBA(image.Rect(0, 0, cols*cellW-gutter, rows*cellH-gutter))
	for i, state := range icon.States {
		src := state.Images[f%state.Frames]
		x := (i % cols) * cellW
		y := (i / cols) * cellH
		rect := image.Rect(x, y, x+icon.Width, y+icon.Height)
		draw.Draw(out, rect, src, src.Bounds().Min, draw.Src)
	}
	return out
}

// scaleFrame upscales with nearest-neighbor; previews are pixel art and
// interpolation would smear the tile boundaries.
func scaleFrame(src *image.RGBA, scale int) *image.RGBA {
	if scale == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// buildPalette quantizes one global palette over all montage frames, with a
// transparent entry pinned at index 0.
func buildPalette(frames []*image.RGBA, colors int) color.Palette {
	composite := image.NewRGBA(frames[0].Bounds())
	for _, frame := range frames {
		draw.Draw(composite, composite.Bounds(), frame, frame.Bounds().Min, draw.Over)
	}

	q := quantize.MedianCutQuantizer{}
	raw := q.Quantize(make([]color.Color, 0, colors), composite)

	pal := color.Palette{color.RGBA{}}
	for _, c := range raw {
		if len(pal) >= colors {
			break
		}
		pal = append(pal, c)
	}
	return pal
}

// toPaletted maps a frame onto the shared palette. Fully transparent pixels
// map to index 0; everything else is matched opaque so the transparent
// entry never captures dark colors.
func toPaletted(src *image.RGBA, pal color.Palette) *image.Paletted {
	dst := image.NewPaletted(src.Bounds(), pal)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sOff := (y - b.Min.Y) * src.Stride
		dOff := (y - b.Min.Y) * dst.Stride
		for x := 0; x < b.Dx(); x++ {
			if src.Pix[sOff+3] == 0 {
				dst.Pix[dOff+x] = 0
			} else {
				dst.Pix[dOff+x] = uint8(pal.Index(color.RGBA{
					src.Pix[sOff+0], src.Pix[sOff+1], src.Pix[sOff+2], 0xFF,
				}))
			}
			sOff += 4
		}
	}
	return dst
}

// delayCS returns montage frame f's delay in GIF centiseconds. DMI delays
// are in ticks of 100ms, so a DMI delay converts at 10x.
func delayCS(icon *dmi.Icon, f, fallbackMS int) int {
	for _, state := range icon.States {
		if state.Frames > 1 && state.Delay != nil {
			return int(state.Delay[f%state.Frames] * 10)
		}
	}
	return fallbackMS / 10
}

// GIF renders the montage as an animated GIF.
func GIF(icon *dmi.Icon, opts Options) (*gif.GIF, error) {
	opts.normalize()
	if len(icon.States) == 0 {
		return nil, errNoStates
	}
	for _, state := range icon.States {
		if len(state.Images) == 0 {
			return nil, errNoStates
		}
	}

	cols, rows := montageGrid(len(icon.States))
	span := frameSpan(icon)

	frames := make([]*image.RGBA, span)
	for f := 0; f < span; f++ {
		frames[f] = scaleFrame(composeFrame(icon, f, cols, rows, opts.Gutter), opts.Scale)
	}

	pal := buildPalette(frames, opts.Colors)

	out := &gif.GIF{LoopCount: 0}
	for f, frame := range frames {
		out.Image = append(out.Image, toPaletted(frame, pal))
		out.Delay = append(out.Delay, delayCS(icon, f, opts.DelayMS))
		out.Disposal = append(out.Disposal, gif.DisposalBackground)
	}
	return out, nil
}

// Encode renders the montage and writes it as a GIF stream.
func Encode(w io.Writer, icon *dmi.Icon, opts Options) error {
	g, err := GIF(icon, opts)
	if err != nil {
		return err
	}
	return gif.EncodeAll(w, g)
}
