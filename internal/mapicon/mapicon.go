// Package mapicon renders the small decorative "map view" icon that can be
// appended to an icon set: a solid fill with optional borders and a short
// text label. It is a leaf helper, independent of the autotiling engine.
package mapicon

import (
	"fmt"
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// textMargin keeps labels off the border pixels.
const textMargin = 3

type Position string

const (
	TopLeft     Position = "top_left"
	TopRight    Position = "top_right"
	BottomLeft  Position = "bottom_left"
	BottomRight Position = "bottom_right"
	Center      Position = "center"
)

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDotted BorderStyle = "dotted"
)

type Border struct {
	Style BorderStyle `yaml:"style"`
	Color Color       `yaml:"color"`
}

// Config is the map_icon configuration block.
type Config struct {
	StateName   string    `yaml:"icon_state_name"`
	BaseColor   *Color    `yaml:"base_color"`
	Text        string    `yaml:"text"`
	TextColor   *Color    `yaml:"text_color"`
	TextPos     Position  `yaml:"text_position"`
	TextAlign   Alignment `yaml:"text_alignment"`
	InnerBorder *Border   `yaml:"inner_border"`
	OuterBorder *Border   `yaml:"outer_border"`
}

func (c *Config) baseColor() Color {
	if c.BaseColor != nil {
		return *c.BaseColor
	}
	return White()
}

func (c *Config) textColor() Color {
	if c.TextColor != nil {
		return *c.TextColor
	}
	return Black()
}

func (c *Config) outerBorder() *Border {
	if c.OuterBorder != nil {
		return c.OuterBorder
	}
	return &Border{Style: BorderSolid, Color: Black()}
}

// Generate renders a width x height map icon.
func Generate(width, height int, cfg *Config) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	fillRect(img, 0, 0, width, height, cfg.baseColor())

	if cfg.Text != "" {
		pos := cfg.TextPos
		if pos == "" {
			pos = BottomRight
		}
		align := cfg.TextAlign
		if align == "" {
			align = AlignRight
		}
		block, err := renderTextBlock(cfg.Text, align, cfg.textColor())
		if err != nil {
			return nil, err
		}
		tb := block.Bounds()
		if tb.Dx() > width-2*textMargin {
			return nil, fmt.Errorf("map icon text %q is %dpx wide, icon fits %d",
				cfg.Text, tb.Dx(), width-2*textMargin)
		}
		if tb.Dy() > height-2*textMargin {
			return nil, fmt.Errorf("map icon text %q is %dpx tall, icon fits %d",
				cfg.Text, tb.Dy(), height-2*textMargin)
		}
		var tx, ty int
		switch pos {
		case TopLeft:
			tx, ty = textMargin, textMargin
		case TopRight:
			tx, ty = width-tb.Dx()-textMargin, textMargin
		case BottomLeft:
			tx, ty = textMargin, height-tb.Dy()-textMargin
		case Center:
			tx, ty = (width-tb.Dx())/2, (height-tb.Dy())/2
		default:
			tx, ty = width-tb.Dx()-textMargin, height-tb.Dy()-textMargin
		}
		draw.Draw(img, image.Rect(tx, ty, tx+tb.Dx(), ty+tb.Dy()), block, tb.Min, draw.Over)
	}

	if border := cfg.outerBorder(); border != nil {
		drawBorder(img, 0, 0, width, height, border)
	}
	if cfg.InnerBorder != nil {
		drawBorder(img, 1, 1, width-2, height-2, cfg.InnerBorder)
	}
	return img, nil
}

func fillRect(img *image.NRGBA, x, y, w, h int, c Color) {
	nc := c.NRGBA()
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			img.SetNRGBA(xx, yy, nc)
		}
	}
}

func drawBorder(img *image.NRGBA, x, y, w, h int, border *Border) {
	c := border.Color
	switch border.Style {
	case BorderDotted:
		for xx := x; xx < x+w; xx++ {
			if xx%2 == 0 {
				img.SetNRGBA(xx, y, c.NRGBA())
			} else {
				img.SetNRGBA(xx, y+h-1, c.NRGBA())
			}
		}
		for yy := y; yy < y+h; yy++ {
			if yy%2 == 0 {
				img.SetNRGBA(x, yy, c.NRGBA())
			} else {
				img.SetNRGBA(x+w-1, yy, c.NRGBA())
			}
		}
	default:
		fillRect(img, x, y, w, 1, c)
		fillRect(img, x, y+h-1, w, 1, c)
		fillRect(img, x, y, 1, h, c)
		fillRect(img, x+w-1, y, 1, h, c)
	}
}

// renderTextBlock rasterizes a label, one word per line, lines aligned
// within the longest one.
func renderTextBlock(text string, align Alignment, c Color) (*image.NRGBA, error) {
	face := basicfont.Face7x13
	words := splitWords(text)
	lineHeight := face.Height
	widest := 0
	widths := make([]int, len(words))
	for i, word := range words {
		widths[i] = font.MeasureString(face, word).Ceil()
		if widths[i] > widest {
			widest = widths[i]
		}
	}
	block := image.NewNRGBA(image.Rect(0, 0, widest, lineHeight*len(words)))
	src := image.NewUniform(c.NRGBA())
	for i, word := range words {
		var x int
		switch align {
		case AlignLeft:
			x = 0
		case AlignCenter:
			x = (widest - widths[i]) / 2
		default:
			x = widest - widths[i]
		}
		d := font.Drawer{
			Dst:  block,
			Src:  src,
			Face: face,
			Dot: fixed.P(
				x,
				i*lineHeight+face.Ascent,
			),
		}
		d.DrawString(word)
	}
	return block, nil
}

func splitWords(text string) []string {
	var words []string
	current := ""
	for _, r := range text {
		if r == ' ' {
			if current != "" {
				words = append(words, current)
				current = ""
			}
			continue
		}
		current += string(r)
	}
	if current != "" {
		words = append(words, current)
	}
	if len(words) == 0 {
		words = []string{""}
	}
	return words
}
