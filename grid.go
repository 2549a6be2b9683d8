package shapefit

import (
	"image"
	"image/color"
)

// Grid is a rectangular buffer of opaque RGB pixels.
//
// A Grid is used both for the target image (read-only once loaded) and for
// the canvas the shapes are committed to. Grid is not safe for concurrent
// mutation; concurrent reads are fine.
type Grid struct {
	width  int
	height int
	pix    []uint8 // RGB, 3 bytes per pixel, row-major
}

// NewGrid creates a black grid with the given dimensions.
// Negative dimensions are treated as zero.
func NewGrid(width, height int) *Grid {
	width = max(width, 0)
	height = max(height, 0)
	return &Grid{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*3),
	}
}

// NewGridFilled creates a grid with every pixel set to c.
func NewGridFilled(width, height int, c RGB) *Grid {
	g := NewGrid(width, height)
	g.Fill(c)
	return g
}

// NewCanvas creates a blank canvas for target, filled with the target's
// average color. A nil target gives an empty canvas.
func NewCanvas(target *Grid) *Grid {
	if target == nil {
		return NewGrid(0, 0)
	}
	return NewGridFilled(target.width, target.height, AverageColor(target))
}

// Width returns the width of the grid.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the height of the grid.
func (g *Grid) Height() int {
	return g.height
}

// Pix returns the raw RGB pixel data.
func (g *Grid) Pix() []uint8 {
	return g.pix
}

// SameSize reports whether g and other have identical dimensions.
func (g *Grid) SameSize(other *Grid) bool {
	return g.width == other.width && g.height == other.height
}

// RGBAt returns the color of a single pixel.
// Out-of-bounds coordinates return black.
func (g *Grid) RGBAt(x, y int) RGB {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Black
	}
	i := (y*g.width + x) * 3
	return RGB{R: g.pix[i], G: g.pix[i+1], B: g.pix[i+2]}
}

// Set sets the color of a single pixel. Out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, c RGB) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	i := (y*g.width + x) * 3
	g.pix[i] = c.R
	g.pix[i+1] = c.G
	g.pix[i+2] = c.B
}

// fillSpan sets pixels [x0, x1) of row y. The span must be in bounds.
func (g *Grid) fillSpan(x0, x1, y int, c RGB) {
	row := g.pix[(y*g.width+x0)*3 : (y*g.width+x1)*3]
	for i := 0; i < len(row); i += 3 {
		row[i] = c.R
		row[i+1] = c.G
		row[i+2] = c.B
	}
}

// Fill sets every pixel to c.
func (g *Grid) Fill(c RGB) {
	for i := 0; i < len(g.pix); i += 3 {
		g.pix[i] = c.R
		g.pix[i+1] = c.G
		g.pix[i+2] = c.B
	}
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	c := &Grid{
		width:  g.width,
		height: g.height,
		pix:    make([]uint8, len(g.pix)),
	}
	copy(c.pix, g.pix)
	return c
}

// FromImage creates a grid from any image. Alpha is dropped.
func FromImage(img image.Image) *Grid {
	bounds := img.Bounds()
	g := NewGrid(bounds.Dx(), bounds.Dy())

	// Fast path for the decoders' most common output.
	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < g.height; y++ {
			src := rgba.Pix[rgba.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
			dst := g.pix[y*g.width*3:]
			for x := 0; x < g.width; x++ {
				dst[x*3] = src[x*4]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+2]
			}
		}
		return g
	}

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			g.Set(x, y, FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y)))
		}
	}
	return g
}

// ToImage converts the grid to an opaque image.RGBA.
func (g *Grid) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	for i, j := 0, 0; i < len(g.pix); i, j = i+3, j+4 {
		img.Pix[j] = g.pix[i]
		img.Pix[j+1] = g.pix[i+1]
		img.Pix[j+2] = g.pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// At implements the image.Image interface.
func (g *Grid) At(x, y int) color.Color {
	return g.RGBAt(x, y)
}

// Bounds implements the image.Image interface.
func (g *Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// ColorModel implements the image.Image interface.
func (g *Grid) ColorModel() color.Model {
	return color.RGBAModel
}
