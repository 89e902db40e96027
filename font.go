package main

import (
	"image"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	/// Face is the fixed-width font used for debugging, etc.
	///
	Face font.Face = basicfont.Face7x13

	/// Glyphs holds the lit points of every printable character, relative
	/// to the top-left of its cell.
	///
	Glyphs map[rune][]image.Point

	/// Advance and LineHeight are the cell size of Face in pixels.
	///
	Advance, LineHeight int
)

/// InitFont rasterizes the printable ASCII characters of Face.
///
func InitFont() {
	m := Face.Metrics()

	LineHeight = m.Height.Ceil()
	Glyphs = make(map[rune][]image.Point)

	if adv, ok := Face.GlyphAdvance('M'); ok {
		Advance = adv.Ceil()
	}

	for c := rune(33); c < 127; c++ {
		Glyphs[c] = glyphPoints(Face, c, m.Ascent.Ceil())
	}
}

// glyphPoints returns the lit pixels of a glyph drawn with its baseline at
// ascent.
func glyphPoints(face font.Face, c rune, ascent int) []image.Point {
	dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, ascent), c)
	if !ok {
		return nil
	}

	var points []image.Point

	for y := range dr.Dy() {
		for x := range dr.Dx() {
			if _, _, _, a := mask.At(maskp.X+x, maskp.Y+y).RGBA(); a >= 0x8000 {
				points = append(points, image.Pt(dr.Min.X+x, dr.Min.Y+y))
			}
		}
	}

	return points
}

/// DrawText using the current draw color.
///
func DrawText(s string, x, y int) {
	for _, c := range s {
		for _, p := range Glyphs[c] {
			Renderer.DrawPoint(int32(x+p.X), int32(y+p.Y))
		}

		// advance
		x += Advance
	}
}
