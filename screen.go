package main

import (
	"github.com/veandco/go-sdl2/sdl"
)

/// DrawScreen renders the CHIP-8 video memory at x, y with each pixel
/// drawn as a scale by scale cell.
///
func DrawScreen(x, y, scale int32) {
	d := VM.Display()

	// the background color for the screen
	Renderer.SetDrawColor(143, 145, 133, 255)
	Renderer.FillRect(&sdl.Rect{
		X: x,
		Y: y,
		W: int32(d.Cols()) * scale,
		H: int32(d.Rows()) * scale,
	})

	// set the pixel color
	Renderer.SetDrawColor(17, 29, 43, 255)

	for px, py := range d.Pixels() {
		Renderer.FillRect(&sdl.Rect{
			X: x + int32(px)*scale,
			Y: y + int32(py)*scale,
			W: scale,
			H: scale,
		})
	}
}
