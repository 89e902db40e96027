package chip8

import "iter"

const (
	/// DefaultCols is the width of the CHIP-8 display in pixels.
	///
	DefaultCols = 64

	/// DefaultRows is the height of the CHIP-8 display in pixels.
	///
	DefaultRows = 32
)

/// Display is a monochrome pixel grid. Pixels are stored as a flat
/// sequence where pixel <x,y> lives at index x + y*cols.
///
type Display struct {
	cols, rows int

	/// pixels is true for every lit pixel.
	///
	pixels []bool
}

/// NewDisplay returns a cleared display of the given dimensions.
///
func NewDisplay(cols, rows int) *Display {
	return &Display{
		cols:   cols,
		rows:   rows,
		pixels: make([]bool, cols*rows),
	}
}

// Cols returns the display width.
func (d *Display) Cols() int {
	return d.cols
}

// Rows returns the display height.
func (d *Display) Rows() int {
	return d.rows
}

/// SetPixel toggles the pixel at <x,y> and returns true if the pixel was
/// lit and is now erased. Coordinates wrap around the edge of the display
/// one time only; anything still off screen after that is clipped.
///
func (d *Display) SetPixel(x, y int) bool {
	x = wrapOnce(x, d.cols)
	y = wrapOnce(y, d.rows)

	if x < 0 || x >= d.cols || y < 0 || y >= d.rows {
		return false
	}

	p := x + y*d.cols

	d.pixels[p] = !d.pixels[p]

	return !d.pixels[p]
}

/// Pixel returns true if the pixel at <x,y> is lit.
///
func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= d.cols || y < 0 || y >= d.rows {
		return false
	}

	return d.pixels[x+y*d.cols]
}

/// Clear turns off every pixel.
///
func (d *Display) Clear() {
	clear(d.pixels)
}

/// Pixels yields the coordinates of every lit pixel, row by row.
///
func (d *Display) Pixels() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for p, lit := range d.pixels {
			if lit && !yield(p%d.cols, p/d.cols) {
				return
			}
		}
	}
}

// wrapOnce moves n back onto [0, size) by at most one size step.
func wrapOnce(n, size int) int {
	if n >= size {
		return n - size
	}
	if n < 0 {
		return n + size
	}

	return n
}

/// Screen is a read-only view of a Display.
///
type Screen struct {
	d *Display
}

// View returns a read-only view of the display.
func (d *Display) View() Screen {
	return Screen{d: d}
}

// Cols returns the display width.
func (s Screen) Cols() int {
	return s.d.cols
}

// Rows returns the display height.
func (s Screen) Rows() int {
	return s.d.rows
}

// Pixel returns true if the pixel at <x,y> is lit.
func (s Screen) Pixel(x, y int) bool {
	return s.d.Pixel(x, y)
}

// Pixels yields the coordinates of every lit pixel, row by row.
func (s Screen) Pixels() iter.Seq2[int, int] {
	return s.d.Pixels()
}
