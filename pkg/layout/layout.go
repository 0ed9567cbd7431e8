// Package layout derives the terminal grid from the presentation surface:
// surface pixels divided by the glyph cell size and the user scale factor.
// It also owns the scale steps and the font selector.
package layout

import (
	"fmt"
	"math"

	"jterm/pkg/pty"
)

// CellPixels is the edge length of one glyph cell at scale 1.
const CellPixels = 8

// Scale limits and step.
const (
	MinScale     Scale = 0.5
	MaxScale     Scale = 4.0
	DefaultScale Scale = 1.0
	ScaleStep    Scale = 0.25
)

// Scale is the presentation zoom factor.
type Scale float64

// Step returns the scale moved by n steps, clamped to [MinScale, MaxScale].
func (s Scale) Step(n int) Scale {
	next := s + Scale(n)*ScaleStep
	// keep values on the step grid despite float drift
	next = Scale(math.Round(float64(next/ScaleStep))) * ScaleStep
	return next.Clamp()
}

// Clamp limits s to [MinScale, MaxScale].
func (s Scale) Clamp() Scale {
	if s < MinScale || math.IsNaN(float64(s)) {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Validate reports whether s is usable as configured.
func (s Scale) Validate() error {
	if math.IsNaN(float64(s)) || s < MinScale || s > MaxScale {
		return fmt.Errorf("scale %.2f not in [%.2f, %.2f]", float64(s), float64(MinScale), float64(MaxScale))
	}
	return nil
}

// GridSize computes how many cells fit on a surface of width×height pixels.
// Both dimensions are at least one.
func GridSize(width, height int, scale Scale) pty.TerminalSize {
	cell := float64(CellPixels) * float64(scale.Clamp())
	size := pty.TerminalSize{
		Cols: int(float64(width) / cell),
		Rows: int(float64(height) / cell),
	}
	if size.Cols < 1 {
		size.Cols = 1
	}
	if size.Rows < 1 {
		size.Rows = 1
	}
	return size
}

// SurfaceFor is the inverse of GridSize at scale 1, for back ends whose
// native unit is the character cell.
func SurfaceFor(cols, rows int) (width, height int) {
	return cols * CellPixels, rows * CellPixels
}
