package raster

import (
	"image/color"
	"math"
)

// DrawSegment draws a round-capped segment of the given pixel width with
// depth linearly interpolated between the endpoints.
func DrawSegment(fb *FrameBuffer, x0, y0, z0, x1, y1, z1, width float64, c color.NRGBA) {
	r := width / 2
	minX := int(math.Floor(math.Min(x0, x1) - r))
	maxX := int(math.Ceil(math.Max(x0, x1) + r))
	minY := int(math.Floor(math.Min(y0, y1) - r))
	maxY := int(math.Ceil(math.Max(y0, y1) + r))
	minX, minY = max(minX, 0), max(minY, 0)
	maxX, maxY = min(maxX, fb.Width-1), min(maxY, fb.Height-1)

	dx, dy := x1-x0, y1-y0
	lenSq := dx*dx + dy*dy
	r2 := r * r

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			t := 0.0
			if lenSq > 1e-12 {
				t = ((px-x0)*dx + (py-y0)*dy) / lenSq
				t = math.Max(0, math.Min(1, t))
			}
			cx, cy := x0+t*dx, y0+t*dy
			ex, ey := px-cx, py-cy
			if ex*ex+ey*ey > r2 {
				continue
			}
			fb.Plot(x, y, z0+t*(z1-z0), c)
		}
	}
}

// DrawDisc draws a filled circle. It sits slightly in front of segments
// ending at the same point.
func DrawDisc(fb *FrameBuffer, x, y, z, radius float64, c color.NRGBA) {
	DrawSegment(fb, x, y, z+1e-6, x, y, z+1e-6, radius*2, c)
}
