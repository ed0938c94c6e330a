package raster

import (
	"image"
	"image/color"
	"math"

	"cp77-rig-tools/internal/mathutil"
	"cp77-rig-tools/internal/skeleton"
	"cp77-rig-tools/internal/viewmatrix"
)

// RenderOptions controls skeleton preview rendering.
type RenderOptions struct {
	Size        int
	Supersample int
	Camera      viewmatrix.Camera
	LineWidth   float64 // at output resolution
	JointRadius float64 // at output resolution
}

// DefaultRenderOptions returns a 256px three-quarter preview.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Size:        256,
		Supersample: 2,
		Camera:      viewmatrix.DefaultCamera(),
		LineWidth:   1.5,
		JointRadius: 2,
	}
}

// Palette for bone segments and joints.
var (
	ColorConnected = color.NRGBA{R: 90, G: 170, B: 255, A: 255}
	ColorLoose     = color.NRGBA{R: 170, G: 170, B: 180, A: 255}
	ColorHelper    = color.NRGBA{R: 255, G: 150, B: 60, A: 255}
	ColorJoint     = color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	ColorRoot      = color.NRGBA{R: 255, G: 70, B: 70, A: 255}
)

// renderMargin is the empty border in render pixels: 12 output pixels, less
// on small canvases so the drawable area never collapses.
func renderMargin(size, supersample int) int {
	return min(12, size/8) * supersample
}

// RenderSkeleton draws parent→child links and joint dots on a transparent
// canvas. Nearer geometry is drawn brighter.
func RenderSkeleton(s *skeleton.Skeleton, opts RenderOptions) *image.NRGBA {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if len(s.Bones) == 0 {
		return image.NewNRGBA(image.Rect(0, 0, opts.Size, opts.Size))
	}

	ss := float64(opts.Supersample)
	renderSize := opts.Size * opts.Supersample
	margin := renderMargin(opts.Size, opts.Supersample)

	heads := make([]mathutil.Vec3, len(s.Bones))
	for i, b := range s.Bones {
		heads[i] = b.Head
	}
	p := viewmatrix.Fit(heads, opts.Camera, renderSize, margin)

	zMin, zMax := math.Inf(1), math.Inf(-1)
	for _, z := range p.Z {
		zMin = math.Min(zMin, z)
		zMax = math.Max(zMax, z)
	}
	shade := func(c color.NRGBA, z float64) color.NRGBA {
		f := 1.0
		if zMax-zMin > 1e-9 {
			f = 0.55 + 0.45*(z-zMin)/(zMax-zMin)
		}
		return color.NRGBA{
			R: uint8(float64(c.R)*f + 0.5),
			G: uint8(float64(c.G)*f + 0.5),
			B: uint8(float64(c.B)*f + 0.5),
			A: c.A,
		}
	}

	fb := NewFrameBuffer(renderSize, renderSize)

	for _, b := range s.Bones {
		if b.Parent < 0 || b.Parent >= len(s.Bones) {
			continue
		}
		c := ColorLoose
		switch {
		case skeleton.IsHelperBone(b.Name):
			c = ColorHelper
		case b.Connected:
			c = ColorConnected
		}
		i, j := b.Parent, b.Index
		zMid := (p.Z[i] + p.Z[j]) / 2
		DrawSegment(fb, p.X[i], p.Y[i], p.Z[i], p.X[j], p.Y[j], p.Z[j], opts.LineWidth*ss, shade(c, zMid))
	}

	for _, b := range s.Bones {
		c := ColorJoint
		if b.Parent == -1 {
			c = ColorRoot
		}
		i := b.Index
		DrawDisc(fb, p.X[i], p.Y[i], p.Z[i], opts.JointRadius*ss, shade(c, p.Z[i]))
	}

	img := fb.Image()
	if opts.Supersample > 1 {
		img = Downsample(img, opts.Size)
	}
	return img
}
