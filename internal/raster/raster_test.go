package raster

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"cp77-rig-tools/internal/rig"
	"cp77-rig-tools/internal/skeleton"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.NRGBA{R: 255, A: 255}
var blue = color.NRGBA{B: 255, A: 255}

func TestPlotDepthTest(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	fb.Plot(1, 1, 0, red)
	fb.Plot(1, 1, -1, blue) // behind, rejected
	assert.Equal(t, []uint8{255, 0, 0, 255}, fb.Color[(1*4+1)*4:(1*4+1)*4+4])
	fb.Plot(1, 1, 2, blue)
	assert.Equal(t, []uint8{0, 0, 255, 255}, fb.Color[(1*4+1)*4:(1*4+1)*4+4])

	fb.Plot(-1, 9, 5, red) // clipped
	assert.Equal(t, 4, fb.Image().Bounds().Dx())
}

func TestDrawSegment(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	DrawSegment(fb, 2, 10, 0, 18, 10, 0, 2, red)
	img := fb.Image()
	assert.Equal(t, red, img.NRGBAAt(10, 10))
	assert.Equal(t, uint8(0), img.NRGBAAt(10, 2).A)

	// Depth interpolates: a nearer crossing segment wins at the intersection.
	DrawSegment(fb, 10, 2, 1, 10, 18, 1, 2, blue)
	assert.Equal(t, blue, fb.Image().NRGBAAt(10, 10))
}

func TestDrawDiscOverSegmentEnd(t *testing.T) {
	fb := NewFrameBuffer(20, 20)
	DrawSegment(fb, 0, 10, 0, 10, 10, 0, 2, red)
	DrawDisc(fb, 10, 10, 0, 3, blue)
	assert.Equal(t, blue, fb.Image().NRGBAAt(10, 10))
}

func TestDownsample(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+3] = 200, 255
	}
	out := Downsample(src, 4)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	c := out.NRGBAAt(2, 2)
	assert.InDelta(t, 200, int(c.R), 1)
	assert.Equal(t, uint8(255), c.A)

	assert.Same(t, src, Downsample(src, 8))
}

func renderSimple(t *testing.T) *image.NRGBA {
	t.Helper()
	d, err := rig.Load(filepath.Join("..", "rig", "testdata", "simple.rig.json"))
	require.NoError(t, err)
	s, err := skeleton.Build(d, skeleton.Options{})
	require.NoError(t, err)
	opts := DefaultRenderOptions()
	opts.Size = 64
	return RenderSkeleton(s, opts)
}

func TestRenderSkeleton(t *testing.T) {
	img := renderSimple(t)
	assert.Equal(t, image.Rect(0, 0, 64, 64), img.Bounds())

	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			opaque++
		}
	}
	assert.Greater(t, opaque, 0)
	assert.Less(t, opaque, 64*64/2)

	empty := RenderSkeleton(&skeleton.Skeleton{}, RenderOptions{Size: 16})
	assert.Equal(t, 16, empty.Bounds().Dx())
}

func TestRenderMarginLeavesDrawableArea(t *testing.T) {
	for _, size := range []int{1, 8, 16, 24, 25, 64, 256, 1024} {
		for ss := 1; ss <= 4; ss++ {
			render := size * ss
			m := renderMargin(size, ss)
			assert.GreaterOrEqual(t, m, 0)
			assert.Greater(t, render-2*m, render/2, "size %d supersample %d", size, ss)
		}
	}
	assert.Equal(t, 24, renderMargin(256, 2))
}

func TestRenderSkeletonSmallSize(t *testing.T) {
	d, err := rig.Load(filepath.Join("..", "rig", "testdata", "simple.rig.json"))
	require.NoError(t, err)
	s, err := skeleton.Build(d, skeleton.Options{})
	require.NoError(t, err)
	opts := DefaultRenderOptions()
	opts.Size = 16
	img := RenderSkeleton(s, opts)

	lo, hi := image.Pt(16, 16), image.Pt(-1, -1)
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if img.NRGBAAt(x, y).A > 0 {
				lo.X, lo.Y = min(lo.X, x), min(lo.Y, y)
				hi.X, hi.Y = max(hi.X, x), max(hi.Y, y)
			}
		}
	}
	// The bones spread across the canvas instead of collapsing to a point.
	assert.Greater(t, max(hi.X-lo.X, hi.Y-lo.Y), 8)
}

func TestEncodeWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, renderSimple(t), FormatWebP))
	b := buf.Bytes()
	require.Greater(t, len(b), 12)
	assert.Equal(t, "RIFF", string(b[0:4]))
	assert.Equal(t, "WEBP", string(b[8:12]))
}

func TestEncodeTGA(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, renderSimple(t), FormatTGA))
	img, err := tga.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("TGA")
	require.NoError(t, err)
	assert.Equal(t, FormatTGA, f)
	assert.Equal(t, ".tga", f.Ext())

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)

	_, err = ParseFormat("png")
	assert.Error(t, err)
	assert.Error(t, Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), Format("bmp")))
}
