package raster

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Format is a preview image encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatTGA  Format = "tga"
)

// ParseFormat accepts "webp" or "tga" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatWebP, FormatTGA:
		return f, nil
	case "":
		return FormatWebP, nil
	}
	return "", fmt.Errorf("raster: unknown preview format %q", s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == "" {
		f = FormatWebP
	}
	return "." + string(f)
}

// Encode writes img in the given format. WebP output is lossless.
func Encode(w io.Writer, img image.Image, f Format) error {
	var err error
	switch f {
	case FormatWebP, "":
		err = nativewebp.Encode(w, img, nil)
	case FormatTGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("raster: unknown preview format %q", string(f))
	}
	if err != nil {
		return fmt.Errorf("raster: encode %s: %w", f, err)
	}
	return nil
}
