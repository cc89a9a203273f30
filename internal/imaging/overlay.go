package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

// OverlayOptions controls how RenderOverlay draws a sequenced image.
type OverlayOptions struct {
	// LineWidth is the stroke width for boxes and the reference line. Default 2.
	LineWidth float64

	// LineColor is the reference line color as hex. Default "#FF0000".
	LineColor string

	// DefaultBoxColor is used when a box carries no parseable color.
	DefaultBoxColor string

	// Scale resizes the rendered image (e.g., 0.5 to halve it). Default 1.0.
	Scale float64
}

// DefaultOverlayOptions returns the options used by the folder runner.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		LineWidth:       2,
		LineColor:       "#FF0000",
		DefaultBoxColor: "#FFFF00",
		Scale:           1.0,
	}
}

func (o *OverlayOptions) applyDefaults() {
	d := DefaultOverlayOptions()
	if o.LineWidth <= 0 {
		o.LineWidth = d.LineWidth
	}
	if o.LineColor == "" {
		o.LineColor = d.LineColor
	}
	if o.DefaultBoxColor == "" {
		o.DefaultBoxColor = d.DefaultBoxColor
	}
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
}

// RenderOverlay draws a sequencing result on top of img.
//
// Every well-formed box is outlined as a rectangle rotated about its center by
// its angle, in the box's label color. Boxes with an unknown label are
// outlined too. The center box is labelled with its
// label name. For a usable result the reference line is drawn and each
// landmark is labelled with its label name and ordinal (e.g. "MTD3").
//
// The source image is not modified. When opts.Scale differs from 1 the
// rendered image is resized with Lanczos resampling.
func RenderOverlay(img image.Image, res landmark.Result, opts OverlayOptions) (image.Image, error) {
	opts.applyDefaults()

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("cannot render overlay on empty image")
	}

	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(opts.LineWidth)

	fallback := ParseColor(opts.DefaultBoxColor, color.RGBA{255, 255, 0, 255})
	for _, b := range res.Detections.Outlined() {
		drawRotatedBox(dc, b, ParseColor(b.Color, fallback))
	}
	for _, b := range res.Detections.Centers {
		drawLabel(dc, b.Label, b.X, b.Y)
	}

	if res.Usable && res.Line != nil {
		dc.SetColor(ParseColor(opts.LineColor, color.RGBA{255, 0, 0, 255}))
		dc.DrawLine(res.Line.Start.X, res.Line.Start.Y, res.Line.End.X, res.Line.End.Y)
		dc.Stroke()
	}

	if res.Usable && res.Sequencing != nil {
		for _, b := range res.Detections.Landmarks {
			if n, ok := res.Sequencing.Ordinal(b.ID); ok {
				drawLabel(dc, fmt.Sprintf("%s%d", b.Label, n), b.X, b.Y)
			}
		}
	}

	out := dc.Image()
	if opts.Scale != 1.0 {
		w := int(float64(bounds.Dx()) * opts.Scale)
		h := int(float64(bounds.Dy()) * opts.Scale)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %.3f too small for %dx%d image", opts.Scale, bounds.Dx(), bounds.Dy())
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}
	return out, nil
}

func drawRotatedBox(dc *gg.Context, b landmark.OrientedBox, c color.Color) {
	dc.Push()
	dc.RotateAbout(gg.Radians(b.Angle), b.X, b.Y)
	dc.DrawRectangle(b.X-b.Width/2, b.Y-b.Height/2, b.Width, b.Height)
	dc.SetColor(c)
	dc.Stroke()
	dc.Pop()
}

// drawLabel writes white text centered on (x, y) over a one pixel dark shadow.
func drawLabel(dc *gg.Context, text string, x, y float64) {
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(text, x+1, y+1, 0.5, 0.5)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// ParseColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA" (leading '#' optional).
// Unparseable input returns fallback.
func ParseColor(s string, fallback color.Color) color.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	if len(s) == 9 {
		c, err := colorful.Hex(s[:7])
		if err != nil {
			return fallback
		}
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return fallback
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
