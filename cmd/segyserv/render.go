package main

import (
	"image"
	"image/color"

	"github.com/llgcode/draw2d/draw2dimg"
	xdraw "golang.org/x/image/draw"
)

// renderRaster draws a variable-density plot: one column per trace, one row
// per sample, amplitude mapped to a blue-white-red ramp, then scaled to the
// requested size.
func renderRaster(traces [][]float32, width, height int) image.Image {
	if len(traces) == 0 || len(traces[0]) == 0 {
		return image.NewRGBA(image.Rect(0, 0, width, height))
	}

	ns := len(traces[0])
	raw := image.NewRGBA(image.Rect(0, 0, len(traces), ns))

	peak := float32(0)
	for _, trace := range traces {
		for _, s := range trace {
			if a := abs32(s); a > peak {
				peak = a
			}
		}
	}
	if peak == 0 {
		peak = 1
	}

	for x, trace := range traces {
		for y, s := range trace {
			raw.Set(x, y, amplitudeColor(s/peak))
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(out, out.Bounds(), raw, raw.Bounds(), xdraw.Src, nil)
	return out
}

// renderWiggle draws a single trace as the classic wiggle line, time running
// left to right, zero amplitude on the vertical center.
func renderWiggle(trace []float32, width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}

	if len(trace) == 0 {
		return img
	}

	peak := float32(0)
	for _, s := range trace {
		if a := abs32(s); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		peak = 1
	}

	gc := draw2dimg.NewGraphicContext(img)

	// zero line
	gc.SetStrokeColor(color.RGBA{0xC0, 0xC0, 0xC0, 0xFF})
	gc.SetLineWidth(1)
	gc.BeginPath()
	gc.MoveTo(0, float64(height)/2)
	gc.LineTo(float64(width), float64(height)/2)
	gc.Stroke()

	span := len(trace) - 1
	if span == 0 {
		span = 1
	}

	gc.SetStrokeColor(color.RGBA{0x20, 0x20, 0x20, 0xFF})
	gc.SetLineWidth(1.5)
	gc.BeginPath()
	for i, s := range trace {
		x := float64(i) / float64(span) * float64(width)
		y := (1 - float64(s/peak)) * float64(height) / 2
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
	gc.Stroke()

	return img
}

// amplitudeColor maps a normalized amplitude in [-1, 1] onto a
// blue-white-red ramp.
func amplitudeColor(a float32) color.RGBA {
	if a > 1 {
		a = 1
	}
	if a < -1 {
		a = -1
	}
	fade := uint8(255 * (1 - abs32(a)))
	if a >= 0 {
		return color.RGBA{0xFF, fade, fade, 0xFF}
	}
	return color.RGBA{fade, fade, 0xFF, 0xFF}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
