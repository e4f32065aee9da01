package genint

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/mazznoer/colorgrad"
)

// Chart geometry, in pixels.
const (
	chartMargin = 8
	chartColW   = 3
	chartRowH   = 3
	chartCurveH = 100
	chartGap    = 8
)

// WriteChart renders a run's history as a PNG: an allele-frequency heatmap
// with one column per generation and one row per bit (most significant on
// top, matching display order), above best- and mean-fitness curves.
func WriteChart(w io.Writer, history []GenerationStats) error {
	if len(history) == 0 {
		return fmt.Errorf("no history to chart")
	}

	cols := len(history)
	width := chartMargin*2 + cols*chartColW
	height := chartMargin*2 + GeneCount*chartRowH + chartGap + chartCurveH

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	grad := colorgrad.Viridis()

	for col, stats := range history {
		x0 := chartMargin + col*chartColW
		for row := 0; row < GeneCount; row++ {
			cell := grad.At(stats.BitFrequency[GeneCount-1-row])
			y0 := chartMargin + row*chartRowH
			for dy := 0; dy < chartRowH; dy++ {
				for dx := 0; dx < chartColW; dx++ {
					img.Set(x0+dx, y0+dy, cell)
				}
			}
		}
	}

	curveTop := chartMargin + GeneCount*chartRowH + chartGap

	// Mean never exceeds Best within a generation, so the two extremes
	// bound both series.
	minV, maxV := history[0].Mean, history[0].Best
	for _, stats := range history {
		if stats.Mean < minV {
			minV = stats.Mean
		}
		if stats.Best > maxV {
			maxV = stats.Best
		}
	}
	span := maxV - minV
	if span == 0 {
		span = 1
	}

	plotY := func(v float64) int {
		scale := (v - minV) / span
		return curveTop + chartCurveH - 1 - int(scale*float64(chartCurveH-1))
	}

	drawSeries := func(value func(GenerationStats) float64, c color.Color) {
		prevY := 0
		for col, stats := range history {
			x0 := chartMargin + col*chartColW
			y := plotY(value(stats))

			for dx := 0; dx < chartColW; dx++ {
				img.Set(x0+dx, y, c)
			}

			// Join to the previous column so steep moves stay connected.
			if col > 0 {
				lo, hi := y, prevY
				if lo > hi {
					lo, hi = hi, lo
				}
				for yy := lo; yy <= hi; yy++ {
					img.Set(x0, yy, c)
				}
			}
			prevY = y
		}
	}

	drawSeries(func(s GenerationStats) float64 { return s.Best }, grad.At(0.9))
	drawSeries(func(s GenerationStats) float64 { return s.Mean }, grad.At(0.2))

	return png.Encode(w, img)
}
