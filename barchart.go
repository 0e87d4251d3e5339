// Derived from https://github.com/gonum/plot/blob/v0.16.0/plotter/barchart.go:
// Copyright ©2015 The Gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A barChart draws one bar per point, centered on the point's X category
// and shifted by Offset so several charts can share a category slot.
type barChart struct {
	// The category (X) and height (Y) of each bar.
	Bars plotter.XYs

	// Errors holds an optional error bar per bar. A zero entry draws nothing.
	Errors plotter.YErrors

	// Labels is drawn above each bar (or its error bar).
	Labels []string

	LabelOffset vg.Point

	Width vg.Length

	Color color.Color

	draw.LineStyle

	ErrorStyle draw.LineStyle

	LabelStyle text.Style

	Offset vg.Length
}

func newBarChart(bars plotter.XYs, width vg.Length) (*barChart, error) {
	if width <= 0 {
		return nil, errors.New("plotter: width parameter was not positive")
	}
	barsCopy, err := plotter.CopyXYs(bars)
	if err != nil {
		return nil, err
	}
	return &barChart{
		Bars:       barsCopy,
		Width:      width,
		Color:      color.Black,
		LineStyle:  plotter.DefaultLineStyle,
		ErrorStyle: plotter.DefaultLineStyle,
		LabelStyle: text.Style{
			Font:    font.From(plotter.DefaultFont, plotter.DefaultFontSize),
			XAlign:  text.XCenter,
			Handler: plot.DefaultTextHandler,
		},
	}, nil
}

func (b *barChart) errorAt(i int) (low, high float64, ok bool) {
	if i >= len(b.Errors) {
		return 0, 0, false
	}
	low, high = math.Abs(b.Errors[i].Low), math.Abs(b.Errors[i].High)
	return low, high, low != 0 || high != 0
}

// top is the highest value drawn for the ith bar.
func (b *barChart) top(i int) float64 {
	y := b.Bars[i].Y
	if _, high, ok := b.errorAt(i); ok {
		y += high
	}
	return math.Max(y, 0)
}

// Plot implements the plot.Plotter interface.
func (b *barChart) Plot(c draw.Canvas, plt *plot.Plot) {
	trCat, trVal := plt.Transforms(&c)

	for i, bar := range b.Bars {
		cat := trCat(bar.X)
		if !c.ContainsX(cat) {
			continue
		}
		cat += b.Offset
		catMin := cat - b.Width/2
		catMax := catMin + b.Width
		valMin := trVal(0)
		valMax := trVal(bar.Y)

		pts := []vg.Point{
			{X: catMin, Y: valMin},
			{X: catMin, Y: valMax},
			{X: catMax, Y: valMax},
			{X: catMax, Y: valMin},
		}
		c.FillPolygon(b.Color, c.ClipPolygonY(pts))

		pts = append(pts, vg.Point{X: catMin, Y: valMin})
		c.StrokeLines(b.LineStyle, c.ClipLinesY(pts)...)

		labelY := valMax
		if valMin > labelY {
			labelY = valMin
		}
		if low, high, ok := b.errorAt(i); ok {
			lo := trVal(bar.Y - low)
			hi := trVal(bar.Y + high)
			c.StrokeLines(b.ErrorStyle, c.ClipLinesY([]vg.Point{{X: cat, Y: lo}, {X: cat, Y: hi}})...)
			for _, y := range []vg.Length{lo, hi} {
				if c.ContainsY(y) {
					c.StrokeLine2(b.ErrorStyle, cat-b.Width/4, y, cat+b.Width/4, y)
				}
			}
			if hi > labelY {
				labelY = hi
			}
		}

		if i < len(b.Labels) {
			pt := vg.Point{X: cat + b.LabelOffset.X, Y: labelY + b.LabelOffset.Y}
			if c.ContainsY(pt.Y) {
				c.FillText(b.LabelStyle, pt, b.Labels[i])
			}
		}
	}
}

// DataRange implements the plot.DataRanger interface. The value range
// always includes zero since bars grow from the axis.
func (b *barChart) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	ymin, ymax = 0, 0
	for i, bar := range b.Bars {
		xmin = math.Min(xmin, bar.X)
		xmax = math.Max(xmax, bar.X)
		ymin = math.Min(ymin, bar.Y)
		if low, _, ok := b.errorAt(i); ok {
			ymin = math.Min(ymin, bar.Y-low)
		}
		ymax = math.Max(ymax, b.top(i))
	}
	return xmin, xmax, ymin, ymax
}

// GlyphBoxes implements the GlyphBoxer interface so that the offset bars
// and their labels stay inside the plot area.
func (b *barChart) GlyphBoxes(plt *plot.Plot) []plot.GlyphBox {
	boxes := make([]plot.GlyphBox, len(b.Bars)+len(b.Labels))
	for i, bar := range b.Bars {
		boxes[i].X = plt.X.Norm(bar.X)
		boxes[i].Rectangle = vg.Rectangle{
			Min: vg.Point{X: b.Offset - b.Width/2},
			Max: vg.Point{X: b.Offset + b.Width/2},
		}
	}
	for i, label := range b.Labels {
		if i >= len(b.Bars) {
			break
		}
		box := &boxes[len(b.Bars)+i]
		rect := b.LabelStyle.Rectangle(label)
		box.X = plt.X.Norm(b.Bars[i].X)
		box.Y = plt.Y.Norm(b.top(i))
		box.Rectangle = vg.Rectangle{
			Min: vg.Point{X: b.Offset + rect.Min.X + b.LabelOffset.X, Y: b.LabelOffset.Y},
			Max: vg.Point{X: b.Offset + rect.Max.X + b.LabelOffset.X, Y: b.LabelOffset.Y + rect.Max.Y},
		}
	}
	return boxes
}

// Thumbnail fulfills the plot.Thumbnailer interface.
func (b *barChart) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(b.Color, c.ClipPolygonY(pts))

	pts = append(pts, vg.Point{X: c.Min.X, Y: c.Min.Y})
	c.StrokeLines(b.LineStyle, c.ClipLinesY(pts)...)
}
