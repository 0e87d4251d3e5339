package main

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// SeriesStyle customizes the line drawn for one Program.
type SeriesStyle struct {
	Program string
	Label   string
	Color   color.Color
	Shape   draw.GlyphDrawer
	Dashed  bool
	// AnnotationOffset moves the point annotations vertically.
	AnnotationOffset vg.Length
}

var defaultShapes = []draw.GlyphDrawer{
	draw.CircleGlyph{},
	draw.SquareGlyph{},
	draw.TriangleGlyph{},
	draw.PyramidGlyph{},
}

// TrendRenderer draws Table D rows of one Task as a line per Program over Count.
type TrendRenderer struct {
	Title  string
	Config ChartConfig
	Task   string
	Metric Metric
	Series []SeriesStyle
	// Annotation is the format of the per-point value text; empty disables it.
	Annotation  string
	SortByCount bool
}

func (r *TrendRenderer) Name() string       { return r.Title }
func (r *TrendRenderer) Output() string     { return r.Config.Output }
func (r *TrendRenderer) Chart() ChartConfig { return r.Config }

type trendSeries struct {
	Program string
	Rows    []ScalingResult
}

// splitSeries selects rows whose Task matches exactly and splits them by Program.
func splitSeries(rows []ScalingResult, task string, sortByCount bool) []trendSeries {
	series := make([]trendSeries, 0)
	index := make(map[string]int)
	for _, row := range rows {
		if row.Task != task {
			continue
		}
		i, ok := index[row.Program]
		if !ok {
			i = len(series)
			index[row.Program] = i
			series = append(series, trendSeries{Program: row.Program})
		}
		series[i].Rows = append(series[i].Rows, row)
	}
	if sortByCount {
		for i := range series {
			slices.SortStableFunc(series[i].Rows, func(a, b ScalingResult) int {
				return a.Count - b.Count
			})
		}
	}
	return series
}

func (r *TrendRenderer) seriesStyle(program string, i int, style Style) SeriesStyle {
	for _, s := range r.Series {
		if s.Program == program {
			if s.Label == "" {
				s.Label = program
			}
			if s.Color == nil {
				s.Color = style.color(i)
			}
			if s.Shape == nil {
				s.Shape = defaultShapes[i%len(defaultShapes)]
			}
			return s
		}
	}
	offset := vg.Points(10)
	if i%2 == 1 {
		offset = vg.Points(-15)
	}
	return SeriesStyle{
		Program:          program,
		Label:            program,
		Color:            style.color(i),
		Shape:            defaultShapes[i%len(defaultShapes)],
		Dashed:           i%2 == 1,
		AnnotationOffset: offset,
	}
}

func (r *TrendRenderer) Plot(tables Tables, style Style) (*Figure, error) {
	p := setupPlot(r.Config, style, true)

	for i, series := range splitSeries(tables.Scaling, r.Task, r.SortByCount) {
		s := r.seriesStyle(series.Program, i, style)

		xys := make(plotter.XYs, 0, len(series.Rows))
		for _, row := range series.Rows {
			y := row.Value(r.Metric)
			if math.IsNaN(y) || math.IsInf(y, 0) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(row.Count), Y: y})
		}
		if len(xys) == 0 {
			Logger.Debugf("%v: series %v has no plottable points", r.Title, series.Program)
			continue
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build series %v", series.Program)
		}
		line.Color = s.Color
		line.Width = vg.Points(2.5)
		if s.Dashed {
			line.Dashes = []vg.Length{vg.Points(7), vg.Points(3)}
		}
		points.Shape = s.Shape
		points.Color = s.Color
		points.Radius = vg.Points(4)
		p.Add(line, points)
		p.AddLegend(s.Label, line, points)

		if r.Annotation == "" {
			continue
		}
		texts := make([]string, len(xys))
		for j, xy := range xys {
			texts[j] = fmt.Sprintf(r.Annotation, xy.Y)
		}
		labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build annotations for %v", series.Program)
		}
		labels.Offset = vg.Point{Y: s.AnnotationOffset}
		for j := range labels.TextStyle {
			labels.TextStyle[j].XAlign = text.XCenter
			labels.TextStyle[j].Font.Size = style.FontSize * 0.8
		}
		p.Add(labels)
	}

	finishPlot(p, r.Config)
	return p, nil
}
