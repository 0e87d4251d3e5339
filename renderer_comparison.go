package main

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ComparisonRenderer draws Table C as bars grouped by Task, one bar per Program.
type ComparisonRenderer struct {
	Title       string
	Config      ChartConfig
	Metric      Metric
	LabelFormat string
}

func (r *ComparisonRenderer) Name() string       { return r.Title }
func (r *ComparisonRenderer) Output() string     { return r.Config.Output }
func (r *ComparisonRenderer) Chart() ChartConfig { return r.Config }

// barGroup is a single Program/Task cell; duplicate rows are averaged.
type barGroup struct {
	Mean   float64
	Margin float64
}

type comparison struct {
	Categories []string
	Programs   []string
	Cells      map[string]map[string]barGroup
	// Negative is set when any value is below zero.
	Negative bool
}

// groupComparison keeps the first-appearance order of tasks and programs.
func groupComparison(rows []TaskResult, metric Metric) comparison {
	var result comparison
	samples := make(map[string]map[string][]float64)
	seenTask := make(map[string]bool)
	for _, row := range rows {
		if !seenTask[row.Task] {
			seenTask[row.Task] = true
			result.Categories = append(result.Categories, row.Task)
		}
		byTask, ok := samples[row.Program]
		if !ok {
			byTask = make(map[string][]float64)
			samples[row.Program] = byTask
			result.Programs = append(result.Programs, row.Program)
		}
		value := row.Value(metric)
		if math.IsNaN(value) {
			continue
		}
		if value < 0 {
			result.Negative = true
		}
		byTask[row.Task] = append(byTask[row.Task], value)
	}

	result.Cells = make(map[string]map[string]barGroup, len(samples))
	for program, byTask := range samples {
		cells := make(map[string]barGroup, len(byTask))
		for task, values := range byTask {
			cells[task] = aggregate(values)
		}
		result.Cells[program] = cells
	}
	return result
}

// aggregate returns the mean and the half width of its 95% confidence interval.
func aggregate(values []float64) barGroup {
	if len(values) == 1 {
		return barGroup{Mean: values[0]}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return barGroup{Mean: mean, Margin: 1.96 * stat.StdErr(std, float64(len(values)))}
}

func (r *ComparisonRenderer) Plot(tables Tables, style Style) (*Figure, error) {
	groups := groupComparison(tables.Tasks, r.Metric)
	p := setupPlot(r.Config, style, false)
	if len(groups.Categories) > 0 {
		p.NominalX(groups.Categories...)
	}

	charts, err := r.barCharts(groups, style)
	if err != nil {
		return nil, err
	}
	for i, bc := range charts {
		if len(bc.Bars) > 0 {
			p.Add(bc)
		}
		p.AddLegend(groups.Programs[i], bc)
	}

	// half a slot of margin on both sides so the outer bars stay on the axes
	if len(groups.Categories) > 0 {
		p.X.Min = -0.5
		p.X.Max = float64(len(groups.Categories)) - 0.5
	}
	if !groups.Negative && p.Y.Min < 0 {
		p.Y.Min = 0
	}

	finishPlot(p, r.Config)
	return p, nil
}

// barCharts builds one chart per program, offset so each category shows
// the programs side by side.
func (r *ComparisonRenderer) barCharts(groups comparison, style Style) ([]*barChart, error) {
	index := make(map[string]int, len(groups.Categories))
	for i, task := range groups.Categories {
		index[task] = i
	}

	step := style.BarWidth + style.BarSpacing
	groupWidth := step * vg.Length(len(groups.Programs)-1)

	charts := make([]*barChart, 0, len(groups.Programs))
	for i, program := range groups.Programs {
		cells := groups.Cells[program]
		var (
			bars   plotter.XYs
			errs   plotter.YErrors
			labels []string
		)
		for _, task := range groups.Categories {
			cell, ok := cells[task]
			if !ok {
				continue
			}
			bars = append(bars, plotter.XY{X: float64(index[task]), Y: cell.Mean})
			errs = append(errs, struct{ Low, High float64 }{Low: cell.Margin, High: cell.Margin})
			labels = append(labels, fmt.Sprintf(r.LabelFormat, cell.Mean))
		}

		bc, err := newBarChart(bars, style.BarWidth)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to build bars for %v", program)
		}
		bc.Offset = step*vg.Length(i) - groupWidth/2
		bc.Color = style.color(i)
		bc.LineStyle.Width = 0
		bc.ErrorStyle.Width = vg.Points(1.2)
		bc.Errors = errs
		bc.Labels = labels
		bc.LabelStyle.Font.Size = style.FontSize * 0.9
		bc.LabelOffset = vg.Point{Y: vg.Points(3)}
		charts = append(charts, bc)
	}
	return charts, nil
}
