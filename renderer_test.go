package main

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

func testTables(t *testing.T) Tables {
	t.Helper()
	dir := t.TempDir()
	tables, err := LoadTables(
		&DatasetTasks{File: writeFixture(t, dir, "tasks.csv", fixtureTasks)},
		&DatasetScaling{File: writeFixture(t, dir, "scaling.csv", fixtureScaling)},
	)
	require.Nil(t, err)
	return tables
}

func rendererByTitle(t *testing.T, title string) Renderer {
	t.Helper()
	for _, renderer := range DefaultConfig("T").Renderers() {
		if renderer.Name() == title {
			return renderer
		}
	}
	t.Fatalf("no renderer %q", title)
	return nil
}

func TestGroupComparison(t *testing.T) {
	rows := []TaskResult{
		{Task: "io", Program: "Program_B", ExecutionTime: 4},
		{Task: "cpu", Program: "Program_A", ExecutionTime: 1},
		{Task: "cpu", Program: "Program_A", ExecutionTime: 3},
		{Task: "io", Program: "Program_A", ExecutionTime: 5},
	}
	groups := groupComparison(rows, MetricExecutionTime)
	require.Equal(t, []string{"io", "cpu"}, groups.Categories)
	require.Equal(t, []string{"Program_B", "Program_A"}, groups.Programs)

	require.Equal(t, barGroup{Mean: 4}, groups.Cells["Program_B"]["io"])
	_, ok := groups.Cells["Program_B"]["cpu"]
	require.False(t, ok)

	dup := groups.Cells["Program_A"]["cpu"]
	require.InDelta(t, 2.0, dup.Mean, 1e-9)
	require.Greater(t, dup.Margin, 0.0)
}

func TestComparisonBarLabels(t *testing.T) {
	tables := testTables(t)

	timeRenderer := rendererByTitle(t, "time comparison").(*ComparisonRenderer)
	charts, err := timeRenderer.barCharts(groupComparison(tables.Tasks, timeRenderer.Metric), DefaultStyle())
	require.Nil(t, err)
	require.Len(t, charts, 2)
	require.Equal(t, []string{"12.34", "3.10", "20.50"}, charts[0].Labels)
	require.Equal(t, []string{"11.02", "2.95", "18.75"}, charts[1].Labels)
	require.Equal(t, 0.0, charts[0].Bars[0].X)
	require.Equal(t, 2.0, charts[1].Bars[2].X)

	cpuRenderer := rendererByTitle(t, "cpu comparison").(*ComparisonRenderer)
	charts, err = cpuRenderer.barCharts(groupComparison(tables.Tasks, cpuRenderer.Metric), DefaultStyle())
	require.Nil(t, err)
	require.Equal(t, "295.0%", charts[0].Labels[0])

	// one color per program, bars of a group side by side
	require.NotEqual(t, charts[0].Color, charts[1].Color)
	require.Less(t, charts[0].Offset, charts[1].Offset)
	require.Equal(t, charts[0].Offset, -charts[1].Offset)
}

func TestCPUChartsCappedAt310(t *testing.T) {
	tables := testTables(t)
	tables.Tasks = append(tables.Tasks, TaskResult{Task: "cpu", Program: "Program_C", CPUUsage: 420})
	tables.Scaling = append(tables.Scaling, ScalingResult{Program: "Program_A", Task: "cpu", Count: 16, CPUUsage: 390})

	for _, title := range []string{"cpu comparison", "cpu trend"} {
		p, err := rendererByTitle(t, title).Plot(tables, DefaultStyle())
		require.Nil(t, err)
		require.Equal(t, 0.0, p.Y.Min, title)
		require.Equal(t, 310.0, p.Y.Max, title)
	}

	p, err := rendererByTitle(t, "time comparison").Plot(tables, DefaultStyle())
	require.Nil(t, err)
	require.Less(t, p.Y.Max, 310.0)
}

func layers[T any](p *Figure) []T {
	result := make([]T, 0)
	for _, layer := range p.Layers {
		if typed, ok := layer.(T); ok {
			result = append(result, typed)
		}
	}
	return result
}

func TestCPUChartsReferenceLine(t *testing.T) {
	tables := testTables(t)

	for title, label := range map[string]string{
		"cpu comparison": "300% (Max Capacity)",
		"cpu trend":      "300% (3 Cores Max)",
	} {
		p, err := rendererByTitle(t, title).Plot(tables, DefaultStyle())
		require.Nil(t, err)
		lines := layers[*plotter.Function](p)
		require.Len(t, lines, 1, title)
		for _, x := range []float64{-0.5, 0, 3, 16} {
			require.Equal(t, 300.0, lines[0].F(x), title)
		}
		require.Contains(t, p.Entries, label, title)
	}

	p, err := rendererByTitle(t, "time comparison").Plot(tables, DefaultStyle())
	require.Nil(t, err)
	require.Empty(t, layers[*plotter.Function](p))
	require.Equal(t, []string{"Implementation", "Program_A", "Program_B"}, p.Entries)
}

func TestScalabilityAnnotations(t *testing.T) {
	p, err := rendererByTitle(t, "scalability").Plot(testTables(t), DefaultStyle())
	require.Nil(t, err)
	require.Equal(t, []string{"Program A (Processes)", "Program B (Threads)"}, p.Entries)

	labels := layers[*plotter.Labels](p)
	require.Len(t, labels, 2)
	require.Equal(t, []string{"10.1s", "7.2s", "7.9s"}, labels[0].Labels)
	require.Equal(t, vg.Points(10), labels[0].Offset.Y)
	require.Equal(t, []string{"9.8s", "6.9s", "7.0s"}, labels[1].Labels)
	require.Equal(t, vg.Points(-15), labels[1].Offset.Y)
	require.Equal(t, 2.0, labels[0].XYs[0].X)

	p, err = rendererByTitle(t, "cpu trend").Plot(testTables(t), DefaultStyle())
	require.Nil(t, err)
	require.Empty(t, layers[*plotter.Labels](p))
}

func TestComparisonAxisRange(t *testing.T) {
	p, err := rendererByTitle(t, "cpu comparison").Plot(testTables(t), DefaultStyle())
	require.Nil(t, err)
	require.Equal(t, -0.5, p.X.Min)
	require.Equal(t, 2.5, p.X.Max)

	disk := rendererByTitle(t, "disk comparison")
	zeros := Tables{Tasks: []TaskResult{
		{Task: "io", Program: "Program_A", DiskWrite: 0},
		{Task: "io", Program: "Program_B", DiskWrite: math.NaN()},
	}}
	p, err = disk.Plot(zeros, DefaultStyle())
	require.Nil(t, err)
	require.Equal(t, 0.0, p.Y.Min)
	require.Equal(t, 1.0, p.Y.Max)

	// the confidence interval of a spread cell reaches below zero
	spread := Tables{Tasks: []TaskResult{
		{Task: "io", Program: "Program_A", DiskWrite: 0},
		{Task: "io", Program: "Program_A", DiskWrite: 10},
	}}
	p, err = disk.Plot(spread, DefaultStyle())
	require.Nil(t, err)
	require.Equal(t, 0.0, p.Y.Min)
	require.Greater(t, p.Y.Max, 10.0)

	negative := Tables{Tasks: []TaskResult{{Task: "io", Program: "Program_A", DiskWrite: -4}}}
	p, err = disk.Plot(negative, DefaultStyle())
	require.Nil(t, err)
	require.Equal(t, -4.0, p.Y.Min)
}

func TestSplitSeriesFiltersTaskExactly(t *testing.T) {
	rows := []ScalingResult{
		{Program: "Program_A", Task: "cpu", Count: 4},
		{Program: "Program_A", Task: "CPU", Count: 5},
		{Program: "Program_B", Task: "io", Count: 2},
		{Program: "Program_B", Task: "cpu", Count: 1},
		{Program: "Program_A", Task: "cpu", Count: 2},
	}

	series := splitSeries(rows, "cpu", false)
	require.Len(t, series, 2)
	require.Equal(t, "Program_A", series[0].Program)
	require.Equal(t, []int{4, 2}, counts(series[0].Rows))
	require.Equal(t, "Program_B", series[1].Program)
	require.Equal(t, []int{1}, counts(series[1].Rows))

	sorted := splitSeries(rows, "cpu", true)
	require.Equal(t, []int{2, 4}, counts(sorted[0].Rows))

	require.Empty(t, splitSeries(rows, "disk", true))
}

func counts(rows []ScalingResult) []int {
	result := make([]int, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.Count)
	}
	return result
}

func TestTrendSeriesStyle(t *testing.T) {
	renderer := rendererByTitle(t, "scalability").(*TrendRenderer)
	style := DefaultStyle()

	a := renderer.seriesStyle("Program_A", 0, style)
	require.Equal(t, "Program A (Processes)", a.Label)
	require.False(t, a.Dashed)
	require.Equal(t, vg.Points(10), a.AnnotationOffset)

	b := renderer.seriesStyle("Program_B", 1, style)
	require.True(t, b.Dashed)
	require.Equal(t, vg.Points(-15), b.AnnotationOffset)

	other := renderer.seriesStyle("Program_Z", 3, style)
	require.Equal(t, "Program_Z", other.Label)
	require.Equal(t, style.color(3), other.Color)
	require.Less(t, other.AnnotationOffset, vg.Length(0))
}

func TestEmptyFilterRendersEmptyChart(t *testing.T) {
	tables := testTables(t)
	tables.Scaling = []ScalingResult{{Program: "Program_A", Task: "io", Count: 2, ExecutionTime: 3}}
	style := DefaultStyle()
	style.DPI = 30

	renderer := rendererByTitle(t, "scalability")
	p, err := renderer.Plot(tables, style)
	require.Nil(t, err)

	path := filepath.Join(t.TempDir(), "empty.png")
	require.Nil(t, savePlot(p, renderer.Chart(), style, path))
	_, err = os.Stat(path)
	require.Nil(t, err)
}

func TestSavePlotResolution(t *testing.T) {
	tables := testTables(t)
	style := DefaultStyle()
	style.DPI = 100

	renderer := rendererByTitle(t, "disk comparison")
	p, err := renderer.Plot(tables, style)
	require.Nil(t, err)

	chart := renderer.Chart()
	path := filepath.Join(t.TempDir(), "disk.png")
	require.Nil(t, os.WriteFile(path, []byte("stale"), 0o644))
	require.Nil(t, savePlot(p, chart, style, path))

	file, err := os.Open(path)
	require.Nil(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.Nil(t, err)
	require.Equal(t, 1000, img.Bounds().Dx())
	require.Equal(t, 600, img.Bounds().Dy())
}
