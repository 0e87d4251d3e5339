package main

import (
	"image/color"
	"os"

	"github.com/pkg/errors"
	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Style carries the rendering settings shared by all charts of a run.
type Style struct {
	DPI        int
	FontSize   vg.Length
	Colors     []color.Color
	GridColor  color.Color
	BarWidth   vg.Length
	BarSpacing vg.Length
}

// Matplotlib's default cycle, so series colors match the shell-era plots.
var tab10 = []color.Color{
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	color.RGBA{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	color.RGBA{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	color.RGBA{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	color.RGBA{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	color.RGBA{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

func DefaultStyle() Style {
	return Style{
		DPI:        300,
		FontSize:   vg.Points(10),
		Colors:     tab10,
		GridColor:  color.Gray{Y: 220},
		BarWidth:   vg.Points(48),
		BarSpacing: vg.Points(4),
	}
}

func (s Style) color(i int) color.Color {
	if len(s.Colors) == 0 {
		return color.Black
	}
	return s.Colors[i%len(s.Colors)]
}

type ReferenceLine struct {
	Y      float64
	Label  string
	Color  color.Color
	Dashes []vg.Length
}

type ChartConfig struct {
	Title       string
	XLabel      string
	YLabel      string
	Output      string
	Width       vg.Length
	Height      vg.Length
	LegendTitle string
	LegendTop   bool
	LegendLeft  bool
	// YMax pins the upper bound of the value axis; zero leaves it to the data.
	YMax      float64
	Reference *ReferenceLine
}

// Figure is a plot that remembers what was drawn on it, so the layers and
// legend entries of a chart can be inspected before it is saved.
type Figure struct {
	*plot.Plot
	Layers  []plot.Plotter
	Entries []string
}

func (f *Figure) Add(ps ...plot.Plotter) {
	f.Plot.Add(ps...)
	f.Layers = append(f.Layers, ps...)
}

func (f *Figure) AddLegend(label string, thumbs ...plot.Thumbnailer) {
	f.Plot.Legend.Add(label, thumbs...)
	f.Entries = append(f.Entries, label)
}

func setupPlot(c ChartConfig, s Style, verticalGrid bool) *Figure {
	p := &Figure{Plot: plot.New()}

	p.Title.Text = c.Title
	p.Title.TextStyle.Font.Size = s.FontSize * 1.4
	p.Title.TextStyle.Font.Weight = xfont.WeightBold
	p.Title.Padding = vg.Points(8)

	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Label.TextStyle.Font.Size = s.FontSize * 1.2
	p.Y.Label.TextStyle.Font.Size = s.FontSize * 1.2
	p.X.Tick.Label.Font.Size = s.FontSize
	p.Y.Tick.Label.Font.Size = s.FontSize

	p.Legend.TextStyle.Font.Size = s.FontSize
	p.Legend.Top = c.LegendTop
	p.Legend.Left = c.LegendLeft
	p.Legend.Padding = 1 * vg.Millimeter
	if c.LegendTitle != "" {
		p.AddLegend(c.LegendTitle)
	}

	grid := plotter.NewGrid()
	grid.Horizontal.Color = s.GridColor
	grid.Vertical.Color = s.GridColor
	if !verticalGrid {
		grid.Vertical.Width = 0
	}
	p.Add(grid)

	return p
}

// finishPlot applies the fixed axis bounds once all data plotters are added.
func finishPlot(p *Figure, c ChartConfig) {
	if c.YMax > 0 {
		p.Y.Min = 0
		p.Y.Max = c.YMax
	} else if p.Y.Min == 0 && p.Y.Max == 0 {
		// all values are zero, keep the axis from extending below it
		p.Y.Max = 1
	}
	if c.Reference == nil {
		return
	}
	ref := c.Reference
	line := plotter.NewFunction(func(float64) float64 { return ref.Y })
	line.Color = ref.Color
	line.Dashes = ref.Dashes
	line.Width = vg.Points(1.5)
	p.Add(line)
	if ref.Label != "" {
		p.AddLegend(ref.Label, line)
	}
}

func savePlot(p *Figure, c ChartConfig, s Style, path string) error {
	canvas := vgimg.NewWith(vgimg.UseWH(c.Width, c.Height), vgimg.UseDPI(s.DPI))
	p.Draw(draw.New(canvas))

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %v", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(file); err != nil {
		file.Close()
		return errors.Wrapf(err, "failed to encode %v", path)
	}
	return file.Close()
}
