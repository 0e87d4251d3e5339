package main

import (
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func StringEnv(key string, def string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	return value
}

func IntEnv(key string, def int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func FloatEnv(key string, def float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}

func BoolEnv(key string, def bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return parsed
}

type Config struct {
	Prefix      string
	TasksCSV    string
	ScalingCSV  string
	OutputDir   string
	SortByCount bool
	Style       Style
	Banner      []string
}

func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		TasksCSV:    prefix + "_Part_C_CSV.csv",
		ScalingCSV:  prefix + "_Part_D_CSV.csv",
		OutputDir:   ".",
		SortByCount: true,
		Style:       DefaultStyle(),
		Banner:      []string{"PA01 Plot Generation Script", "Roll Number: " + prefix},
	}
}

// LoadConfig reads an optional .env file and then the PLOT_* variables.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.Wrapf(err, "failed to read %v", envFile)
	}
	if level, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zap.ParseAtomicLevel(level); err == nil {
			AtomicLevel.SetLevel(parsed.Level())
		}
	}

	config := DefaultConfig(StringEnv("PLOT_PREFIX", "MT25067"))
	config.TasksCSV = StringEnv("PLOT_PART_C_CSV", config.TasksCSV)
	config.ScalingCSV = StringEnv("PLOT_PART_D_CSV", config.ScalingCSV)
	config.OutputDir = StringEnv("PLOT_OUTPUT_DIR", config.OutputDir)
	config.SortByCount = BoolEnv("PLOT_SORT_BY_COUNT", config.SortByCount)
	config.Style.DPI = IntEnv("PLOT_DPI", config.Style.DPI)
	config.Style.FontSize = vg.Points(FloatEnv("PLOT_FONT_SIZE", config.Style.FontSize.Points()))
	if config.Style.DPI <= 0 {
		return Config{}, errors.Errorf("invalid PLOT_DPI %v", config.Style.DPI)
	}
	if config.Style.FontSize <= 0 {
		return Config{}, errors.Errorf("invalid PLOT_FONT_SIZE %v", config.Style.FontSize.Points())
	}
	return config, nil
}

func (c Config) Datasets() []Dataset {
	return []Dataset{
		&DatasetTasks{File: c.TasksCSV},
		&DatasetScaling{File: c.ScalingCSV},
	}
}

func (c Config) output(name string) string {
	return filepath.Join(c.OutputDir, c.Prefix+"_"+name+".png")
}

// Renderers returns the five report charts in the order they are produced.
func (c Config) Renderers() []Renderer {
	const (
		barWidth, barHeight   = 10 * vg.Inch, 6 * vg.Inch
		lineWidth, lineHeight = 12 * vg.Inch, 7 * vg.Inch
	)
	red := func(alpha uint8) color.Color {
		return color.NRGBA{R: 0xff, A: alpha}
	}
	dashed := []vg.Length{vg.Points(6), vg.Points(4)}
	dotted := []vg.Length{vg.Points(1.5), vg.Points(3)}
	workers := "Number of Workers (Processes/Threads)"

	return []Renderer{
		&ComparisonRenderer{
			Title:  "time comparison",
			Metric: MetricExecutionTime,
			Config: ChartConfig{
				Title:       "Part C: Execution Time Comparison\n(Processes vs Threads)",
				XLabel:      "Task Type",
				YLabel:      "Execution Time (seconds)",
				Output:      c.output("Part_C_Time_Plot"),
				Width:       barWidth,
				Height:      barHeight,
				LegendTitle: "Implementation",
				LegendTop:   true,
			},
			LabelFormat: "%.2f",
		},
		&ComparisonRenderer{
			Title:  "cpu comparison",
			Metric: MetricCPUUsage,
			Config: ChartConfig{
				Title:       "Part C: Average CPU Usage\n(Processes vs Threads - 3 Cores)",
				XLabel:      "Task Type",
				YLabel:      "CPU Usage (%)",
				Output:      c.output("Part_C_CPU_Plot"),
				Width:       barWidth,
				Height:      barHeight,
				LegendTitle: "Implementation",
				LegendTop:   true,
				YMax:        310,
				Reference:   &ReferenceLine{Y: 300, Label: "300% (Max Capacity)", Color: red(77), Dashes: dashed},
			},
			LabelFormat: "%.1f%%",
		},
		&ComparisonRenderer{
			Title:  "disk comparison",
			Metric: MetricDiskWrite,
			Config: ChartConfig{
				Title:       "Part C: Average Disk Write I/O\n(Processes vs Threads)",
				XLabel:      "Task Type",
				YLabel:      "Disk Write Throughput (KB/s)",
				Output:      c.output("Part_C_Disk_Plot"),
				Width:       barWidth,
				Height:      barHeight,
				LegendTitle: "Implementation",
				LegendTop:   true,
			},
			LabelFormat: "%.2f",
		},
		&TrendRenderer{
			Title:  "scalability",
			Task:   "cpu",
			Metric: MetricExecutionTime,
			Config: ChartConfig{
				Title:      "Part D: Scalability Analysis - CPU Task\n(Workers pinned to 3 CPU cores)",
				XLabel:     workers,
				YLabel:     "Execution Time (seconds)",
				Output:     c.output("Part_D_Scalability_Plot"),
				Width:      lineWidth,
				Height:     lineHeight,
				LegendTop:  true,
				LegendLeft: true,
			},
			Series: []SeriesStyle{
				{Program: "Program_A", Label: "Program A (Processes)", Color: tab10[0], Shape: draw.CircleGlyph{}, AnnotationOffset: vg.Points(10)},
				{Program: "Program_B", Label: "Program B (Threads)", Color: tab10[1], Shape: draw.SquareGlyph{}, Dashed: true, AnnotationOffset: vg.Points(-15)},
			},
			Annotation:  "%.1fs",
			SortByCount: c.SortByCount,
		},
		&TrendRenderer{
			Title:  "cpu trend",
			Task:   "cpu",
			Metric: MetricCPUUsage,
			Config: ChartConfig{
				Title:     "Part D: CPU Usage vs Worker Count\n(CPU-intensive task on 3 cores)",
				XLabel:    workers,
				YLabel:    "Average CPU Usage (%)",
				Output:    c.output("Part_D_CPU_Trend_Plot"),
				Width:     lineWidth,
				Height:    lineHeight,
				YMax:      310,
				Reference: &ReferenceLine{Y: 300, Label: "300% (3 Cores Max)", Color: red(128), Dashes: dotted},
			},
			Series: []SeriesStyle{
				{Program: "Program_A", Label: "Program A (Processes)", Color: tab10[2], Shape: draw.CircleGlyph{}},
				{Program: "Program_B", Label: "Program B (Threads)", Color: tab10[3], Shape: draw.SquareGlyph{}, Dashed: true},
			},
			SortByCount: c.SortByCount,
		},
	}
}
