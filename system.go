package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

const ruleWidth = 50

type SysInfo struct {
	Arch     string
	Hostname string
	Platform string
	CPUCount int
	CPUFreq  float64
	RAM      float64
}

// HostStat is best effort: fields the platform cannot report stay zero.
func HostStat() SysInfo {
	info := SysInfo{Arch: runtime.GOARCH}
	if hostStat, err := host.Info(); err == nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		totalFreq := 0.0
		for _, cpu := range cpuStat {
			totalFreq += cpu.Mhz
		}
		info.CPUCount = len(cpuStat)
		info.CPUFreq = totalFreq / float64(len(cpuStat))
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

type Pipeline struct {
	datasets  []Dataset
	renderers []Renderer
	style     Style
	banner    []string
	out       io.Writer
}

func NewPipeline(config Config, out io.Writer) *Pipeline {
	return &Pipeline{
		datasets:  config.Datasets(),
		renderers: config.Renderers(),
		style:     config.Style,
		banner:    config.Banner,
		out:       out,
	}
}

func (p *Pipeline) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Pipeline) Run(ctx context.Context) error {
	rule := strings.Repeat("=", ruleWidth)
	p.printf("%v\n", rule)
	for _, line := range p.banner {
		p.printf("%v\n", line)
	}
	p.printf("%v\n\n", rule)

	Logger.Debugf("host stat: %+v", HostStat())

	tables, err := LoadTables(p.datasets...)
	if err != nil {
		if errors.Is(err, ErrMissingInput) {
			p.printf("Error: Could not find CSV files.\n")
			p.printf("Make sure you ran both shell scripts first.\n")
			p.printf("Details: %v\n", err)
		}
		return err
	}
	p.printf("✓ CSV files loaded successfully\n\n")

	p.printf("Generating plots...\n")
	p.printf("%v\n", strings.Repeat("-", ruleWidth))
	for _, renderer := range p.renderers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.render(tables, renderer); err != nil {
			return err
		}
	}
	p.printf("%v\n\n", strings.Repeat("-", ruleWidth))

	p.printf("✓ All plots generated successfully!\n\n")
	p.printf("Generated files:\n")
	for i, renderer := range p.renderers {
		p.printf("  %v. %v\n", i+1, filepath.Base(renderer.Output()))
	}
	p.printf("\nThese plots are ready to include in your report!\n")
	p.printf("%v\n", rule)
	return nil
}

func (p *Pipeline) render(tables Tables, renderer Renderer) error {
	Logger.Infof("rendering %v to %v", renderer.Name(), renderer.Output())
	plt, err := renderer.Plot(tables, p.style)
	if err != nil {
		return errors.Wrapf(err, "failed to render %v", renderer.Name())
	}
	if err := savePlot(plt, renderer.Chart(), p.style, renderer.Output()); err != nil {
		return errors.Wrapf(err, "failed to save %v", renderer.Name())
	}
	p.printf("✓ Generated: %v\n", filepath.Base(renderer.Output()))
	return nil
}
