package main

type Metric int

const (
	MetricExecutionTime Metric = iota
	MetricCPUUsage
	MetricDiskWrite
)

func (m Metric) String() string {
	switch m {
	case MetricExecutionTime:
		return "Execution_Time_Sec"
	case MetricCPUUsage:
		return "Avg_CPU_Usage"
	case MetricDiskWrite:
		return "Avg_Disk_Write_KB"
	}
	return "unknown"
}

// TaskResult is one row of the per-task comparison table.
type TaskResult struct {
	Task          string
	Program       string
	ExecutionTime float64
	CPUUsage      float64
	DiskWrite     float64
}

func (r TaskResult) Value(m Metric) float64 {
	switch m {
	case MetricExecutionTime:
		return r.ExecutionTime
	case MetricCPUUsage:
		return r.CPUUsage
	case MetricDiskWrite:
		return r.DiskWrite
	}
	return 0
}

// ScalingResult is one row of the worker count sweep table.
type ScalingResult struct {
	Program       string
	Task          string
	Count         int
	ExecutionTime float64
	CPUUsage      float64
}

// Value returns zero for metrics the sweep does not record.
func (r ScalingResult) Value(m Metric) float64 {
	switch m {
	case MetricExecutionTime:
		return r.ExecutionTime
	case MetricCPUUsage:
		return r.CPUUsage
	}
	return 0
}

type Tables struct {
	Tasks   []TaskResult
	Scaling []ScalingResult
}

type Dataset interface {
	Name() string
	Path() string
	Load(tables *Tables) error
}

type Renderer interface {
	Name() string
	Output() string
	Chart() ChartConfig
	Plot(tables Tables, style Style) (*Figure, error)
}
