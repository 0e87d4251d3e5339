package main

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrMissingInput = errors.New("input file not found")

var (
	columnsTasks   = []string{"Task", "Program", "Execution_Time_Sec", "Avg_CPU_Usage", "Avg_Disk_Write_KB"}
	columnsScaling = []string{"Program", "Task", "Count", "Execution_Time_Sec", "Avg_CPU_Usage"}
)

type DatasetTasks struct {
	File string
}

func (d *DatasetTasks) Name() string { return "tasks" }
func (d *DatasetTasks) Path() string { return d.File }
func (d *DatasetTasks) Load(tables *Tables) error {
	table, err := readTable(d.File, columnsTasks)
	if err != nil {
		return err
	}
	rows := make([]TaskResult, 0, len(table.records))
	for i := range table.records {
		row := TaskResult{
			Task:    table.get(i, "Task"),
			Program: table.get(i, "Program"),
		}
		if row.ExecutionTime, err = table.float(i, "Execution_Time_Sec"); err != nil {
			return err
		}
		if row.CPUUsage, err = table.float(i, "Avg_CPU_Usage"); err != nil {
			return err
		}
		if row.DiskWrite, err = table.float(i, "Avg_Disk_Write_KB"); err != nil {
			return err
		}
		rows = append(rows, row)
	}
	tables.Tasks = rows
	Logger.Infof("loaded %v rows from %v", len(rows), d.File)
	return nil
}

type DatasetScaling struct {
	File string
}

func (d *DatasetScaling) Name() string { return "scaling" }
func (d *DatasetScaling) Path() string { return d.File }
func (d *DatasetScaling) Load(tables *Tables) error {
	table, err := readTable(d.File, columnsScaling)
	if err != nil {
		return err
	}
	rows := make([]ScalingResult, 0, len(table.records))
	for i := range table.records {
		row := ScalingResult{
			Program: table.get(i, "Program"),
			Task:    table.get(i, "Task"),
		}
		if row.Count, err = table.integer(i, "Count"); err != nil {
			return err
		}
		if row.Count <= 0 {
			return errors.Errorf("%v: line %v: column Count must be positive, got %v", d.File, i+2, row.Count)
		}
		if row.ExecutionTime, err = table.float(i, "Execution_Time_Sec"); err != nil {
			return err
		}
		if row.CPUUsage, err = table.float(i, "Avg_CPU_Usage"); err != nil {
			return err
		}
		rows = append(rows, row)
	}
	tables.Scaling = rows
	Logger.Infof("loaded %v rows from %v", len(rows), d.File)
	return nil
}

// LoadTables loads every dataset or fails on the first one that is absent.
func LoadTables(datasets ...Dataset) (Tables, error) {
	var tables Tables
	for _, dataset := range datasets {
		Logger.Debugf("loading dataset %v from %v", dataset.Name(), dataset.Path())
		if err := dataset.Load(&tables); err != nil {
			return Tables{}, errors.Wrapf(err, "failed to load dataset %v", dataset.Name())
		}
	}
	return tables, nil
}

type csvTable struct {
	path    string
	columns map[string]int
	records [][]string
}

func readTable(path string, required []string) (*csvTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(ErrMissingInput, "%v (%v)", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Errorf("%v: no header row", path)
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to read header of %v", path)
	}

	table := &csvTable{path: path, columns: make(map[string]int, len(header))}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, ok := table.columns[name]; !ok {
			table.columns[name] = i
		}
	}
	for _, name := range required {
		if _, ok := table.columns[name]; !ok {
			return nil, errors.Errorf("%v: missing column %v", path, name)
		}
	}

	table.records, err = reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %v", path)
	}
	return table, nil
}

func (t *csvTable) get(row int, column string) string {
	return strings.TrimSpace(t.records[row][t.columns[column]])
}

// float treats an empty cell as a missing measurement.
func (t *csvTable) float(row int, column string) (float64, error) {
	value := t.get(row, column)
	if value == "" {
		return math.NaN(), nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "%v: line %v: column %v", t.path, row+2, column)
	}
	return parsed, nil
}

func (t *csvTable) integer(row int, column string) (int, error) {
	value := t.get(row, column)
	parsed, err := strconv.Atoi(value)
	if err == nil {
		return parsed, nil
	}
	asFloat, ferr := strconv.ParseFloat(value, 64)
	if ferr != nil || asFloat != math.Trunc(asFloat) {
		return 0, errors.Wrapf(err, "%v: line %v: column %v", t.path, row+2, column)
	}
	return int(asFloat), nil
}
