// Package stats holds the dataset-exploration helpers shared by the
// extraction pipeline and downstream analysis: frequency tables, a
// chi-squared independence test, rating polarization, correlation pairs and
// linear rescaling.
package stats

import "fmt"

// Frame is an ordered collection of equally sized numeric columns. NaN marks
// a missing observation.
type Frame struct {
	names  []string
	byName map[string]int
	cols   [][]float64
}

func NewFrame() *Frame {
	return &Frame{byName: make(map[string]int)}
}

// Add appends a named column. Every column must match the length of the
// first one.
func (f *Frame) Add(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("column name is required")
	}
	if _, ok := f.byName[name]; ok {
		return fmt.Errorf("column %q already present", name)
	}
	if len(f.cols) > 0 && len(values) != len(f.cols[0]) {
		return fmt.Errorf("column %q has %d rows, expected %d", name, len(values), len(f.cols[0]))
	}

	f.byName[name] = len(f.cols)
	f.names = append(f.names, name)
	f.cols = append(f.cols, append([]float64(nil), values...))
	return nil
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Rows returns the number of observations per column.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// Column returns the values of a named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	idx, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[idx], true
}
