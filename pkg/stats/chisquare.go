package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ContingencyTable is an observed cross-tabulation of two label columns.
// Counts[i][j] holds the co-occurrences of RowLabels[i] and ColLabels[j].
type ContingencyTable struct {
	RowLabels []string
	ColLabels []string
	Counts    [][]int
}

// Crosstab counts co-occurrences of two equally long label columns, with
// labels ordered ascending on both axes.
func Crosstab(rows, cols []string) (*ContingencyTable, error) {
	if len(rows) != len(cols) {
		return nil, fmt.Errorf("label columns differ in length: %d vs %d", len(rows), len(cols))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("label columns are empty")
	}

	rowLabels, rowIdx := labelIndex(rows)
	colLabels, colIdx := labelIndex(cols)

	counts := make([][]int, len(rowLabels))
	for i := range counts {
		counts[i] = make([]int, len(colLabels))
	}
	for k := range rows {
		counts[rowIdx[rows[k]]][colIdx[cols[k]]]++
	}

	return &ContingencyTable{RowLabels: rowLabels, ColLabels: colLabels, Counts: counts}, nil
}

func labelIndex(values []string) ([]string, map[string]int) {
	idx := make(map[string]int, len(values))
	for _, v := range values {
		if _, ok := idx[v]; !ok {
			idx[v] = 0
		}
	}
	labels := make([]string, 0, len(idx))
	for v := range idx {
		labels = append(labels, v)
	}
	sort.Strings(labels)
	for i, v := range labels {
		idx[v] = i
	}
	return labels, idx
}

// ChiSquareResult carries the independence-test outcome together with the
// tables behind it.
type ChiSquareResult struct {
	Statistic float64
	PValue    float64
	DoF       int
	Expected  [][]float64
	Observed  *ContingencyTable
}

// ChiSquare runs the chi-squared independence test on an observed table.
// Tables with fewer than two rows or columns have no degrees of freedom and
// are rejected. On a single degree of freedom the Yates continuity
// correction applies.
func ChiSquare(observed *ContingencyTable) (*ChiSquareResult, error) {
	if observed == nil || len(observed.Counts) == 0 {
		return nil, fmt.Errorf("contingency table is empty")
	}
	rows, cols := len(observed.Counts), len(observed.Counts[0])
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("contingency table is degenerate: %dx%d", rows, cols)
	}

	rowTotals := make([]float64, rows)
	colTotals := make([]float64, cols)
	total := 0.0
	for i := range observed.Counts {
		if len(observed.Counts[i]) != cols {
			return nil, fmt.Errorf("contingency table is ragged at row %d", i)
		}
		for j, n := range observed.Counts[i] {
			rowTotals[i] += float64(n)
			colTotals[j] += float64(n)
			total += float64(n)
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("contingency table has no observations")
	}

	dof := (rows - 1) * (cols - 1)
	yates := dof == 1

	expected := make([][]float64, rows)
	statistic := 0.0
	for i := range expected {
		expected[i] = make([]float64, cols)
		for j := range expected[i] {
			exp := rowTotals[i] * colTotals[j] / total
			expected[i][j] = exp
			if exp == 0 {
				continue
			}
			delta := math.Abs(float64(observed.Counts[i][j]) - exp)
			if yates {
				delta = math.Max(delta-0.5, 0)
			}
			statistic += delta * delta / exp
		}
	}

	dist := distuv.ChiSquared{K: float64(dof)}
	return &ChiSquareResult{
		Statistic: statistic,
		PValue:    dist.Survival(statistic),
		DoF:       dof,
		Expected:  expected,
		Observed:  observed,
	}, nil
}

// ChiSquareTest crosstabs two label columns and runs the independence test
// on the result.
func ChiSquareTest(a, b []string) (*ChiSquareResult, error) {
	table, err := Crosstab(a, b)
	if err != nil {
		return nil, err
	}
	return ChiSquare(table)
}
