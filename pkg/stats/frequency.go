package stats

import (
	"fmt"
	"sort"
)

// FrequencyEntry is one distinct value with its absolute count and its share
// of the total.
type FrequencyEntry struct {
	Value string
	Count int
	Share float64
}

// FrequencyTable lists distinct values most frequent first; ties order by
// value.
type FrequencyTable struct {
	Entries []FrequencyEntry
	Total   int
}

// Frequencies builds a frequency table over a label column.
func Frequencies(values []string) FrequencyTable {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	table := FrequencyTable{
		Entries: make([]FrequencyEntry, 0, len(counts)),
		Total:   len(values),
	}
	for v, c := range counts {
		table.Entries = append(table.Entries, FrequencyEntry{Value: v, Count: c})
	}
	sort.Slice(table.Entries, func(i, j int) bool {
		if table.Entries[i].Count != table.Entries[j].Count {
			return table.Entries[i].Count > table.Entries[j].Count
		}
		return table.Entries[i].Value < table.Entries[j].Value
	})
	for i := range table.Entries {
		table.Entries[i].Share = float64(table.Entries[i].Count) / float64(table.Total)
	}
	return table
}

// Polarization scores how much rating volume sits at the extremes: weight 2
// on ratings 1 and 5, weight 1 on 2 and 4, nothing on the middle, normalized
// by the total volume.
func Polarization(ratings, freqs []float64) (float64, error) {
	if len(ratings) != len(freqs) {
		return 0, fmt.Errorf("ratings and frequencies differ in length: %d vs %d", len(ratings), len(freqs))
	}

	points, total := 0.0, 0.0
	for i := range ratings {
		total += freqs[i]
		switch ratings[i] {
		case 1, 5:
			points += 2 * freqs[i]
		case 2, 4:
			points += freqs[i]
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("total frequency is zero")
	}
	return points / total, nil
}
