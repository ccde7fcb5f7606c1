package stats

import "fmt"

// Rescale maps a value from one linear range onto another.
func Rescale(x, minIn, maxIn, minOut, maxOut float64) (float64, error) {
	if maxIn == minIn {
		return 0, fmt.Errorf("input range is empty")
	}
	return (x-minIn)/(maxIn-minIn)*(maxOut-minOut) + minOut, nil
}
