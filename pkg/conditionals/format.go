package conditionals

import (
	"maps"
	"slices"
	"strconv"
)

func sortedKeys(m map[string]float64) []string {
	return slices.Sorted(maps.Keys(m))
}

func formatMinimum(name string, minimum float64) string {
	return name + " " + strconv.FormatFloat(minimum, 'f', -1, 64) + "+"
}
