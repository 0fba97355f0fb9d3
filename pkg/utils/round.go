package utils

import (
	"fmt"
	"strconv"
)

// RoundToTwoDecimals snaps derived ratios (fragmentation, switch
// frequency) to two decimal places so stored and recomputed rows
// compare equal.
func RoundToTwoDecimals(value float64) float64 {
	rounded, _ := strconv.ParseFloat(fmt.Sprintf("%.2f", value), 64)
	return rounded
}
