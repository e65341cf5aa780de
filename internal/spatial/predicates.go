package spatial

import "math"

// Overlap reports whether b1 and b2, each padded by minSep, intersect on
// all three axes. Intervals that only touch do not overlap.
func Overlap(b1, b2 Box, minSep float64) bool {
	for k := 0; k < 3; k++ {
		if !(b1.Min[k] < b2.Max[k]+minSep && b1.Max[k]+minSep > b2.Min[k]) {
			return false
		}
	}
	return true
}

// Distance returns the Euclidean norm of the per-axis gaps between b1 and
// b2. An axis on which the intervals overlap or touch contributes zero.
func Distance(b1, b2 Box) float64 {
	var sum float64
	for k := 0; k < 3; k++ {
		d := axisGap(b1.Min[k], b1.Max[k], b2.Min[k], b2.Max[k])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func axisGap(min1, max1, min2, max2 float64) float64 {
	switch {
	case min1 > max2:
		return min1 - max2
	case min2 > max1:
		return min2 - max1
	default:
		return 0
	}
}
