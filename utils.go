package plfmip

import "strconv"

// IntSqrt returns the integer square root of n and whether n is a perfect
// square. Network-flow instances arrange their n variables as a √n×√n
// matrix, so both the loader and the model builder need this.
func IntSqrt(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r, r*r == n
}

// FormatFloat renders a float the way the tables store it: shortest
// round-tripping decimal form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
