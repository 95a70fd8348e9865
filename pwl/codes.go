package pwl

// Code tables for encoding "exactly one segment is active" with few
// integer variables. Each table assigns segment k (0-based) the code
// codes[k]; an encoding pairs a table with a set of branching directions
// and constrains dot(direction, selection variables) to lie between the
// smallest and largest code products of the segments a breakpoint touches.

// BitWidth returns ceil(log2(n)): the number of code components needed to
// distinguish n segments.
func BitWidth(n int) int {
	r := 0
	for 1<<uint(r) < n {
		r++
	}
	return r
}

// GrayCodes returns the 2^r reflected Gray codes of width r. Consecutive
// codes differ in exactly one component, so a single binary flip moves the
// selection to an adjacent segment.
func GrayCodes(r int) [][]int {
	if r < 1 {
		return nil
	}
	if r == 1 {
		return [][]int{{0}, {1}}
	}
	prev := GrayCodes(r - 1)
	codes := make([][]int, 0, 2*len(prev))
	for _, c := range prev {
		codes = append(codes, appendBit(c, 0))
	}
	for i := len(prev) - 1; i >= 0; i-- {
		codes = append(codes, appendBit(prev[i], 1))
	}
	return codes
}

// ZigZagCodes returns the binary zigzag codes of width r; combined with
// ZigZagDirections they realize the same ordering as IntegerZigZagCodes
// using only binary selection variables.
func ZigZagCodes(r int) [][]int {
	if r < 1 {
		return nil
	}
	if r == 1 {
		return [][]int{{0}, {1}}
	}
	prev := ZigZagCodes(r - 1)
	codes := make([][]int, 0, 2*len(prev))
	for _, c := range prev {
		codes = append(codes, appendBit(c, 0))
	}
	for _, c := range prev {
		codes = append(codes, appendBit(c, 1))
	}
	return codes
}

// IntegerZigZagCodes returns the general-integer zigzag codes of width r.
// Component j of code k never exceeds 2^(r-j-1), which bounds the integer
// selection variables.
func IntegerZigZagCodes(r int) [][]int {
	if r < 1 {
		return nil
	}
	if r == 1 {
		return [][]int{{0}, {1}}
	}
	prev := IntegerZigZagCodes(r - 1)
	offset := make([]int, r-1)
	for j := 0; j < r-1; j++ {
		offset[j] = 1 << uint(r-2-j)
	}
	codes := make([][]int, 0, 2*len(prev))
	for _, c := range prev {
		codes = append(codes, appendBit(c, 0))
	}
	for _, c := range prev {
		shifted := make([]int, 0, r)
		for j, v := range c {
			shifted = append(shifted, v+offset[j])
		}
		codes = append(codes, append(shifted, 1))
	}
	return codes
}

// UnitDirections returns the r coordinate directions.
func UnitDirections(r int) [][]int {
	dirs := make([][]int, r)
	for i := range dirs {
		dirs[i] = make([]int, r)
		dirs[i][i] = 1
	}
	return dirs
}

// ZigZagDirections returns the branching directions pairing with
// ZigZagCodes: direction i reads component i plus the binary expansion of
// all higher components, dot(dirs[i], ZigZagCodes(r)[k]) ==
// IntegerZigZagCodes(r)[k][i].
func ZigZagDirections(r int) [][]int {
	dirs := make([][]int, r)
	for i := range dirs {
		dirs[i] = make([]int, r)
		dirs[i][i] = 1
		for j := i + 1; j < r; j++ {
			dirs[i][j] = 1 << uint(j-i-1)
		}
	}
	return dirs
}

func appendBit(code []int, bit int) []int {
	out := make([]int, 0, len(code)+1)
	out = append(out, code...)
	return append(out, bit)
}
