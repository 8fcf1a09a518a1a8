package engine

func imin(a int, b int) int {
	if a < b {
		return a
	}
	return b
}

func imax(a int, b int) int {
	if a > b {
		return a
	}
	return b
}
