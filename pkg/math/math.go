package math

// Maximum calculates the maximum value among two integers
func Maximum(a int, b int) int {
	if a > b {
		return a
	}
	return b
}

//Minimum calculates the minimum value among two integers
func Minimum(a int, b int) int {
	if a > b {
		return b
	}
	return a
}

//AdjustmentCeil contains rule of three for calculating an integer given another integer representing a percentage
// the result is rounded up, a non-zero percentage of a non-empty set always yields at least one
func AdjustmentCeil(percentage int, total int) int {
	return (percentage*total + 99) / 100
}
