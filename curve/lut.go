package curve

// Sample evaluates f from 0 to 1 at length evenly spaced points.
func Sample(f Func, length int) []float64 {
	lut := make([]float64, length)
	if length == 1 {
		lut[0] = f(0, 1, 0)
		return lut
	}

	increment := 1.0 / float64(length-1)
	for i := 0; i < length; i++ {
		lut[i] = f(0, 1, float64(i)*increment)
	}
	return lut
}

// SampleBackAndForth fills the first half of the table with f rising from 0 and mirrors
// it into the second half, so the table starts and ends at 0.
func SampleBackAndForth(f Func, length int) []float64 {
	lut := make([]float64, length)
	if length < 2 {
		return lut
	}

	increment := 1.0 / float64(length/2)
	for i, j := 0, length-1; i < length/2; i, j = i+1, j-1 {
		value := f(0, 1, float64(i)*increment)
		lut[i] = value
		lut[j] = value
	}
	return lut
}
