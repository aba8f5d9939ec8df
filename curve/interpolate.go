// Package curve builds velocity-continuous interpolation curves over normalised time.
package curve

// Interpolate moves from start to end over t in [0,1], leaving start with velocity
// vStart and arriving at end with velocity vEnd. Velocities are in units per unit of t.
// t is clamped, so anything <= 0 yields start and anything >= 1 yields end.
func Interpolate(start, end, t, vStart, vEnd float64) float64 {
	if t <= 0 {
		return start
	} else if t >= 1 {
		return end
	}

	// p(t) = a + b*t + c*t^2 + d*t^3 with p(0)=start, p(1)=end, p'(0)=vStart, p'(1)=vEnd
	delta := end - start
	c := 3*delta - 2*vStart - vEnd
	d := vStart + vEnd - 2*delta
	return start + t*(vStart+t*(c+t*d))
}
