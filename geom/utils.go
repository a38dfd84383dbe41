package geom

import "math"

const DegToRad = math.Pi / 180

func Abs(v Element) Element {
	if v < 0 {
		return -v
	}
	return v
}
