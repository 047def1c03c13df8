package slp

import "math"

// Point is a single 2-D landmark location. NaN coordinates mean "missing";
// Visible=false also means the coordinates must be treated as missing
// regardless of their stored value.
type Point struct {
	X        float64
	Y        float64
	Visible  bool
	Complete bool
	Name     string // optional; set when the owning skeleton's node name is known
}

// IsMissing reports whether this point carries no usable coordinate.
func (p Point) IsMissing() bool {
	return !p.Visible || math.IsNaN(p.X) || math.IsNaN(p.Y)
}

// PredictedPoint is a Point produced by a model, carrying a confidence
// Score in [0,1] (NaN if not set).
type PredictedPoint struct {
	Point
	Score float64
}
