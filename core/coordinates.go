package core

import (
	"fmt"
	"math"
)

// NumDimensions is the size of the semantic coordinate space. Every entry and
// every query is represented by exactly this many ordered dimensions.
const NumDimensions = 9

// Coordinates is a point in the 9-dimensional semantic coordinate space. The
// dimension order (X, Y, Z, A, B, C, D, E, F) is significant for distance
// computation. Dimensions absent from a decoded document default to 0.0 so
// coordinates produced by different generator versions stay comparable.
type Coordinates struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
	D float64 `json:"d"`
	E float64 `json:"e"`
	F float64 `json:"f"`
}

// Slice returns the dimensions as an ordered array.
func (c Coordinates) Slice() [NumDimensions]float64 {
	return [NumDimensions]float64{c.X, c.Y, c.Z, c.A, c.B, c.C, c.D, c.E, c.F}
}

// DistanceTo returns the Euclidean distance between c and other. The metric
// is symmetric and DistanceTo(c) == 0 for any c.
func (c Coordinates) DistanceTo(other Coordinates) float64 {
	a, b := c.Slice(), other.Slice()
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Fragment renders the coordinates as a compact string suitable for embedding
// into entry keys.
func (c Coordinates) Fragment() string {
	s := c.Slice()
	return fmt.Sprintf("%.3f_%.3f_%.3f_%.3f_%.3f_%.3f_%.3f_%.3f_%.3f",
		s[0], s[1], s[2], s[3], s[4], s[5], s[6], s[7], s[8])
}
