package landmark

import (
	"fmt"
	"math"
)

// slopeEpsilon is the switch between the clipped and the vertical line. Slopes
// at or below it, and slopes above its inverse, give a vertical line.
const slopeEpsilon = 1e-6

// ReferenceLine is a segment whose endpoints lie on the image boundary.
type ReferenceLine struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Degenerate reports whether both endpoints coincide.
func (l ReferenceLine) Degenerate() bool {
	return l.Start == l.End
}

// BuildReferenceLine derives the line through the center box that runs
// perpendicular to the box's long axis, clipped to a width x height image.
//
// When the box is wider than tall, 90 degrees are added to its angle, so the
// line follows the short axis. The line then goes through the box center with
// slope tan(angle):
//
//   - a slope whose magnitude is above slopeEpsilon is evaluated at x=0 and
//     x=width, and an endpoint whose y falls outside [0, height] is re-solved
//     at the crossed boundary
//   - any other slope, including a near-zero one, gives (x, 0) and (x, height)
//
// Slopes beyond 1/slopeEpsilon also take the vertical branch so tan near 90
// degrees never reaches the division.
//
// Both endpoints always satisfy x in {0, width} or y in {0, height}. A center
// lying outside the image produces endpoints clamped to the rectangle.
func BuildReferenceLine(center OrientedBox, width, height float64) (ReferenceLine, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return ReferenceLine{}, fmt.Errorf("%w: %vx%v", ErrInvalidDimensions, width, height)
	}

	angle := center.Angle
	if center.Width > center.Height {
		angle += 90
	}
	rad := angle * math.Pi / 180
	slope := math.Tan(rad)
	if math.IsNaN(slope) {
		return ReferenceLine{}, fmt.Errorf("%w: angle %v", ErrDegenerateGeometry, angle)
	}

	x, y := center.X, center.Y

	var line ReferenceLine
	if m := math.Abs(slope); m > slopeEpsilon && m <= 1/slopeEpsilon {
		intercept := y - slope*x
		line = ReferenceLine{
			Start: clipEndpoint(0, intercept, slope, intercept, height),
			End:   clipEndpoint(width, slope*width+intercept, slope, intercept, height),
		}
	} else {
		line = ReferenceLine{
			Start: Point{X: x, Y: 0},
			End:   Point{X: x, Y: height},
		}
	}

	line.Start = clampToRect(line.Start, width, height)
	line.End = clampToRect(line.End, width, height)
	return line, nil
}

// clipEndpoint moves (x, y) along the line onto the top or bottom edge when y
// lies outside [0, height].
func clipEndpoint(x, y, slope, intercept, height float64) Point {
	switch {
	case y < 0:
		return Point{X: -intercept / slope, Y: 0}
	case y > height:
		return Point{X: (height - intercept) / slope, Y: height}
	}
	return Point{X: x, Y: y}
}

func clampToRect(p Point, width, height float64) Point {
	return Point{
		X: math.Min(math.Max(p.X, 0), width),
		Y: math.Min(math.Max(p.Y, 0), height),
	}
}

// OnBoundary reports whether p lies on the edge of a width x height rectangle.
func OnBoundary(p Point, width, height float64) bool {
	inside := p.X >= 0 && p.X <= width && p.Y >= 0 && p.Y <= height
	return inside && (p.X == 0 || p.X == width || p.Y == 0 || p.Y == height)
}
