package landmark

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Role is the part a detected box plays in sequencing.
type Role string

const (
	// RoleLandmark marks one of the nine boxes that receive ordinals.
	RoleLandmark Role = "LANDMARK"

	// RoleAnchor marks a secondary box that seeds ordinal 2. Never numbered.
	RoleAnchor Role = "ANCHOR"

	// RoleCenter marks the reference box whose orientation defines the axis.
	RoleCenter Role = "CENTER"
)

// LandmarkCount is the fixed number of landmark boxes a usable set holds.
const LandmarkCount = 9

// MinAnchorBoxes is the number of anchor boxes required before sequencing.
const MinAnchorBoxes = 2

// Point is a 2D position in image pixel coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// OrientedBox is a rotated rectangle produced by the detector.
//
// X and Y locate the box center. Angle is the rotation in degrees. ID is the
// index of the source annotation and is the box's identity everywhere
// downstream; coordinates are never compared for identity.
type OrientedBox struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle"`
	Role   Role    `json:"role"`
	Label  string  `json:"label"`
	Color  string  `json:"color,omitempty"`
}

// Center returns the box center.
func (b OrientedBox) Center() Point {
	return Point{X: b.X, Y: b.Y}
}

// SkippedAnnotation records an annotation that was left out of classification.
// Box is set when the annotation was well formed but carried an unknown
// label, so overlays can still outline it.
type SkippedAnnotation struct {
	Index  int          `json:"index"`
	Label  string       `json:"label,omitempty"`
	Reason string       `json:"reason"`
	Box    *OrientedBox `json:"box,omitempty"`
}

// DetectionSet is the classified view of one image's detections.
//
// A usable set has exactly one entry in Centers and exactly LandmarkCount
// entries in Landmarks. The set is read-only once Classify returns it.
type DetectionSet struct {
	Landmarks []OrientedBox       `json:"landmarks"`
	Anchors   []OrientedBox       `json:"anchors"`
	Centers   []OrientedBox       `json:"centers"`
	Skipped   []SkippedAnnotation `json:"skipped,omitempty"`
}

// Center returns the single center box and true, or false when the set does
// not hold exactly one.
func (s DetectionSet) Center() (OrientedBox, bool) {
	if len(s.Centers) != 1 {
		return OrientedBox{}, false
	}
	return s.Centers[0], true
}

// All returns every classified box ordered by ID.
func (s DetectionSet) All() []OrientedBox {
	all := make([]OrientedBox, 0, len(s.Landmarks)+len(s.Anchors)+len(s.Centers))
	all = append(all, s.Landmarks...)
	all = append(all, s.Anchors...)
	all = append(all, s.Centers...)
	sortByID(all)
	return all
}

// Outlined returns every classified box plus the well-formed boxes skipped for
// an unknown label, ordered by ID.
func (s DetectionSet) Outlined() []OrientedBox {
	boxes := s.All()
	for _, sk := range s.Skipped {
		if sk.Box != nil {
			boxes = append(boxes, *sk.Box)
		}
	}
	sortByID(boxes)
	return boxes
}

func sortByID(boxes []OrientedBox) {
	sort.Slice(boxes, func(i, j int) bool {
		return boxes[i].ID < boxes[j].ID
	})
}
