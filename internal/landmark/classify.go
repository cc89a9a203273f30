package landmark

import (
	"fmt"
	"math"
)

// LabelSet maps detector label names onto roles.
type LabelSet struct {
	Landmark string `json:"landmark"`
	Anchor   string `json:"anchor"`
	Center   string `json:"center"`
}

// DefaultLabels returns the label names the numbering detector emits.
func DefaultLabels() LabelSet {
	return LabelSet{
		Landmark: "MTD",
		Anchor:   "B-MT",
		Center:   "CP",
	}
}

// Validate checks that every role has a distinct, non-empty name.
func (l LabelSet) Validate() error {
	if l.Landmark == "" || l.Anchor == "" || l.Center == "" {
		return fmt.Errorf("label set requires landmark, anchor and center names")
	}
	if l.Landmark == l.Anchor || l.Landmark == l.Center || l.Anchor == l.Center {
		return fmt.Errorf("label names must be distinct: %q, %q, %q", l.Landmark, l.Anchor, l.Center)
	}
	return nil
}

// RoleOf returns the role for a label name, or false for an unknown label.
func (l LabelSet) RoleOf(name string) (Role, bool) {
	switch name {
	case l.Landmark:
		return RoleLandmark, true
	case l.Anchor:
		return RoleAnchor, true
	case l.Center:
		return RoleCenter, true
	}
	return "", false
}

// Classify partitions detector annotations into landmark, anchor and center
// boxes.
//
// Each box keeps the index of its annotation as its ID. Annotations with a
// missing, non-numeric or non-finite shape field, or without a label, are
// recorded in Skipped and otherwise ignored; so are annotations whose label is
// not in the set. Classification never fails as a whole.
func Classify(annotations []Annotation, labels LabelSet) DetectionSet {
	var set DetectionSet

	for i, a := range annotations {
		box, err := toBox(i, a)
		if err != nil {
			set.Skipped = append(set.Skipped, SkippedAnnotation{
				Index:  i,
				Label:  firstLabelName(a),
				Reason: err.Error(),
			})
			continue
		}

		role, ok := labels.RoleOf(box.Label)
		if !ok {
			set.Skipped = append(set.Skipped, SkippedAnnotation{
				Index:  i,
				Label:  box.Label,
				Reason: "unknown label",
				Box:    &box,
			})
			continue
		}
		box.Role = role

		switch role {
		case RoleLandmark:
			set.Landmarks = append(set.Landmarks, box)
		case RoleAnchor:
			set.Anchors = append(set.Anchors, box)
		case RoleCenter:
			set.Centers = append(set.Centers, box)
		}
	}

	return set
}

func toBox(index int, a Annotation) (OrientedBox, error) {
	if a.invalid != "" {
		return OrientedBox{}, fmt.Errorf("%w: %s", ErrMalformedDetection, a.invalid)
	}
	if len(a.Labels) == 0 || a.Labels[0].Name == "" {
		return OrientedBox{}, fmt.Errorf("%w: missing label", ErrMalformedDetection)
	}
	s := a.Shape
	if s == nil {
		return OrientedBox{}, fmt.Errorf("%w: missing shape", ErrMalformedDetection)
	}
	if len(s.invalid) > 0 {
		return OrientedBox{}, fmt.Errorf("%w: shape.%s is not a number", ErrMalformedDetection, s.invalid[0])
	}

	fields := []struct {
		name string
		v    *float64
	}{
		{"x", s.X}, {"y", s.Y}, {"width", s.Width}, {"height", s.Height}, {"angle", s.Angle},
	}
	for _, f := range fields {
		if f.v == nil {
			return OrientedBox{}, fmt.Errorf("%w: missing shape.%s", ErrMalformedDetection, f.name)
		}
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			return OrientedBox{}, fmt.Errorf("%w: non-finite shape.%s", ErrMalformedDetection, f.name)
		}
	}

	return OrientedBox{
		ID:     index,
		X:      *s.X,
		Y:      *s.Y,
		Width:  *s.Width,
		Height: *s.Height,
		Angle:  *s.Angle,
		Label:  a.Labels[0].Name,
		Color:  a.Labels[0].Color,
	}, nil
}

func firstLabelName(a Annotation) string {
	if len(a.Labels) == 0 {
		return ""
	}
	return a.Labels[0].Name
}
