package landmark

import "fmt"

// Verdict reports whether a detection set can be sequenced.
type Verdict struct {
	Usable        bool   `json:"usable"`
	CenterCount   int    `json:"center_count"`
	LandmarkCount int    `json:"landmark_count"`
	AnchorCount   int    `json:"anchor_count"`
	Reason        string `json:"reason,omitempty"`
}

// CheckUsable applies the cardinality gate: exactly one center box and
// exactly LandmarkCount landmark boxes. Anchor count does not affect the
// verdict; the sequencer checks it separately.
func CheckUsable(set DetectionSet) Verdict {
	v := Verdict{
		CenterCount:   len(set.Centers),
		LandmarkCount: len(set.Landmarks),
		AnchorCount:   len(set.Anchors),
	}

	switch {
	case v.CenterCount != 1:
		v.Reason = fmt.Sprintf("expected 1 center box, found %d", v.CenterCount)
	case v.LandmarkCount != LandmarkCount:
		v.Reason = fmt.Sprintf("expected %d landmark boxes, found %d", LandmarkCount, v.LandmarkCount)
	default:
		v.Usable = true
	}
	return v
}

// Err returns nil for a usable verdict and an error wrapping ErrUnusableSet
// otherwise.
func (v Verdict) Err() error {
	if v.Usable {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnusableSet, v.Reason)
}
