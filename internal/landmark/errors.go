package landmark

import "errors"

var (
	// ErrMalformedDetection marks an annotation missing shape or label fields.
	ErrMalformedDetection = errors.New("malformed detection")

	// ErrUnusableSet marks a detection set that fails the cardinality check.
	ErrUnusableSet = errors.New("unusable detection set")

	// ErrDegenerateGeometry marks a reference line that cannot be built.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInsufficientAnchors marks a set with fewer than MinAnchorBoxes anchors.
	ErrInsufficientAnchors = errors.New("insufficient anchor boxes")

	// ErrLandmarkCount marks a sequencer call with other than LandmarkCount boxes.
	ErrLandmarkCount = errors.New("landmark count must be 9")

	// ErrInvalidDimensions marks a non-positive image width or height.
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)
