package landmark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Shape is the geometry of one detector annotation. Pointer fields let the
// classifier tell a missing value apart from a zero.
type Shape struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Angle  *float64 `json:"angle"`

	// names of fields that were present but not numbers
	invalid []string
}

// UnmarshalJSON decodes the shape field by field. A field holding something
// other than a number is left nil and remembered, so the annotation is
// skipped at classification instead of failing the whole document.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		name string
		dst  **float64
	}{
		{"x", &s.X}, {"y", &s.Y}, {"width", &s.Width}, {"height", &s.Height}, {"angle", &s.Angle},
	}
	for _, f := range fields {
		v, ok := raw[f.name]
		if !ok || string(v) == "null" {
			continue
		}
		var n float64
		if err := json.Unmarshal(v, &n); err != nil {
			s.invalid = append(s.invalid, f.name)
			continue
		}
		*f.dst = &n
	}
	return nil
}

// AnnotationLabel is one label attached to an annotation. Only the first
// label of an annotation is used.
type AnnotationLabel struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Annotation is a single detector output entry.
type Annotation struct {
	Shape  *Shape            `json:"shape"`
	Labels []AnnotationLabel `json:"labels"`

	// set when the entry could not be decoded
	invalid string
}

// UnmarshalJSON never fails on a badly typed entry. The problem is kept and
// reported as a skipped annotation by Classify, so one bad entry does not
// cost the image.
func (a *Annotation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Shape  json.RawMessage `json:"shape"`
		Labels json.RawMessage `json:"labels"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		a.invalid = "annotation is not an object"
		return nil
	}

	if len(raw.Labels) > 0 && string(raw.Labels) != "null" {
		if err := json.Unmarshal(raw.Labels, &a.Labels); err != nil {
			a.Labels = nil
			a.invalid = "labels is not a list of labels"
		}
	}
	if len(raw.Shape) > 0 && string(raw.Shape) != "null" {
		var sh Shape
		if err := json.Unmarshal(raw.Shape, &sh); err != nil {
			a.invalid = "shape is not an object"
		} else {
			a.Shape = &sh
		}
	}
	return nil
}

// Prediction is the detector's per-image output as written by its to_dict
// export. MediaWidth and MediaHeight are optional.
type Prediction struct {
	Annotations []Annotation `json:"annotations"`
	MediaWidth  int          `json:"media_width,omitempty"`
	MediaHeight int          `json:"media_height,omitempty"`
}

// DecodePrediction reads a prediction document from r.
func DecodePrediction(r io.Reader) (*Prediction, error) {
	var p Prediction
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return &p, nil
}

// LoadPrediction reads a prediction document from a file.
func LoadPrediction(path string) (*Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open prediction: %w", err)
	}
	defer f.Close()

	return DecodePrediction(f)
}

// NewAnnotation builds an annotation from plain values. Mostly useful for
// callers that already hold decoded detections.
func NewAnnotation(label, color string, x, y, width, height, angle float64) Annotation {
	return Annotation{
		Shape: &Shape{
			X:      &x,
			Y:      &y,
			Width:  &width,
			Height: &height,
			Angle:  &angle,
		},
		Labels: []AnnotationLabel{{Name: label, Color: color}},
	}
}
