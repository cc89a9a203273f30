package landmark

import (
	"math"
)

// ringSlot returns the position of slot k of ten slots spaced 36 degrees
// apart on a circle of radius 40 around (50, 50), starting straight down.
func ringSlot(k int) (float64, float64) {
	phi := (90 + 36*float64(k)) * math.Pi / 180
	return 50 + 40*math.Cos(phi), 50 + 40*math.Sin(phi)
}

// ringAnnotations builds a 100x100 layout: a center box at (50, 50) whose
// perpendicular line is vertical, nine landmarks on ring slots 0-9 with slot 5
// (top) left empty, one anchor just below slot 0 and one above the gap.
// Landmarks are listed in a scrambled slot order.
func ringAnnotations() []Annotation {
	anns := []Annotation{
		NewAnnotation("CP", "#00ff00ff", 50, 50, 30, 10, 0),
		NewAnnotation("B-MT", "#0000ffff", 52, 97, 8, 8, 0),
		NewAnnotation("B-MT", "#0000ffff", 50, 3, 8, 8, 0),
	}
	for _, k := range []int{6, 2, 9, 0, 4, 1, 8, 3, 7} {
		x, y := ringSlot(k)
		anns = append(anns, NewAnnotation("MTD", "#ff0000ff", x, y, 12, 6, 36*float64(k)))
	}
	return anns
}

// ringExpectedSlots is the slot order the sequencer should produce for
// ringAnnotations.
var ringExpectedSlots = []int{0, 1, 2, 3, 4, 6, 7, 8, 9}

func ringInput() ImageInput {
	return ImageInput{
		Name:        "ring.png",
		Width:       100,
		Height:      100,
		Annotations: ringAnnotations(),
		Labels:      DefaultLabels(),
	}
}
