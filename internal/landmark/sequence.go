package landmark

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

// Sequencing maps landmark box IDs onto ordinals 1 through 9.
type Sequencing struct {
	// Order lists landmark box IDs by ordinal; Order[0] holds ordinal 1.
	Order []int `json:"order"`

	// Ordinals maps a landmark box ID to its ordinal.
	Ordinals map[int]int `json:"ordinals"`

	// AnchorID is the anchor box that seeded ordinal 2.
	AnchorID int `json:"anchor_id"`

	// Anomalies lists layout observations that did not stop numbering.
	Anomalies []string `json:"anomalies,omitempty"`
}

// Ordinal returns the ordinal of a landmark box ID.
func (s Sequencing) Ordinal(id int) (int, bool) {
	n, ok := s.Ordinals[id]
	return n, ok
}

// Sequence numbers nine landmark boxes by walking them from the reference line.
//
//  1. Ordinal 1 is the landmark closest to the line (perpendicular distance).
//  2. The anchor closest to ordinal 1 is selected.
//  3. Ordinal 2 is the second-closest of the remaining landmarks to that anchor.
//  4. Every later ordinal is the unnumbered landmark closest to the previous one.
//
// Ties go to the box that appears first in landmarks (or anchors). The
// sequencer requires exactly LandmarkCount landmarks and at least
// MinAnchorBoxes anchors.
func Sequence(landmarks, anchors []OrientedBox, line ReferenceLine) (Sequencing, error) {
	if len(landmarks) != LandmarkCount {
		return Sequencing{}, fmt.Errorf("%w: got %d", ErrLandmarkCount, len(landmarks))
	}
	if len(anchors) < MinAnchorBoxes {
		return Sequencing{}, fmt.Errorf("%w: need %d, got %d", ErrInsufficientAnchors, MinAnchorBoxes, len(anchors))
	}
	if err := uniqueIDs(landmarks); err != nil {
		return Sequencing{}, err
	}

	remaining := newIndexSet(len(landmarks))
	order := make([]int, 0, len(landmarks))

	first := argmin(remaining.items(), func(i int) float64 {
		return distanceToLine(landmarks[i].Center(), line)
	})
	remaining.remove(first)
	order = append(order, first)

	anchor := argmin(indices(len(anchors)), func(i int) float64 {
		return distance(anchors[i].Center(), landmarks[first].Center())
	})
	anchorPt := anchors[anchor].Center()

	byAnchor := remaining.items()
	sort.SliceStable(byAnchor, func(a, b int) bool {
		return distance(landmarks[byAnchor[a]].Center(), anchorPt) <
			distance(landmarks[byAnchor[b]].Center(), anchorPt)
	})
	second := byAnchor[1]
	remaining.remove(second)
	order = append(order, second)

	for remaining.size() > 0 {
		prev := landmarks[order[len(order)-1]].Center()
		next := argmin(remaining.items(), func(i int) float64 {
			return distance(landmarks[i].Center(), prev)
		})
		remaining.remove(next)
		order = append(order, next)
	}

	seq := Sequencing{
		Order:    make([]int, len(order)),
		Ordinals: make(map[int]int, len(order)),
		AnchorID: anchors[anchor].ID,
	}
	for n, idx := range order {
		id := landmarks[idx].ID
		seq.Order[n] = id
		seq.Ordinals[id] = n + 1
	}

	nearest := argmin(indices(len(landmarks)), func(i int) float64 {
		return distance(landmarks[i].Center(), anchorPt)
	})
	if nearest != first {
		seq.Anomalies = append(seq.Anomalies, fmt.Sprintf(
			"landmark %d is nearest to anchor %d but landmark %d holds ordinal 1",
			landmarks[nearest].ID, anchors[anchor].ID, landmarks[first].ID))
	}

	return seq, nil
}

// distanceToLine is the perpendicular distance from p to the infinite line
// through the segment's endpoints. A degenerate segment measures to its point.
func distanceToLine(p Point, line ReferenceLine) float64 {
	x1, y1 := line.Start.X, line.Start.Y
	x2, y2 := line.End.X, line.End.Y
	den := math.Hypot(y2-y1, x2-x1)
	if den == 0 {
		return distance(p, line.Start)
	}
	return math.Abs((y2-y1)*p.X-(x2-x1)*p.Y+x2*y1-y2*x1) / den
}

func distance(a, b Point) float64 {
	return r2.Norm(r2.Sub(a.vec(), b.vec()))
}

// argmin returns the candidate with the smallest score, keeping the earliest
// candidate on ties. candidates must be non-empty.
func argmin(candidates []int, score func(int) float64) int {
	best := candidates[0]
	bestScore := score(best)
	for _, c := range candidates[1:] {
		if s := score(c); s < bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func uniqueIDs(boxes []OrientedBox) error {
	seen := make(map[int]struct{}, len(boxes))
	for _, b := range boxes {
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("duplicate landmark id %d", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// indexSet is the pool of unnumbered landmark indices, iterated in ascending
// order so tie-breaking stays stable.
type indexSet struct {
	present []bool
	count   int
}

func newIndexSet(n int) *indexSet {
	s := &indexSet{present: make([]bool, n), count: n}
	for i := range s.present {
		s.present[i] = true
	}
	return s
}

func (s *indexSet) remove(i int) {
	if s.present[i] {
		s.present[i] = false
		s.count--
	}
}

func (s *indexSet) size() int {
	return s.count
}

func (s *indexSet) items() []int {
	out := make([]int, 0, s.count)
	for i, ok := range s.present {
		if ok {
			out = append(out, i)
		}
	}
	return out
}
