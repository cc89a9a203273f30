package landmark

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// ImageInput is one image's detections plus the image size they refer to.
type ImageInput struct {
	Name        string
	Width       float64
	Height      float64
	Annotations []Annotation
	Labels      LabelSet
}

// Process runs classification, the usability gate, line construction,
// sequencing and assembly for one image.
//
// Failures never escape as errors or panics: an unusable set, missing anchors
// or bad geometry all produce a Result with Usable false and Err set.
func Process(in ImageInput) Result {
	set := Classify(in.Annotations, in.Labels)
	verdict := CheckUsable(set)

	res := process(in, set, verdict)
	res.Image = in.Name
	res.Width = in.Width
	res.Height = in.Height
	return res
}

func process(in ImageInput, set DetectionSet, verdict Verdict) Result {
	if !verdict.Usable {
		return Unusable(verdict, set, verdict.Err())
	}

	center, _ := set.Center()
	line, err := BuildReferenceLine(center, in.Width, in.Height)
	if err != nil {
		return Unusable(verdict, set, fmt.Errorf("reference line: %w", err))
	}

	seq, err := Sequence(set.Landmarks, set.Anchors, line)
	if err != nil {
		return Unusable(verdict, set, fmt.Errorf("sequence: %w", err))
	}

	return Assemble(verdict, &line, &seq, set)
}

// ProcessBatch runs Process over inputs with at most workers images in flight
// and returns results in input order.
//
// Images share no state, so the only coordination is result collection. A
// cancelled context stops new images from starting; those are returned as
// unusable with the context error.
func ProcessBatch(ctx context.Context, inputs []ImageInput, workers int) []Result {
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range inputs {
		i := i
		in := inputs[i]
		if err := gctx.Err(); err != nil {
			results[i] = cancelled(in, err)
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = cancelled(in, err)
				return nil
			}
			results[i] = Process(in)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func cancelled(in ImageInput, err error) Result {
	res := Unusable(Verdict{Reason: "not processed"}, DetectionSet{}, err)
	res.Image = in.Name
	res.Width = in.Width
	res.Height = in.Height
	return res
}
