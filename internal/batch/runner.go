// Package batch sequences every image in a folder and writes overlays, CSV
// tables and store records for them.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cyclopcam/logs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/radial-sequencer/internal/config"
	"github.com/ironsheep/radial-sequencer/internal/export"
	"github.com/ironsheep/radial-sequencer/internal/imaging"
	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

// Output file prefixes for rendered overlays.
const (
	UsablePrefix   = "numbered_"
	UnusablePrefix = "unusable_"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true}

// Runner processes one input folder per Run call.
type Runner struct {
	Config  *config.Config
	Log     logs.Log
	Cache   *imaging.ImageCache
	Store   *export.Store // optional
	Overlay imaging.OverlayOptions
}

// ImageOutcome reports what happened to one image.
type ImageOutcome struct {
	Image   string `json:"image"`
	Usable  bool   `json:"usable"`
	Reason  string `json:"reason,omitempty"`
	Overlay string `json:"overlay,omitempty"`
	CSV     string `json:"csv,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Summary describes a finished run.
type Summary struct {
	RunID    string         `json:"run_id"`
	Total    int            `json:"total"`
	Usable   int            `json:"usable"`
	Unusable int            `json:"unusable"`
	Failed   int            `json:"failed"`
	Images   []ImageOutcome `json:"images"`
}

// NewRunner builds a runner with a fresh image cache and default overlay
// options. Store is left nil.
func NewRunner(cfg *config.Config, log logs.Log) *Runner {
	return &Runner{
		Config:  cfg,
		Log:     log,
		Cache:   imaging.NewImageCache(),
		Overlay: imaging.DefaultOverlayOptions(),
	}
}

// Run lists the images of the input folder, sequences them in parallel and
// writes results. A failure on one image is logged and counted in Failed; it
// never stops the others. Run returns an error only when the folder cannot be
// read, the output cannot be created, the store cannot start the run, or ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	cfg := r.Config
	if err := cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("invalid config: %w", err)
	}

	names, err := ListImages(cfg.InputDir)
	if err != nil {
		return Summary{}, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	sum := Summary{RunID: uuid.NewString(), Total: len(names)}
	if r.Store != nil {
		if err := r.Store.BeginRun(ctx, sum.RunID, cfg.InputDir); err != nil {
			return Summary{}, err
		}
	}
	r.Log.Infof("Run %v: %v images in %v", sum.RunID, len(names), cfg.InputDir)

	outcomes := make([]ImageOutcome, len(names))
	var inputs []landmark.ImageInput
	var slots []int
	for i, name := range names {
		outcomes[i].Image = name
		in, err := r.prepare(name)
		if err != nil {
			r.Log.Errorf("Failed %v: %v", name, err)
			outcomes[i].Error = err.Error()
			continue
		}
		inputs = append(inputs, in)
		slots = append(slots, i)
	}

	results := landmark.ProcessBatch(ctx, inputs, cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for k := range results {
		res := results[k]
		out := &outcomes[slots[k]]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.finish(res, out); err != nil {
				r.Log.Errorf("Failed %v: %v", res.Image, err)
				out.Error = err.Error()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return sum, err
	}
	if err := ctx.Err(); err != nil {
		return sum, err
	}

	for k, res := range results {
		out := &outcomes[slots[k]]
		if out.Error != "" || r.Store == nil {
			continue
		}
		if err := r.Store.RecordResult(ctx, sum.RunID, res); err != nil {
			r.Log.Errorf("Failed to record %v: %v", res.Image, err)
			out.Error = err.Error()
		}
	}

	for _, o := range outcomes {
		switch {
		case o.Error != "":
			sum.Failed++
		case o.Usable:
			sum.Usable++
		default:
			sum.Unusable++
		}
	}
	sum.Images = outcomes
	r.Log.Infof("Run %v done: %v usable, %v unusable, %v failed", sum.RunID, sum.Usable, sum.Unusable, sum.Failed)
	return sum, nil
}

// prepare loads the image size and prediction file for one image. The decoded
// image is dropped again right away; finish reloads it, so at most Workers
// images are held at once.
func (r *Runner) prepare(name string) (landmark.ImageInput, error) {
	pred, err := landmark.LoadPrediction(PredictionPath(r.Config.Predictions(), name))
	if err != nil {
		return landmark.ImageInput{}, err
	}

	path := filepath.Join(r.Config.InputDir, name)
	dims, err := imaging.GetDimensions(r.Cache, path)
	r.Cache.Evict(path)
	if err != nil {
		return landmark.ImageInput{}, err
	}
	if (pred.MediaWidth > 0 && pred.MediaWidth != dims.Width) || (pred.MediaHeight > 0 && pred.MediaHeight != dims.Height) {
		r.Log.Warnf("%v: prediction media size %vx%v differs from image %vx%v, using image size",
			name, pred.MediaWidth, pred.MediaHeight, dims.Width, dims.Height)
	}

	return landmark.ImageInput{
		Name:        name,
		Width:       float64(dims.Width),
		Height:      float64(dims.Height),
		Annotations: pred.Annotations,
		Labels:      r.Config.Labels(),
	}, nil
}

// finish renders the overlay and writes the CSV table for one result.
func (r *Runner) finish(res landmark.Result, out *ImageOutcome) error {
	out.Usable = res.Usable
	out.Reason = res.Reason
	if errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded) {
		return res.Err
	}
	for _, s := range res.Detections.Skipped {
		r.Log.Debugf("%v: skipped annotation %v (%v): %v", res.Image, s.Index, s.Label, s.Reason)
	}
	if res.Sequencing != nil {
		for _, a := range res.Sequencing.Anomalies {
			r.Log.Warnf("%v: %v", res.Image, a)
		}
	}

	src := filepath.Join(r.Config.InputDir, res.Image)
	defer r.Cache.Evict(src)
	img, err := r.Cache.Load(src)
	if err != nil {
		return err
	}
	rendered, err := imaging.RenderOverlay(img, res, r.Overlay)
	if err != nil {
		return err
	}

	prefix := UnusablePrefix
	if res.Usable {
		prefix = UsablePrefix
	}
	out.Overlay = filepath.Join(r.Config.OutputDir, prefix+res.Image)
	if err := imaging.SaveImage(out.Overlay, rendered); err != nil {
		return err
	}

	if res.Usable {
		out.CSV, err = export.SaveCSV(r.Config.OutputDir, res.Image, res.Table)
		if err != nil {
			return err
		}
		r.Log.Infof("Processed %v - usable", res.Image)
	} else {
		r.Log.Infof("Processed %v - unusable (%v)", res.Image, res.Reason)
	}
	return nil
}

// ListImages returns the PNG and JPEG file names in dir, sorted.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// PredictionPath returns the prediction file for an image: <stem>.json in dir.
func PredictionPath(dir, imageName string) string {
	stem := strings.TrimSuffix(imageName, filepath.Ext(imageName))
	return filepath.Join(dir, stem+".json")
}
