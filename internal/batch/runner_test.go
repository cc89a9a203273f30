package batch

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/radial-sequencer/internal/config"
	"github.com/ironsheep/radial-sequencer/internal/export"
	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

// ringAnnotations places nine landmarks on a circle around (50, 50) with the
// slot at 270 degrees left empty.
func ringAnnotations(landmarks int) []landmark.Annotation {
	anns := []landmark.Annotation{
		landmark.NewAnnotation("CP", "#00ff00", 50, 50, 30, 10, 0),
		landmark.NewAnnotation("B-MT", "#0000ff", 52, 97, 8, 8, 0),
		landmark.NewAnnotation("B-MT", "#0000ff", 50, 3, 8, 8, 0),
	}
	for _, k := range []int{0, 1, 2, 3, 4, 6, 7, 8, 9}[:landmarks] {
		phi := (90 + 36*float64(k)) * math.Pi / 180
		anns = append(anns, landmark.NewAnnotation("MTD", "#ffff00", 50+40*math.Cos(phi), 50+40*math.Sin(phi), 10, 6, 0))
	}
	return anns
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.Gray{Y: 40})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writePrediction(t *testing.T, path string, p landmark.Prediction) {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// setupFolder creates good.png (sequenceable), short.png (eight landmarks),
// orphan.png (no prediction) and a stray text file.
func setupFolder(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	in := filepath.Join(root, "in")
	require.NoError(t, os.MkdirAll(in, 0o755))

	writePNG(t, filepath.Join(in, "good.png"), 100, 100)
	writePrediction(t, filepath.Join(in, "good.json"), landmark.Prediction{Annotations: ringAnnotations(9)})

	writePNG(t, filepath.Join(in, "short.png"), 100, 100)
	writePrediction(t, filepath.Join(in, "short.json"), landmark.Prediction{Annotations: ringAnnotations(8)})

	writePNG(t, filepath.Join(in, "orphan.png"), 100, 100)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("ignore"), 0o644))

	return &config.Config{
		InputDir:      in,
		OutputDir:     filepath.Join(root, "out"),
		Workers:       2,
		LabelLandmark: "MTD",
		LabelAnchor:   "B-MT",
		LabelCenter:   "CP",
	}
}

func TestListImages(t *testing.T) {
	cfg := setupFolder(t)
	names, err := ListImages(cfg.InputDir)
	require.NoError(t, err)
	require.Equal(t, []string{"good.png", "orphan.png", "short.png"}, names)

	_, err = ListImages(filepath.Join(cfg.InputDir, "missing"))
	require.Error(t, err)
}

func TestPredictionPath(t *testing.T) {
	require.Equal(t, filepath.Join("/p", "a.b.json"), PredictionPath("/p", "a.b.jpg"))
}

func TestRunner_Run(t *testing.T) {
	cfg := setupFolder(t)
	r := NewRunner(cfg, logs.NewTestingLog(t))

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, sum.RunID)
	require.Equal(t, 3, sum.Total)
	require.Equal(t, 1, sum.Usable)
	require.Equal(t, 1, sum.Unusable)
	require.Equal(t, 1, sum.Failed)
	require.Len(t, sum.Images, 3)

	byName := map[string]ImageOutcome{}
	for _, o := range sum.Images {
		byName[o.Image] = o
	}

	good := byName["good.png"]
	require.True(t, good.Usable)
	require.Equal(t, filepath.Join(cfg.OutputDir, "numbered_good.png"), good.Overlay)
	require.FileExists(t, good.Overlay)
	require.FileExists(t, good.CSV)

	data, err := os.ReadFile(good.CSV)
	require.NoError(t, err)
	require.Contains(t, string(data), "ordinal,origin_x,origin_y\n1,50,90\n")

	short := byName["short.png"]
	require.False(t, short.Usable)
	require.Contains(t, short.Reason, "expected 9 landmark boxes, found 8")
	require.FileExists(t, filepath.Join(cfg.OutputDir, "unusable_short.png"))
	require.Empty(t, short.CSV)
	require.NoFileExists(t, filepath.Join(cfg.OutputDir, "short_coords.csv"))

	require.NotEmpty(t, byName["orphan.png"].Error)
	require.Equal(t, 0, r.Cache.Len())
}

func TestRunner_PrepareReleasesImage(t *testing.T) {
	cfg := setupFolder(t)
	r := NewRunner(cfg, logs.NewTestingLog(t))

	for _, name := range []string{"good.png", "short.png"} {
		in, err := r.prepare(name)
		require.NoError(t, err)
		require.Equal(t, 100.0, in.Width)
		require.Equal(t, 100.0, in.Height)
		require.Equal(t, 0, r.Cache.Len(), "%v still cached after prepare", name)
	}

	_, err := r.prepare("orphan.png")
	require.Error(t, err)
	require.Equal(t, 0, r.Cache.Len())
}

func TestRunner_RecordsToStore(t *testing.T) {
	cfg := setupFolder(t)
	store, err := export.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	r := NewRunner(cfg, logs.NewTestingLog(t))
	r.Store = store

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	recs, err := store.Results(context.Background(), sum.RunID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, "good.png", recs[0].Image)
	require.True(t, recs[0].Usable)
	require.Len(t, recs[0].Rows, 9)
	require.NotNil(t, recs[0].Line)
	require.Equal(t, "short.png", recs[1].Image)
	require.False(t, recs[1].Usable)
	require.Empty(t, recs[1].Rows)
}

func TestRunner_SeparatePredictionsDir(t *testing.T) {
	cfg := setupFolder(t)
	pred := filepath.Join(t.TempDir(), "pred")
	require.NoError(t, os.MkdirAll(pred, 0o755))
	writePrediction(t, filepath.Join(pred, "orphan.json"), landmark.Prediction{Annotations: ringAnnotations(9)})
	cfg.PredictionsDir = pred

	sum, err := NewRunner(cfg, logs.NewTestingLog(t)).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Usable)
	require.Equal(t, 2, sum.Failed)
}

func TestRunner_InvalidConfig(t *testing.T) {
	cfg := setupFolder(t)
	cfg.Workers = 0
	_, err := NewRunner(cfg, logs.NewTestingLog(t)).Run(context.Background())
	require.Error(t, err)
}

func TestRunner_Cancelled(t *testing.T) {
	cfg := setupFolder(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(cfg, logs.NewTestingLog(t)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
