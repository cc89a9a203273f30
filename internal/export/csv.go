package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/radial-sequencer/internal/landmark"
)

// CSVSuffix is appended to an image's stem to name its coordinate table.
const CSVSuffix = "_coords.csv"

// CSVName returns the table file name for an image, e.g. "a.png" -> "a_coords.csv".
func CSVName(imageName string) string {
	base := filepath.Base(imageName)
	return strings.TrimSuffix(base, filepath.Ext(base)) + CSVSuffix
}

// WriteCSV writes the table header followed by one record per row. An empty
// table still produces the header.
func WriteCSV(w io.Writer, table landmark.Table) error {
	cols := table.Columns
	if len(cols) == 0 {
		cols = landmark.TableColumns
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range table.Rows {
		rec := []string{
			strconv.Itoa(r.Ordinal),
			strconv.FormatFloat(r.OriginX, 'f', -1, 64),
			strconv.FormatFloat(r.OriginY, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", r.Ordinal, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes table to dir/CSVName(imageName) and returns the path.
func SaveCSV(dir, imageName string, table landmark.Table) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	path := filepath.Join(dir, CSVName(imageName))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create csv: %w", err)
	}

	if err := WriteCSV(f, table); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close csv: %w", err)
	}
	return path, nil
}
