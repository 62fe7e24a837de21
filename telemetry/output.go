package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// WriteCSV flushes all recorded events to dir/events.csv.
func (r *Recorder) WriteCSV(dir string) error {
	if r == nil || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("telemetry: create output dir: %w", err)
	}
	path := filepath.Join(dir, "events.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("telemetry: create %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(&r.events, f); err != nil {
		return fmt.Errorf("telemetry: write %s: %w", path, err)
	}
	return nil
}
