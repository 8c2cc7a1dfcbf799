package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/mctar/pasteroids/config"
)

// csvFile appends records to one CSV file, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func openCSV(dir, name string) (*csvFile, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvFile{f: f}, nil
}

func (c *csvFile) write(records any) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return err
		}
		c.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, c.f)
}

// OutputManager handles run output: telemetry.csv, perf.csv, waves.csv,
// bookmarks.csv and a copy of the effective config.
type OutputManager struct {
	dir       string
	telemetry *csvFile
	perf      *csvFile
	waves     *csvFile
	bookmarks *csvFile
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	files := []struct {
		name string
		dst  **csvFile
	}{
		{"telemetry.csv", &om.telemetry},
		{"perf.csv", &om.perf},
		{"waves.csv", &om.waves},
		{"bookmarks.csv", &om.bookmarks},
	}
	for _, spec := range files {
		f, err := openCSV(dir, spec.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*spec.dst = f
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	if err := om.telemetry.write([]WindowStats{stats}); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int) error {
	if om == nil {
		return nil
	}
	if err := om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WriteWave writes a finished wave to waves.csv.
func (om *OutputManager) WriteWave(rec WaveRecord) error {
	if om == nil {
		return nil
	}
	if err := om.waves.write([]WaveRecord{rec}); err != nil {
		return fmt.Errorf("writing wave: %w", err)
	}
	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	if err := om.bookmarks.write([]Bookmark{b}); err != nil {
		return fmt.Errorf("writing bookmark: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, c := range []*csvFile{om.telemetry, om.perf, om.waves, om.bookmarks} {
		if c == nil {
			continue
		}
		if err := c.f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ io.Closer = (*OutputManager)(nil)
