package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"StockPulse/internal/model"
)

// Output document names inside the output directory.
const (
	StocksFile  = "stocks.json"
	SummaryFile = "summary.json"
	HistoryDir  = "history"
)

// Writer persists one cycle's documents, fully replacing the previous ones.
type Writer struct {
	Dir string
	// Bars, when set, also exports each symbol's series under HistoryDir.
	Bars BarSaver
}

// NewWriter creates a writer for dir. An empty barsFormat disables the history export.
func NewWriter(dir, barsFormat string) (*Writer, error) {
	w := &Writer{Dir: dir}
	if barsFormat != "" {
		s := NewBarSaver(barsFormat)
		if s == nil {
			return nil, fmt.Errorf("unsupported bars format %q (use json, csv, parquet)", barsFormat)
		}
		w.Bars = s
	}
	return w, nil
}

// Write creates the directory if needed and overwrites stocks.json and summary.json.
func (w *Writer) Write(profiles []*model.Profile, summary *model.Summary) error {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if profiles == nil {
		profiles = []*model.Profile{}
	}
	if err := writeJSON(filepath.Join(w.Dir, StocksFile), profiles); err != nil {
		return fmt.Errorf("write %s: %w", StocksFile, err)
	}
	if err := writeJSON(filepath.Join(w.Dir, SummaryFile), summary); err != nil {
		return fmt.Errorf("write %s: %w", SummaryFile, err)
	}
	if w.Bars != nil {
		if err := w.WriteHistory(profiles); err != nil {
			return err
		}
	}
	return nil
}

// WriteHistory exports the bar series of every profile as history/<SYMBOL>.<ext>.
func (w *Writer) WriteHistory(profiles []*model.Profile) error {
	dir := filepath.Join(w.Dir, HistoryDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	for _, p := range profiles {
		path := filepath.Join(dir, p.Symbol+"."+w.Bars.Extension())
		if err := w.Bars.Save(ToRows(p.Bars()), path); err != nil {
			return fmt.Errorf("save %s history: %w", p.Symbol, err)
		}
	}
	return nil
}

// writeJSON writes v with 2-space indentation through a temp file and rename,
// so a reader never sees a half-written document.
func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
