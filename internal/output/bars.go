package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"

	"StockPulse/internal/model"
)

// BarRow is the flat record written by every BarSaver.
type BarRow struct {
	Date   string  `json:"date" parquet:"date"`
	Open   float64 `json:"open" parquet:"open"`
	High   float64 `json:"high" parquet:"high"`
	Low    float64 `json:"low" parquet:"low"`
	Close  float64 `json:"close" parquet:"close"`
	Volume int64   `json:"volume" parquet:"volume"`
}

// ToRows converts a series into export rows.
func ToRows(bars []model.Bar) []BarRow {
	rows := make([]BarRow, len(bars))
	for i, b := range bars {
		rows[i] = BarRow{
			Date:   b.Date.Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return rows
}

// BarSaver writes one symbol's series to a file.
type BarSaver interface {
	Save(rows []BarRow, path string) error
	Extension() string
}

// NewBarSaver returns the saver for format (csv, parquet, json), or nil if unsupported.
func NewBarSaver(format string) BarSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// JSONSaver writes rows as an indented JSON array.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(rows []BarRow, path string) error {
	if rows == nil {
		rows = []BarRow{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CSVSaver writes rows with a date,open,high,low,close,volume header.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(rows []BarRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeCSV(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(out io.Writer, rows []BarRow) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"date", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{
			r.Date,
			floatStr(r.Open),
			floatStr(r.High),
			floatStr(r.Low),
			floatStr(r.Close),
			strconv.FormatInt(r.Volume, 10),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ParquetSaver writes rows as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(rows []BarRow, path string) error {
	return parquet.WriteFile(path, rows)
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
