package model

import "time"

// Bar represents a single daily OHLCV observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Closes returns the closing prices of bars in order.
func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Volumes returns the volumes of bars in order, as float64 for windowed math.
func Volumes(bars []Bar) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = float64(b.Volume)
	}
	return vols
}

// HistoricalBar is the serialized form of a Bar in the stocks document.
type HistoricalBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// ToHistorical converts a series for charting output.
func ToHistorical(bars []Bar) []HistoricalBar {
	out := make([]HistoricalBar, len(bars))
	for i, b := range bars {
		out[i] = HistoricalBar{
			Date:   b.Date.Format("2006-01-02"),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return out
}
