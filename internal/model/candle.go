package model

import (
	"encoding/json"
	"time"
)

// Candle represents one OHLCV bar for a single instrument.
// Prices and volume are float64 since Binance quotes fractional
// quantities, so integer paise-style storage does not apply here.
type Candle struct {
	TS     time.Time `json:"ts"` // bar open time (UTC)
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// JSON returns the JSON-encoded candle (ignoring errors for hot-path usage).
func (c *Candle) JSON() []byte {
	b, _ := json.Marshal(c)
	return b
}

// Series is an ordered candle sequence with strictly increasing timestamps
// and a fixed interval. A Series is owned by one evaluation cycle and never
// mutated after fetch.
type Series []Candle

// Closes extracts the close price column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Close
	}
	return out
}

// Highs extracts the high price column.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].High
	}
	return out
}

// Lows extracts the low price column.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Low
	}
	return out
}

// Volumes extracts the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Volume
	}
	return out
}

// Last returns the most recent candle. Panics on an empty series; callers
// must check length first.
func (s Series) Last() Candle {
	return s[len(s)-1]
}
