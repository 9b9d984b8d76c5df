// Package detector holds the independent signal detectors.
//
// A Detector is a pure function of indicator frame rows: it inspects the
// row at Context.Index (and where noted the previous row) and returns one
// DetectorVerdict. Detectors never mutate shared state and are evaluated
// in the fixed Registry order by the aggregator.
package detector

import (
	"math"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/trend"
)

// Context carries the inputs of one detector evaluation. Index addresses
// the row under evaluation (normally the latest candle; the backtester
// walks it over history).
type Context struct {
	Frame   *indicator.Frame
	Candles model.Series
	Index   int
	Profile model.Profile
	Trend   trend.Regime
}

// Close returns the close at the evaluated row.
func (c Context) Close() float64 { return c.Candles[c.Index].Close }

// PrevClose returns the close one row back, or NaN at the series start.
func (c Context) PrevClose() float64 {
	if c.Index == 0 {
		return nanValue
	}
	return c.Candles[c.Index-1].Close
}

// Volume returns the volume at the evaluated row.
func (c Context) Volume() float64 { return c.Candles[c.Index].Volume }

// HighVolume reports whether volume exceeds its 20-bar moving average.
// False when the average is still undefined.
func (c Context) HighVolume() bool {
	vma := c.Frame.VolumeMA[c.Index]
	return indicator.Defined(vma) && c.Volume() > vma
}

// ADX returns the ADX at the evaluated row (possibly NaN).
func (c Context) ADX() float64 { return c.Frame.ADX[c.Index] }

// Detector is the uniform capability the aggregator iterates.
type Detector interface {
	// Name returns the fixed ConfirmationVector key of this detector.
	Name() string

	// Evaluate inspects the context and returns a verdict. Undefined
	// indicator inputs yield HOLD with a "data unavailable" message,
	// never an error.
	Evaluate(ctx Context) model.DetectorVerdict
}

// Registry returns the fixed ordered detector set. Each evaluation cycle
// produces exactly one verdict per registry entry.
func Registry() []Detector {
	return []Detector{
		&EMACrossover{},
		&OscillatorBottom{},
		&SupportResistance{},
		&Breakout{},
		&MACDSignal{},
		&ADXStrength{},
	}
}

var nanValue = math.NaN()

func hold(name, message string) model.DetectorVerdict {
	return model.DetectorVerdict{Detector: name, Action: model.ActionHold, Message: message}
}

func vote(name string, action model.Action, message string) model.DetectorVerdict {
	return model.DetectorVerdict{
		Detector:  name,
		Action:    action,
		Message:   message,
		Confirmed: action != model.ActionHold,
	}
}
