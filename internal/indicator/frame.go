// Package indicator provides pure technical-indicator computations over
// candle series.
//
// Every function consumes immutable input slices and returns freshly
// allocated derived series aligned by index with the input. Warm-up values
// are NaN ("undefined"); callers must treat NaN as "no signal", never as
// zero. Given identical input and configuration, output is bit-identical.
package indicator

// Frame holds all derived series for one evaluation cycle, aligned by
// index with the source candle series.
type Frame struct {
	EMA map[int][]float64 // keyed by period

	RSI []float64

	ADX     []float64
	PlusDI  []float64
	MinusDI []float64

	ATR []float64

	MACDLine   []float64
	MACDSignal []float64
	MACDHist   []float64

	StochK []float64
	StochD []float64

	WVIX      []float64
	WVIXUpper []float64
	WVIXLower []float64

	VolumeMA          []float64
	Support           []float64
	Resistance        []float64
	BreakoutThreshold []float64
}

// Len returns the row count of the frame.
func (f *Frame) Len() int { return len(f.RSI) }

// Config fixes the periods and windows of the pipeline. Zero values are
// not defaulted; use DefaultConfig as the base.
type Config struct {
	EMAPeriods  []int
	RSIPeriod   int
	ADXPeriod   int
	ATRPeriod   int
	MACDShort   int
	MACDLong    int
	MACDSignal  int
	StochK      int
	StochD      int
	WVIXPeriod  int
	WVIXBB      int
	WVIXMult    float64
	SRWindow    int // support/resistance and volume-MA window
	BreakoutPct float64
}

// DefaultConfig returns the standard pipeline configuration for the given
// EMA ladder, RSI period and breakout percentage.
func DefaultConfig(emaPeriods []int, rsiPeriod int, breakoutPct float64) Config {
	return Config{
		EMAPeriods:  emaPeriods,
		RSIPeriod:   rsiPeriod,
		ADXPeriod:   14,
		ATRPeriod:   14,
		MACDShort:   12,
		MACDLong:    26,
		MACDSignal:  9,
		StochK:      14,
		StochD:      3,
		WVIXPeriod:  22,
		WVIXBB:      20,
		WVIXMult:    2.0,
		SRWindow:    20,
		BreakoutPct: breakoutPct,
	}
}

// Compute runs the full pipeline over the candle columns and returns a new
// Frame. It has no side effects and is deterministic.
func Compute(highs, lows, closes, volumes []float64, cfg Config) *Frame {
	f := &Frame{EMA: make(map[int][]float64, len(cfg.EMAPeriods))}

	for _, p := range cfg.EMAPeriods {
		f.EMA[p] = EMA(closes, p)
	}

	f.RSI = RSI(closes, cfg.RSIPeriod)
	f.ADX, f.PlusDI, f.MinusDI = ADX(highs, lows, closes, cfg.ADXPeriod)
	f.ATR = ATR(highs, lows, closes, cfg.ATRPeriod)
	f.MACDLine, f.MACDSignal, f.MACDHist = MACD(closes, cfg.MACDShort, cfg.MACDLong, cfg.MACDSignal)
	f.StochK, f.StochD = Stochastic(highs, lows, closes, cfg.StochK, cfg.StochD)
	f.WVIX, f.WVIXUpper, f.WVIXLower = WilliamsVixFix(highs, closes, cfg.WVIXPeriod, cfg.WVIXBB, cfg.WVIXMult)

	f.VolumeMA = rollingMean(volumes, cfg.SRWindow)
	f.Support = rollingMin(closes, cfg.SRWindow)
	f.Resistance = rollingMax(closes, cfg.SRWindow)

	maxClose := rollingMax(closes, cfg.SRWindow)
	f.BreakoutThreshold = make([]float64, len(closes))
	for i := range maxClose {
		if !Defined(maxClose[i]) {
			f.BreakoutThreshold[i] = nan
			continue
		}
		f.BreakoutThreshold[i] = maxClose[i] * (1 + cfg.BreakoutPct)
	}

	return f
}
