package detector

import (
	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

// MACDSignal votes BUY while the MACD line is above its signal line and
// SELL while below. A histogram sign flip versus the previous bar is
// flagged as a momentum shift, the earlier and stronger form of the signal.
type MACDSignal struct{}

func (d *MACDSignal) Name() string { return model.DetectorMACD }

func (d *MACDSignal) Evaluate(ctx Context) model.DetectorVerdict {
	f := ctx.Frame
	i := ctx.Index
	line := f.MACDLine[i]
	signal := f.MACDSignal[i]
	if !indicator.Defined(line) || !indicator.Defined(signal) || i == 0 {
		return hold(d.Name(), "MACD data unavailable")
	}

	hist := f.MACDHist[i]
	prevHist := f.MACDHist[i-1]
	shift := indicator.Defined(prevHist) &&
		((hist > 0 && prevHist < 0) || (hist < 0 && prevHist > 0))

	switch {
	case line > signal && shift:
		return vote(d.Name(), model.ActionBuy, "MACD bullish momentum shift — early uptrend signal")
	case line > signal:
		return vote(d.Name(), model.ActionBuy, "MACD bullish crossover — uptrend")
	case line < signal && shift:
		return vote(d.Name(), model.ActionSell, "MACD bearish momentum shift — early downtrend signal")
	case line < signal:
		return vote(d.Name(), model.ActionSell, "MACD bearish crossover — downtrend")
	default:
		return hold(d.Name(), "MACD neutral — no strong trend confirmation")
	}
}
