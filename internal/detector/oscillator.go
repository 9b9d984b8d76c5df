package detector

import (
	"fmt"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/trend"
)

// OscillatorBottom is the RSI + Stochastic + Williams VIX Fix composite.
// It fires BUY only on the triple-confirmed panic condition: RSI oversold,
// both stochastic lines under 20, and WVIX below its lower Bollinger bound.
// There is no symmetric SELL; overbought RSI surfaces as trend-adjusted
// commentary instead of a hard vote.
type OscillatorBottom struct{}

func (d *OscillatorBottom) Name() string { return model.DetectorOscillator }

func (d *OscillatorBottom) Evaluate(ctx Context) model.DetectorVerdict {
	f := ctx.Frame
	i := ctx.Index
	rsi := f.RSI[i]
	k := f.StochK[i]
	dLine := f.StochD[i]
	wvix := f.WVIX[i]
	lower := f.WVIXLower[i]

	if !indicator.Defined(rsi) || !indicator.Defined(k) || !indicator.Defined(dLine) ||
		!indicator.Defined(wvix) || !indicator.Defined(lower) {
		return hold(d.Name(), "RSI/Stochastic/WVIX data unavailable")
	}

	oversold := rsi < ctx.Profile.Oversold
	stochOversold := k < 20 && dLine < 20
	wvixBottom := wvix < lower

	if oversold && stochOversold && wvixBottom {
		return vote(d.Name(), model.ActionBuy,
			fmt.Sprintf("Potential bottom — RSI %.2f oversold, Stochastic K %.2f & D %.2f < 20, WVIX %.2f below lower band %.2f",
				rsi, k, dLine, wvix, lower))
	}

	msg := fmt.Sprintf("RSI %.2f, Stochastic K %.2f / D %.2f, WVIX %.2f — no bottom signal", rsi, k, dLine, wvix)
	if note := rsiCommentary(rsi, ctx.Trend, ctx.Profile); note != "" {
		msg += "\n" + note
	}
	return hold(d.Name(), msg)
}

// rsiCommentary produces the trend-adjusted RSI note: the buy threshold is
// raised to 40 in strong/moderate uptrends and the sell threshold lowered
// to 60 in strong/moderate downtrends.
func rsiCommentary(rsi float64, regime trend.Regime, p model.Profile) string {
	buyThreshold := p.Oversold
	if regime == trend.StrongUptrend || regime == trend.ModerateUptrend {
		buyThreshold = 40
	}
	sellThreshold := p.Overbought
	if regime == trend.StrongDowntrend || regime == trend.ModerateDowntrend {
		sellThreshold = 60
	}

	switch {
	case rsi > sellThreshold:
		return fmt.Sprintf("RSI %.2f > %.0f — overbought, potential sell pressure", rsi, sellThreshold)
	case rsi < buyThreshold:
		return fmt.Sprintf("RSI %.2f < %.0f — oversold, potential buy zone", rsi, buyThreshold)
	default:
		return ""
	}
}
