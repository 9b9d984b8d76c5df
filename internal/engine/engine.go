// Package engine runs the full per-symbol evaluation pipeline: candles in,
// aggregated trade decision plus a rich detail message out. Each call
// recomputes everything from the candle history it is given; the engine
// keeps no state between calls.
package engine

import (
	"fmt"
	"strings"

	"crypto-sentinelv1/internal/decision"
	"crypto-sentinelv1/internal/detector"
	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/trend"
)

// Evaluation is the complete outcome of one symbol evaluation.
type Evaluation struct {
	Symbol     string
	Price      float64
	Trend      trend.Regime
	TrendScore int
	Vector     model.ConfirmationVector
	Decision   model.TradeDecision
	VolumeMA   float64
	Detail     string
}

// Evaluate computes indicators over the candle history, classifies the
// trend, runs every registered detector on the latest row and fuses the
// verdicts into one decision. Fewer than two candles yields an all-HOLD
// vector with explicit "data unavailable" messages, never an error.
func Evaluate(symbol string, candles model.Series, profile model.Profile, pol decision.Policy) Evaluation {
	if len(candles) < 2 {
		return insufficientData(symbol, candles)
	}

	highs := candles.Highs()
	lows := candles.Lows()
	closes := candles.Closes()
	volumes := candles.Volumes()

	cfg := indicator.DefaultConfig(profile.EMAPeriods, profile.RSIPeriod, profile.BreakoutPct)
	frame := indicator.Compute(highs, lows, closes, volumes, cfg)

	regime := trend.Classify(frame, closes, profile)
	score := trend.Score(frame, closes, volumes, profile)

	last := len(candles) - 1
	ctx := detector.Context{
		Frame:   frame,
		Candles: candles,
		Index:   last,
		Profile: profile,
		Trend:   regime,
	}

	vector := make(model.ConfirmationVector, len(model.DetectorNames))
	for _, d := range detector.Registry() {
		vector[d.Name()] = d.Evaluate(ctx)
	}

	dec := decision.Aggregate(decision.Inputs{
		Vector:    vector,
		Trend:     regime,
		ADX:       frame.ADX[last],
		Volume:    volumes[last],
		VolumeMA:  frame.VolumeMA[last],
		Close:     closes[last],
		PrevClose: closes[last-1],
	}, pol)

	ev := Evaluation{
		Symbol:     symbol,
		Price:      closes[last],
		Trend:      regime,
		TrendScore: score,
		Vector:     vector,
		Decision:   dec,
		VolumeMA:   frame.VolumeMA[last],
	}
	ev.Detail = composeDetail(ev)
	return ev
}

// insufficientData builds the degenerate evaluation for histories too
// short to compute anything.
func insufficientData(symbol string, candles model.Series) Evaluation {
	vector := make(model.ConfirmationVector, len(model.DetectorNames))
	for _, name := range model.DetectorNames {
		vector[name] = model.DetectorVerdict{
			Detector: name,
			Action:   model.ActionHold,
			Message:  "Indicator data unavailable: insufficient candle history",
		}
	}
	price := 0.0
	if len(candles) > 0 {
		price = candles.Last().Close
	}
	ev := Evaluation{
		Symbol:     symbol,
		Price:      price,
		Trend:      trend.Neutral,
		TrendScore: 0,
		Vector:     vector,
		Decision: model.TradeDecision{
			Action:   model.ActionHold,
			Strength: model.StrengthWeak,
			Message:  "⚠️ HOLD - Insufficient candle history for evaluation",
		},
	}
	ev.Detail = composeDetail(ev)
	return ev
}

// composeDetail renders the rich message stored behind the alert's detail
// identifier: the headline decision, the trend block, the trend & momentum
// section and the support/resistance section.
func composeDetail(ev Evaluation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* @ %.2f\n%s (%s)\n\n", ev.Symbol, ev.Price, ev.Decision.Message, ev.Decision.Strength)
	b.WriteString(trend.Describe(ev.Trend, ev.TrendScore))
	b.WriteString("\n\n")
	b.WriteString(trendMomentumBlock(ev.Vector))
	b.WriteString("\n\n")
	b.WriteString(supportResistanceBlock(ev.Vector))
	return b.String()
}

// trendMomentumBlock combines the EMA, MACD and ADX verdicts into the
// "Trend & Momentum" section. The icon reflects the strongest signal
// present.
func trendMomentumBlock(v model.ConfirmationVector) string {
	ema := v[model.DetectorEMA]
	macd := v[model.DetectorMACD]
	adx := v[model.DetectorADX]

	icon := "📊"
	switch {
	case ema.Confirmed && ema.Action == model.ActionBuy:
		icon = "📈"
	case ema.Confirmed:
		icon = "📉"
	case macd.Confirmed:
		icon = "📡"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s *Trend & Momentum:*\n", icon)
	if ema.Confirmed {
		for _, line := range strings.Split(ema.Message, "\n") {
			fmt.Fprintf(&b, "  • %s\n", line)
		}
	} else if macd.Confirmed {
		b.WriteString("  • ⚪ No EMA cross detected yet, but MACD signals momentum shift.\n")
	} else {
		b.WriteString("  • ⚪ No EMA cross detected. Market is sideways.\n")
	}
	if macd.Confirmed {
		fmt.Fprintf(&b, "  • %s\n", macd.Message)
	} else {
		b.WriteString("  • ⚪ No MACD signal detected.\n")
	}
	b.WriteString(adx.Message)
	return b.String()
}

// supportResistanceBlock combines the breakout, S/R and oscillator
// verdicts into the "Support & Resistance" section.
func supportResistanceBlock(v model.ConfirmationVector) string {
	var lines []string
	for _, name := range []string{model.DetectorBreakout, model.DetectorSupportResistance, model.DetectorOscillator} {
		verdict := v[name]
		if verdict.Message == "" {
			continue
		}
		lines = append(lines, strings.Split(verdict.Message, "\n")...)
	}

	var b strings.Builder
	b.WriteString("📊 *Support & Resistance*\n")
	if len(lines) == 0 {
		b.WriteString("  • ⚪ No significant S/R signals detected.")
		return b.String()
	}
	for i, line := range lines {
		fmt.Fprintf(&b, "  • %s", line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
