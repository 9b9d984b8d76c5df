// Package decision fuses the per-detector verdicts of one evaluation
// cycle into a single TradeDecision under a confirmation-count policy.
// The aggregator is stateless across cycles.
package decision

import (
	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
	"crypto-sentinelv1/internal/trend"
)

// Policy holds the tunable parts of the aggregation. The boost toggles
// exist because the boost rules were tuned empirically; operators can
// switch them off without touching the core counting logic.
type Policy struct {
	MinConfirmations      int
	ADXThreshold          float64
	VolumeMultiplier      float64
	EnableMACDBoost       bool
	EnableOscillatorBoost bool
}

// PolicyFor derives a Policy from a trading profile. minConfirmations
// values below 1 fall back to the default of 2.
func PolicyFor(p model.Profile, minConfirmations int) Policy {
	if minConfirmations < 1 {
		minConfirmations = 2
	}
	return Policy{
		MinConfirmations:      minConfirmations,
		ADXThreshold:          p.ADXThreshold,
		VolumeMultiplier:      p.VolumeMultiplier,
		EnableMACDBoost:       true,
		EnableOscillatorBoost: true,
	}
}

// Inputs is everything the aggregator looks at for one cycle. ADX,
// Volume, VolumeMA, Close and PrevClose are the latest-row values; any of
// them may be NaN when the history is too short, in which case the
// conditions that depend on them simply do not fire.
type Inputs struct {
	Vector    model.ConfirmationVector
	Trend     trend.Regime
	ADX       float64
	Volume    float64
	VolumeMA  float64
	Close     float64
	PrevClose float64
}

func (in Inputs) adxStrong(threshold float64) bool {
	return indicator.Defined(in.ADX) && in.ADX > threshold
}

func (in Inputs) highVolume() bool {
	return indicator.Defined(in.VolumeMA) && in.Volume > in.VolumeMA
}

func (in Inputs) volumeSurge(multiplier float64) bool {
	return indicator.Defined(in.VolumeMA) && in.Volume > in.VolumeMA*multiplier
}

// priceDropOver reports a close-to-close fall larger than pct (0.03 = 3%).
func (in Inputs) priceDropOver(pct float64) bool {
	if !indicator.Defined(in.PrevClose) || in.PrevClose <= 0 {
		return false
	}
	return (in.Close-in.PrevClose)/in.PrevClose < -pct
}

// Aggregate turns one cycle's confirmation vector into the final decision.
//
// BUY and SELL confirmations are counted separately. Two trend-gated
// boosts are applied first: a MACD SELL during a confirmed downtrend
// counts extra (twice when the price also dropped more than 3% on high
// volume), and an oscillator-bottom BUY during a confirmed uptrend counts
// extra. SELL wins ties: sell_count is checked before buy_count. An
// oscillator-confirmed bottom lowers the BUY bar to a single supporting
// confirmation.
func Aggregate(in Inputs, pol Policy) model.TradeDecision {
	var buyCount, sellCount int
	for _, name := range model.DetectorNames {
		switch in.Vector[name].Action {
		case model.ActionBuy:
			buyCount++
		case model.ActionSell:
			sellCount++
		}
	}

	oscConfirmed := in.Vector[model.DetectorOscillator].Action == model.ActionBuy
	adxStrong := in.adxStrong(pol.ADXThreshold)
	highVolume := in.highVolume()

	if pol.EnableMACDBoost &&
		in.Vector[model.DetectorMACD].Action == model.ActionSell &&
		in.Trend.Downtrend() && adxStrong {
		sellCount++
		if in.priceDropOver(0.03) && highVolume {
			sellCount++
		}
	}
	if pol.EnableOscillatorBoost && oscConfirmed && in.Trend.Uptrend() && adxStrong {
		buyCount++
	}

	var action model.Action
	switch {
	case sellCount >= pol.MinConfirmations:
		action = model.ActionSell
	case buyCount >= pol.MinConfirmations || (oscConfirmed && buyCount >= 1):
		action = model.ActionBuy
	default:
		action = model.ActionHold
	}

	directional := buyCount
	if action == model.ActionSell {
		directional = sellCount
	}

	msg := composeMessage(action, oscConfirmed, adxStrong, highVolume, buyCount+sellCount, in, pol)
	if action == model.ActionBuy && doubleDown(in, pol) {
		msg += "\n💰 Double-down conditions met: strong uptrend with ADX and volume confirmation."
	}

	return model.TradeDecision{
		Action:   action,
		Strength: strengthOf(directional, adxStrong, in.ADX),
		Message:  msg,
	}
}

// strengthOf rates the decision by its confirmation count. An ADX above
// 30 promotes a two-confirmation decision to Strong.
func strengthOf(count int, adxStrong bool, adx float64) model.Strength {
	switch {
	case count >= 4:
		return model.StrengthVeryStrong
	case count >= 3:
		return model.StrengthStrong
	case count == 2:
		if indicator.Defined(adx) && adx > 30 {
			return model.StrengthStrong
		}
		return model.StrengthMedium
	default:
		return model.StrengthWeak
	}
}

// composeMessage picks the most specific applicable template. For BUY the
// oscillator bottom outranks ADX+volume, which outranks ADX alone, which
// outranks volume alone; an unconfirmed BUY is a caution.
func composeMessage(action model.Action, oscConfirmed, adxStrong, highVolume bool, confirmations int, in Inputs, pol Policy) string {
	switch action {
	case model.ActionBuy:
		if oscConfirmed {
			msg := "🔥 BUY - Potential bottom with oscillator confirmation"
			switch {
			case adxStrong && highVolume:
				msg += " + strong uptrend, high volume & ADX"
			case adxStrong:
				msg += " + strong ADX"
			case highVolume:
				msg += " + high volume"
			}
			return msg
		}
		switch {
		case adxStrong && highVolume:
			return "🔥 BUY - Strong uptrend with high volume & ADX confirmation"
		case adxStrong:
			return "✅ BUY - Uptrend confirmed with strong ADX"
		case highVolume:
			return "📈 BUY - Uptrend confirmed with high volume"
		default:
			return "🟡 BUY - Proceed with caution"
		}

	case model.ActionSell:
		switch {
		case adxStrong && highVolume:
			return "🚨 SELL - Strong downtrend with high volume & ADX confirmation"
		case adxStrong:
			return "❌ SELL - Downtrend confirmed with strong ADX"
		case highVolume:
			return "📉 SELL - Downtrend confirmed with high volume"
		default:
			return "SELL - Proceed with caution"
		}

	default:
		breakoutConfirmed := in.Vector[model.DetectorBreakout].Confirmed
		switch {
		case oscConfirmed && confirmations < pol.MinConfirmations:
			return "⚠️ HOLD - Oscillator bottom detected but insufficient other confirmations"
		case confirmations == 1:
			return "⚠️ HOLD - Insufficient confirmation from other indicators"
		case !adxStrong:
			return "⚠️ HOLD - Trend not strong enough"
		case !breakoutConfirmed:
			return "⚠️ HOLD - No breakout confirmation, price still within support/resistance range"
		default:
			return "⚠️ HOLD - No strong confirmation from other indicators"
		}
	}
}

// doubleDown reports whether a BUY warrants the add-to-position note:
// confirmed uptrend, ADX above threshold, volume above multiplier×average.
func doubleDown(in Inputs, pol Policy) bool {
	if in.Trend != trend.StrongUptrend && in.Trend != trend.ModerateUptrend {
		return false
	}
	return in.adxStrong(pol.ADXThreshold) && in.volumeSurge(pol.VolumeMultiplier)
}
