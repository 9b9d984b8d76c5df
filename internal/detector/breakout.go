package detector

import (
	"fmt"
	"math"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

// Breakout detects closes beyond the support/resistance band by more than
// the configured breakout percentage, confirmed by volume above
// multiplier×average and a price move larger than multiplier×ATR. A
// confirmed breakout carries suggested stop-loss and take-profit levels.
type Breakout struct{}

func (d *Breakout) Name() string { return model.DetectorBreakout }

func (d *Breakout) Evaluate(ctx Context) model.DetectorVerdict {
	f := ctx.Frame
	i := ctx.Index
	atr := f.ATR[i]
	support := f.Support[i]
	resistance := f.Resistance[i]
	avgVolume := f.VolumeMA[i]

	if !indicator.Defined(atr) {
		return hold(d.Name(), "ATR data unavailable for breakout analysis")
	}
	if !indicator.Defined(support) || !indicator.Defined(resistance) || !indicator.Defined(avgVolume) {
		return hold(d.Name(), "Breakout data unavailable")
	}

	p := ctx.Profile
	close := ctx.Close()
	prevClose := ctx.PrevClose()
	atrThreshold := p.ATRMultiplier * atr

	// Bullish breakout above resistance.
	if close > resistance*(1+p.BreakoutPct) {
		if confirmBreakout(close, prevClose, resistance, true, ctx.Volume(), avgVolume, p.VolumeMultiplier, atrThreshold) {
			stop := resistance - atr*p.ATRMultiplier
			target := close + 2*atr*p.ATRMultiplier
			return vote(d.Name(), model.ActionBuy, breakoutMessage(close, resistance, true, ctx.Volume(), avgVolume, p.VolumeMultiplier, atrThreshold)+
				fmt.Sprintf("\nEntry: %.2f | Stop-Loss: %.2f | Take-Profit: %.2f", close, stop, target))
		}
	}

	// Bearish breakdown below support.
	if close < support*(1-p.BreakoutPct) {
		if confirmBreakout(close, prevClose, support, false, ctx.Volume(), avgVolume, p.VolumeMultiplier, atrThreshold) {
			stop := support + atr*p.ATRMultiplier
			target := close - 2*atr*p.ATRMultiplier
			return vote(d.Name(), model.ActionSell, breakoutMessage(close, support, false, ctx.Volume(), avgVolume, p.VolumeMultiplier, atrThreshold)+
				fmt.Sprintf("\nEntry: %.2f | Stop-Loss: %.2f | Take-Profit: %.2f", close, stop, target))
		}
	}

	return hold(d.Name(), "No breakout detected. Price within the S/R range, indicating consolidation.")
}

// confirmBreakout filters false breakouts: the previous close must still be
// inside the level, volume must exceed multiplier×average, and the breakout
// distance must exceed the ATR threshold.
func confirmBreakout(price, prevPrice, level float64, bullish bool, volume, avgVolume, volumeMultiplier, atrThreshold float64) bool {
	var broke, prevInside bool
	if bullish {
		broke = price > level
		prevInside = indicator.Defined(prevPrice) && prevPrice <= level
	} else {
		broke = price < level
		prevInside = indicator.Defined(prevPrice) && prevPrice >= level
	}
	if !broke || !prevInside {
		return false
	}
	volumeConfirmed := volume > avgVolume*volumeMultiplier
	return volumeConfirmed && math.Abs(price-level) > atrThreshold
}

func breakoutMessage(price, level float64, bullish bool, volume, avgVolume, volumeMultiplier, atrThreshold float64) string {
	kind, side := "Bullish breakout!", "above resistance"
	if !bullish {
		kind, side = "Bearish breakdown!", "below support"
	}
	base := fmt.Sprintf("%s Price closed %.2f%% %s.", kind, math.Abs(price-level)/level*100, side)

	volumeConfirmed := volume > avgVolume*volumeMultiplier
	atrConfirmed := math.Abs(price-level) > atrThreshold
	switch {
	case volumeConfirmed && atrConfirmed:
		return base + " Confirmed with high volume and strong ATR."
	case volumeConfirmed:
		return base + " Confirmed with high volume."
	case atrConfirmed:
		return base + " Confirmed with strong ATR."
	default:
		return base + " Initial signs of breakout, but lacks volume or ATR confirmation."
	}
}
