package detector

import (
	"fmt"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

// ADXStrength is not a directional vote: it always returns HOLD and
// contributes a trend-strength classification string to the final message.
type ADXStrength struct{}

func (d *ADXStrength) Name() string { return model.DetectorADX }

func (d *ADXStrength) Evaluate(ctx Context) model.DetectorVerdict {
	adx := ctx.ADX()
	if !indicator.Defined(adx) {
		return hold(d.Name(), "ADX data unavailable")
	}

	threshold := ctx.Profile.ADXThreshold
	highVolume := ctx.HighVolume()

	switch {
	case adx < 20:
		return hold(d.Name(), fmt.Sprintf("ADX %.2f: weak trend, ranging market", adx))
	case adx > threshold && highVolume:
		return hold(d.Name(), fmt.Sprintf("ADX %.2f: strong trend confirmed with high volume", adx))
	case adx > threshold:
		return hold(d.Name(), fmt.Sprintf("ADX %.2f: strong trend detected, but volume is average", adx))
	default:
		return hold(d.Name(), fmt.Sprintf("ADX %.2f: moderate trend strength, possible breakout or consolidation", adx))
	}
}
