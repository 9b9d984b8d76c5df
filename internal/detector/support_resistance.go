package detector

import (
	"fmt"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

// SupportResistance flags proximity to the 20-bar rolling support and
// resistance levels: within 2% above support is a buying opportunity,
// within 2% below resistance signals selling pressure.
type SupportResistance struct{}

func (d *SupportResistance) Name() string { return model.DetectorSupportResistance }

func (d *SupportResistance) Evaluate(ctx Context) model.DetectorVerdict {
	support := ctx.Frame.Support[ctx.Index]
	resistance := ctx.Frame.Resistance[ctx.Index]
	if !indicator.Defined(support) || !indicator.Defined(resistance) {
		return hold(d.Name(), "Support/resistance data unavailable")
	}

	close := ctx.Close()
	switch {
	case close <= support*1.02:
		return vote(d.Name(), model.ActionBuy,
			fmt.Sprintf("Price near support (%.2f) — buying opportunity", support*1.02))
	case close >= resistance*0.98:
		return vote(d.Name(), model.ActionSell,
			fmt.Sprintf("Price near resistance (%.2f) — potential selling pressure ahead", resistance*0.98))
	default:
		return hold(d.Name(), "Price in neutral zone — no strong support/resistance signals")
	}
}
