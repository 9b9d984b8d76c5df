package detector

import (
	"fmt"
	"strings"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

// EMACrossover detects sign changes of (shortEMA − longEMA) between the
// previous and current bar, for every adjacent pair of the configured EMA
// ladder. The longest pair doubles as the golden/death cross. ADX and
// volume conditions are appended as corroboration text only; they never
// change the action.
type EMACrossover struct{}

func (d *EMACrossover) Name() string { return model.DetectorEMA }

func (d *EMACrossover) Evaluate(ctx Context) model.DetectorVerdict {
	if ctx.Index == 0 {
		return hold(d.Name(), "EMA data unavailable: need at least two bars")
	}

	periods := ctx.Profile.EMAPeriods
	adx := ctx.ADX()
	adxConfirmed := indicator.Defined(adx) && adx > ctx.Profile.ADXThreshold
	highVolume := ctx.HighVolume()

	var msgs []string
	action := model.ActionHold
	crossed := false

	for j := 0; j < len(periods)-1; j++ {
		short, long := periods[j], periods[j+1]
		curShort := ctx.Frame.EMA[short][ctx.Index]
		curLong := ctx.Frame.EMA[long][ctx.Index]
		prevShort := ctx.Frame.EMA[short][ctx.Index-1]
		prevLong := ctx.Frame.EMA[long][ctx.Index-1]
		if !indicator.Defined(curShort) || !indicator.Defined(curLong) ||
			!indicator.Defined(prevShort) || !indicator.Defined(prevLong) {
			continue
		}

		golden := long == ctx.Profile.EMALongest() && j == len(periods)-2

		bullish := curShort > curLong && prevShort <= prevLong
		bearish := curShort < curLong && prevShort >= prevLong

		switch {
		case bullish:
			msg := fmt.Sprintf("EMA%d crossed above EMA%d", short, long)
			if golden {
				msg = fmt.Sprintf("EMA%d crossed above EMA%d (Golden Cross)", short, long)
			}
			msgs = append(msgs, corroborate(msg, adxConfirmed, highVolume, ctx.Profile.ADXThreshold))
			action = model.ActionBuy
			crossed = true
		case bearish:
			msg := fmt.Sprintf("EMA%d crossed below EMA%d", short, long)
			if golden {
				msg = fmt.Sprintf("EMA%d crossed below EMA%d (Death Cross)", short, long)
			}
			msgs = append(msgs, corroborate(msg, adxConfirmed, highVolume, ctx.Profile.ADXThreshold))
			action = model.ActionSell
			crossed = true
		}
	}

	if !crossed {
		return hold(d.Name(), "No EMA crosses detected. Market is sideways.")
	}
	return vote(d.Name(), action, strings.Join(msgs, "\n"))
}

func corroborate(msg string, adxConfirmed, highVolume bool, adxThreshold float64) string {
	if adxConfirmed {
		msg += fmt.Sprintf(" (confirmed by ADX > %.0f)", adxThreshold)
	}
	if highVolume {
		msg += " (confirmed by high volume)"
	}
	return msg
}
