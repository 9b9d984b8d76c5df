package engine

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"crypto-sentinelv1/internal/decision"
	"crypto-sentinelv1/internal/model"
)

func profileAndPolicy(t *testing.T) (model.Profile, decision.Policy) {
	t.Helper()
	p, err := model.ProfileByName("Moderate")
	if err != nil {
		t.Fatal(err)
	}
	return p, decision.PolicyFor(p, 2)
}

// flatSeries builds n identical candles at the given price.
func flatSeries(n int, price, volume float64) model.Series {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.Series, n)
	for i := range s {
		s[i] = model.Candle{
			TS:     start.Add(time.Duration(i) * time.Hour),
			Open:   price, High: price, Low: price, Close: price,
			Volume: volume,
		}
	}
	return s
}

func TestEvaluate_InsufficientHistory(t *testing.T) {
	profile, pol := profileAndPolicy(t)
	ev := Evaluate("BTCUSDT", flatSeries(1, 100, 1000), profile, pol)

	if ev.Decision.Action != model.ActionHold {
		t.Fatalf("action = %s, want HOLD", ev.Decision.Action)
	}
	if len(ev.Vector) != len(model.DetectorNames) {
		t.Fatalf("vector has %d keys, want %d", len(ev.Vector), len(model.DetectorNames))
	}
	for name, verdict := range ev.Vector {
		if verdict.Action != model.ActionHold || !strings.Contains(verdict.Message, "unavailable") {
			t.Errorf("%s: verdict = %+v, want HOLD with unavailable message", name, verdict)
		}
	}
	if ev.Price != 100 {
		t.Errorf("price = %.2f, want the single candle's close", ev.Price)
	}
}

func TestEvaluate_FlatMarketHolds(t *testing.T) {
	profile, pol := profileAndPolicy(t)
	ev := Evaluate("ETHUSDT", flatSeries(60, 100, 1000), profile, pol)

	if ev.Decision.Action != model.ActionHold {
		t.Fatalf("action = %s, want HOLD in a flat market (%s)", ev.Decision.Action, ev.Decision.Message)
	}
	if len(ev.Vector) != len(model.DetectorNames) {
		t.Fatalf("vector has %d keys, want %d", len(ev.Vector), len(model.DetectorNames))
	}
	if ev.Vector[model.DetectorEMA].Confirmed {
		t.Errorf("EMA verdict confirmed in a flat market")
	}
}

// A long flat stretch followed by one large up bar crosses every EMA pair
// at the final row: all EMAs equal the flat price until the spike, and
// shorter EMAs react harder to it.
func TestEvaluate_SpikeTriggersCrossoverBuy(t *testing.T) {
	profile, pol := profileAndPolicy(t)

	candles := flatSeries(60, 100, 1000)
	last := len(candles) - 1
	candles[last].Open = 100
	candles[last].High = 120
	candles[last].Low = 100
	candles[last].Close = 120
	candles[last].Volume = 3000

	ev := Evaluate("BTCUSDT", candles, profile, pol)

	ema := ev.Vector[model.DetectorEMA]
	if ema.Action != model.ActionBuy || !ema.Confirmed {
		t.Fatalf("EMA verdict = %+v, want confirmed BUY", ema)
	}
	if !strings.Contains(ema.Message, "Golden Cross") {
		t.Errorf("EMA message %q should label the longest pair cross", ema.Message)
	}
	if !strings.Contains(ema.Message, "confirmed by high volume") {
		t.Errorf("EMA message %q should carry the volume corroboration", ema.Message)
	}

	if macd := ev.Vector[model.DetectorMACD]; macd.Action != model.ActionBuy {
		t.Errorf("MACD verdict = %+v, want BUY after the spike", macd)
	}

	// EMA + MACD give two BUY confirmations.
	if ev.Decision.Action != model.ActionBuy {
		t.Fatalf("decision = %s (%s), want BUY", ev.Decision.Action, ev.Decision.Message)
	}
	// The single spike bar barely moves the 14-bar ADX, so the uptrend is
	// the weak variant and the message leans on volume alone.
	if !ev.Trend.Uptrend() {
		t.Errorf("trend = %s, want an uptrend variant", ev.Trend)
	}
	if !strings.Contains(ev.Decision.Message, "high volume") {
		t.Errorf("decision message %q should cite the volume confirmation", ev.Decision.Message)
	}

	if ev.Price != 120 {
		t.Errorf("price = %.2f, want last close", ev.Price)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	profile, pol := profileAndPolicy(t)
	candles := flatSeries(80, 100, 1000)
	for i := 40; i < 80; i++ {
		candles[i].Close = 100 + float64(i-40)
		candles[i].High = candles[i].Close + 1
	}

	a := Evaluate("SOLUSDT", candles, profile, pol)
	b := Evaluate("SOLUSDT", candles, profile, pol)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical inputs produced different evaluations")
	}
}

func TestEvaluate_DetailSections(t *testing.T) {
	profile, pol := profileAndPolicy(t)
	ev := Evaluate("BTCUSDT", flatSeries(60, 100, 1000), profile, pol)

	for _, section := range []string{"BTCUSDT", "Trend & Momentum", "Support & Resistance"} {
		if !strings.Contains(ev.Detail, section) {
			t.Errorf("detail message missing %q section:\n%s", section, ev.Detail)
		}
	}
}
