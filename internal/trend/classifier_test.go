package trend

import (
	"testing"

	"crypto-sentinelv1/internal/indicator"
	"crypto-sentinelv1/internal/model"
)

func testProfile() model.Profile {
	p, err := model.ProfileByName("Moderate")
	if err != nil {
		panic(err)
	}
	return p
}

// frameWith builds a two-row frame with the given latest EMA ladder values
// and ADX. Row 0 is a copy so prev lookups stay defined.
func frameWith(emas map[int]float64, adx float64) *indicator.Frame {
	f := &indicator.Frame{EMA: make(map[int][]float64)}
	for p, v := range emas {
		f.EMA[p] = []float64{v, v}
	}
	f.ADX = []float64{adx, adx}
	f.RSI = []float64{50, 50}
	f.VolumeMA = []float64{1000, 1000}
	f.Support = []float64{90, 90}
	f.Resistance = []float64{110, 110}
	f.BreakoutThreshold = []float64{112, 112}
	return f
}

func TestClassify_StrongUptrend(t *testing.T) {
	f := frameWith(map[int]float64{9: 105, 21: 104, 50: 103, 100: 102, 200: 101}, 30)
	got := Classify(f, []float64{100, 106}, testProfile())
	if got != StrongUptrend {
		t.Errorf("got %v, want Strong Uptrend", got)
	}
}

func TestClassify_ModerateDowntrend(t *testing.T) {
	f := frameWith(map[int]float64{9: 95, 21: 96, 50: 97, 100: 98, 200: 99}, 22)
	got := Classify(f, []float64{100, 94}, testProfile())
	if got != ModerateDowntrend {
		t.Errorf("got %v, want Moderate Downtrend", got)
	}
}

func TestClassify_WeakUptrend_LowADX(t *testing.T) {
	f := frameWith(map[int]float64{9: 105, 21: 104, 50: 103, 100: 102, 200: 101}, 15)
	got := Classify(f, []float64{100, 106}, testProfile())
	if got != WeakUptrend {
		t.Errorf("got %v, want Weak Uptrend", got)
	}
}

func TestClassify_RangingWhenUnorderedAndLowADX(t *testing.T) {
	f := frameWith(map[int]float64{9: 100, 21: 104, 50: 99, 100: 102, 200: 101}, 15)
	got := Classify(f, []float64{100, 101}, testProfile())
	if got != Neutral {
		t.Errorf("got %v, want Neutral", got)
	}
}

func TestClassify_UnorderedFallsBackToPriceDirection(t *testing.T) {
	f := frameWith(map[int]float64{9: 100, 21: 104, 50: 99, 100: 102, 200: 101}, 27)
	got := Classify(f, []float64{100, 106}, testProfile())
	if got != StrongUptrend {
		t.Errorf("got %v, want Strong Uptrend via price direction", got)
	}
	got = Classify(f, []float64{106, 100}, testProfile())
	if got != StrongDowntrend {
		t.Errorf("got %v, want Strong Downtrend via price direction", got)
	}
}

func TestScore_Additive(t *testing.T) {
	// Ordered ladder (+30), ADX 30 (+30), RSI 50 neutral (+10),
	// close below the breakout threshold (0), volume above MA (+10) = 80.
	f := frameWith(map[int]float64{9: 105, 21: 104, 50: 103, 100: 102, 200: 101}, 30)
	score := Score(f, []float64{100, 106}, []float64{900, 1500}, testProfile())
	if score != 80 {
		t.Errorf("score = %d, want 80", score)
	}
}

func TestScore_CapAt100(t *testing.T) {
	f := frameWith(map[int]float64{9: 130, 21: 120, 50: 115, 100: 110, 200: 105}, 40)
	f.RSI = []float64{75, 75}                    // +15
	f.BreakoutThreshold = []float64{100, 100}    // close 140 above → +15
	score := Score(f, []float64{100, 140}, []float64{900, 9000}, testProfile())
	if score != 100 {
		t.Errorf("score = %d, want cap at 100", score)
	}
}

func TestRegimeFamilies(t *testing.T) {
	if !StrongUptrend.Uptrend() || StrongUptrend.Downtrend() {
		t.Error("Strong Uptrend family wrong")
	}
	if !WeakDowntrend.Downtrend() || WeakDowntrend.Uptrend() {
		t.Error("Weak Downtrend family wrong")
	}
	if Neutral.Uptrend() || Neutral.Downtrend() {
		t.Error("Neutral should be in no family")
	}
}
