package model

// Action represents a discrete trading recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Strength rates how many independent confirmations back a decision.
type Strength string

const (
	StrengthWeak       Strength = "Weak"
	StrengthMedium     Strength = "Medium"
	StrengthStrong     Strength = "Strong"
	StrengthVeryStrong Strength = "Very Strong"
)

// DetectorVerdict is one detector's independent vote for an evaluation
// cycle. Confirmed is true when the vote is directional (BUY or SELL).
type DetectorVerdict struct {
	Detector string `json:"detector"`
	Action   Action `json:"action"`
	Message  string `json:"message"`
	Confirmed bool  `json:"confirmed"`
}

// Fixed detector keys of a ConfirmationVector. Every vector carries exactly
// these keys; HOLD is a valid, non-error value.
const (
	DetectorEMA               = "ema"
	DetectorOscillator        = "oscillator"
	DetectorSupportResistance = "support_resistance"
	DetectorBreakout          = "breakout"
	DetectorMACD              = "macd"
	DetectorADX               = "adx"
)

// DetectorNames lists the fixed detector keys in evaluation order.
var DetectorNames = []string{
	DetectorEMA,
	DetectorOscillator,
	DetectorSupportResistance,
	DetectorBreakout,
	DetectorMACD,
	DetectorADX,
}

// ConfirmationVector maps detector name to its verdict for one cycle.
type ConfirmationVector map[string]DetectorVerdict

// Actions flattens the vector to a detector→action string map, the shape
// persisted in the instrument state cache.
func (v ConfirmationVector) Actions() map[string]string {
	out := make(map[string]string, len(v))
	for name, verdict := range v {
		out[name] = string(verdict.Action)
	}
	return out
}

// TradeDecision is the aggregated recommendation for one cycle. It is a
// derived value, recomputed fresh every cycle.
type TradeDecision struct {
	Action   Action   `json:"action"`
	Strength Strength `json:"strength"`
	Message  string   `json:"message"`
}
