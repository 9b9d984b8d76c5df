package model

import "fmt"

// Profile is the tuning table selected by the trend-strength setting.
// It is threaded explicitly into every pipeline/detector call so multiple
// symbols or profiles can be evaluated without cross-talk.
type Profile struct {
	Name             string
	ADXThreshold     float64
	RSIPeriod        int
	Oversold         float64
	Overbought       float64
	VolumeMultiplier float64
	BreakoutPct      float64 // fractional, e.g. 0.025 = 2.5%
	ATRMultiplier    float64
	EMAPeriods       []int // ascending ladder, shortest first
}

// EMAShortest returns the shortest period of the ladder.
func (p Profile) EMAShortest() int { return p.EMAPeriods[0] }

// EMALongest returns the longest period of the ladder.
func (p Profile) EMALongest() int { return p.EMAPeriods[len(p.EMAPeriods)-1] }

var profiles = map[string]Profile{
	"Weak": {
		Name:             "Weak",
		ADXThreshold:     20,
		RSIPeriod:        14,
		Oversold:         30,
		Overbought:       70,
		VolumeMultiplier: 1.5,
		BreakoutPct:      0.02,
		ATRMultiplier:    1.5,
		EMAPeriods:       []int{9, 21, 50, 100, 200},
	},
	"Moderate": {
		Name:             "Moderate",
		ADXThreshold:     25,
		RSIPeriod:        14,
		Oversold:         30,
		Overbought:       70,
		VolumeMultiplier: 2.0,
		BreakoutPct:      0.025,
		ATRMultiplier:    2.0,
		EMAPeriods:       []int{9, 21, 50, 100, 200},
	},
	"Strong": {
		Name:             "Strong",
		ADXThreshold:     30,
		RSIPeriod:        14,
		Oversold:         25,
		Overbought:       75,
		VolumeMultiplier: 2.5,
		BreakoutPct:      0.03,
		ATRMultiplier:    2.5,
		EMAPeriods:       []int{9, 21, 50, 100, 200},
	},
}

// ProfileByName resolves a trend-strength profile. An unknown name is the
// one unrecoverable configuration error in the system, surfaced at startup.
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown trend-strength profile %q (want Weak, Moderate or Strong)", name)
	}
	return p, nil
}
