package engine

import "math"

// Knobs is the public control surface a Controller writes before every
// Draw call, per spec.md §4.4.
type Knobs struct {
	TintControl       float64 // degrees, default 5
	ColorControl      float64 // default 0.70
	BrightnessControl float64 // default 0.02
	ContrastControl   float64 // default 1.50
	HeightControl     float64 // default 1.0
	WidthControl      float64 // default 1.0
	SquishControl     float64 // default 0.0
	HorizDesync       float64 // [-5, 5]
	Squeezebottom     float64 // [-1, 4]
	Powerup           float64 // seconds since power-on, >= 900 means fully on

	ChannelChangeCycles int // 0 or 200000

	FlutterHorizDesync bool
	HashnoiseOn        bool
	HashnoiseEnable    bool
}

// DefaultKnobs returns the knob set spec.md's controller initialises to.
func DefaultKnobs() Knobs {
	return Knobs{
		TintControl:       5,
		ColorControl:      0.70,
		BrightnessControl: 0.02,
		ContrastControl:   1.50,
		HeightControl:     1.0,
		WidthControl:      1.0,
		SquishControl:     0.0,
		Powerup:           1000.0,
		HashnoiseEnable:   true,
	}
}

// ramp implements the shaped power-up envelope from spec.md §4.3.1 step 4:
//
//	ramp(tc, start, over) = min(1, (1 - e^(-pt/tc)) * over)^2   if pt > 0
//	                      = 0                                   otherwise
//
// where pt = powerup - start. Once pt > 900 or pt/tc > 8 it returns exactly 1
// without evaluating the formula.
func ramp(powerup, tc, start, over float64) float64 {
	pt := powerup - start
	if pt <= 0 {
		return 0
	}
	if pt > 900 || pt/tc > 8 {
		return 1
	}
	v := (1 - math.Exp(-pt/tc)) * over
	if v > 1 {
		v = 1
	}
	return v * v
}

// setupFrame gates the two periodic disturbance models spec.md §4.4
// describes: FlutterHorizDesync's slow random walk of HorizDesync, and
// HashnoiseEnable's rare arming of a crtload glitch (shrinkpulse) that raises
// the base load from the armed line to the bottom of the frame.
func (e *TVEngine) setupFrame() {
	if e.FlutterHorizDesync {
		e.HorizDesync += -0.10*(e.HorizDesync-3.0) +
			e.master.Uniform(-0x80, 0x80)*e.master.Uniform(-0x80, 0x80)*e.master.Uniform(-0x80, 0x80)*0.000001
	}

	if e.HashnoiseEnable && !e.HashnoiseOn && e.master.Intn(10000) == 0 {
		e.HashnoiseOn = true
		e.shrinkpulse = e.master.Intn(e.Geom.V)
	}
	if e.master.Intn(1000) == 0 {
		e.HashnoiseOn = false
	}
}
