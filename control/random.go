package control

import (
	"math"

	"github.com/kvistgaard/ntsctv/engine"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/rng"
	"github.com/kvistgaard/ntsctv/signal"
)

// PowerupDuration and PowerdownDuration are hard-coded per spec.md §4.5.
const (
	PowerupDuration   = 6.0
	PowerdownDuration = 1.0
)

// RandomController is the built-in scheduler from spec.md §4.5: a
// parametric channel table plus randomized knob drift, warm-up ramp and
// fade-out.
type RandomController struct {
	FixSettings  bool
	FPS          float64
	DurationSecs float64
	PowerUpDown  bool

	rng *rng.LCG

	channels []signal.ChannelSetting

	frameCounter, channel                          int
	lastFrame, channelLastFrame, fadeOutFirstFrame  int
	powerUpLastFrame                                int
	lastBrightness                                  float64
	haveLastBrightness                              bool

	powerup, brightness, tint, color, contrast float64
	height, width, squish                      float64
	horizDesync, squeezeBottom                 float64
	hashnoiseOn, hashnoiseEnable               bool
}

// NewRandomController returns a RandomController seeded from seed. FPS
// defaults to 30 when zero.
func NewRandomController(seed uint32, fixSettings bool, fps, durationSecs float64, powerUpDown bool) *RandomController {
	if fps <= 0 {
		fps = 30
	}
	return &RandomController{
		FixSettings:  fixSettings,
		FPS:          fps,
		DurationSecs: durationSecs,
		PowerUpDown:  powerUpDown,
		rng:          rng.NewLCG(seed),
	}
}

// CreateChannels implements spec.md §4.5.1.
func (c *RandomController) CreateChannels(sources []*signal.InputSignal) {
	nChannels := len(sources) * 2
	if nChannels < 6 {
		nChannels = 6
	}

	c.channels = make([]signal.ChannelSetting, nChannels)
	for i := range c.channels {
		ch := signal.ChannelSetting{NoiseLevel: signal.DefaultNoiseLevel}

		lastStation := -1
		for stati := 0; stati < geometry.MaxMultichan; stati++ {
			var stationID int
			for {
				stationID = c.rng.Intn(len(sources))
				if stationID != lastStation {
					break
				}
				if c.rng.Intn(10) == 0 {
					break
				}
			}
			lastStation = stationID

			rec := signal.Reception{Signal: sources[stationID]}
			if c.FixSettings {
				rec.Level = 0.3
			} else {
				rec.Level = math.Pow(c.rng.Uniform(0, 1), 3)*2 + 0.05
				rec.Ofs = c.rng.Intn(sources[stationID].Geom.SignalLen)
				if c.rng.Intn(3) != 0 {
					rec.Multipath = c.rng.Uniform(0, 1)
				}
				if stati > 0 {
					rec.FreqErr = c.rng.Uniform(-1, 1) * 3
				}
			}
			ch.Receptions = append(ch.Receptions, rec)

			if rec.Level > 0.3 {
				break
			}
			if c.rng.Intn(4) != 0 {
				break
			}
		}
		c.channels[i] = ch
	}
}

// Run implements spec.md §4.5.3's initialisation.
func (c *RandomController) Run() {
	c.channel = c.rng.Intn(len(c.channels))
	c.haveLastBrightness = false

	c.frameCounter = 0
	c.lastFrame = int(c.FPS * c.DurationSecs)
	c.powerUpLastFrame = int(PowerupDuration * c.FPS)
	c.fadeOutFirstFrame = int((c.DurationSecs - PowerdownDuration) * c.FPS)
	c.channelLastFrame = 0

	c.rotateKnobsStart()
}

// rotateKnobsStart implements spec.md §4.5.2's start-of-run initialisation.
func (c *RandomController) rotateKnobsStart() {
	c.tint = 5
	c.color = 0.70
	c.brightness = 0.02
	c.contrast = 1.50
	c.height = 1.0
	c.width = 1.0
	c.squish = 0.0
	c.powerup = 1000.0
	c.hashnoiseOn = false
	c.hashnoiseEnable = true

	c.horizDesync = c.rng.Uniform(-5, 5)
	c.squeezeBottom = c.rng.Uniform(-1, 4)

	if !c.FixSettings {
		if c.rng.Intn(4) == 0 {
			c.tint += math.Pow(c.rng.Uniform(-1, 1), 7) * 180
		}
		c.color += c.rng.Uniform(0, 0.3) * c.sign()
	}
}

// rotateKnobsSwitch implements spec.md §4.5.2's per-channel-switch drift.
func (c *RandomController) rotateKnobsSwitch() {
	if c.FixSettings || c.rng.Intn(5) != 0 {
		return
	}
	if c.rng.Intn(4) == 0 {
		c.tint += math.Pow(c.rng.Uniform(-1, 1), 7) * 180 * c.sign()
	}
	c.color += c.rng.Uniform(0, 0.3) * c.sign()
}

func (c *RandomController) sign() float64 {
	if c.rng.Intn(2) == 1 {
		return 1
	}
	return -1
}

// Next implements spec.md §4.5.3.
func (c *RandomController) Next() Action {
	act := Action{Type: ActionNone, Channel: c.channel}

	curtime := float64(c.frameCounter) / c.FPS
	canSwitch := true

	if c.PowerUpDown {
		switch {
		case c.frameCounter < c.powerUpLastFrame:
			c.powerup = curtime
			canSwitch = false
		case c.frameCounter >= c.fadeOutFirstFrame:
			const minBrightness = -1.5
			if !c.haveLastBrightness {
				c.lastBrightness = c.brightness
				c.haveLastBrightness = true
			}
			rate := (c.DurationSecs - curtime) / PowerdownDuration
			c.brightness = minBrightness*(1-rate) + c.lastBrightness*rate
			canSwitch = false
		}
	}

	if canSwitch && c.frameCounter >= c.channelLastFrame {
		c.channelLastFrame = c.frameCounter + int(c.FPS*(1+c.rng.Uniform(0, 6)))
		c.channel = c.rng.Intn(len(c.channels))
		c.rotateKnobsSwitch()
		act.Type = ActionSwitch
		act.Channel = c.channel
	}

	if c.frameCounter >= c.lastFrame {
		act.Type = ActionQuit
	}

	c.frameCounter++
	act.Channel = c.channel
	return act
}

// Setting returns channel ch's receptions and noise level.
func (c *RandomController) Setting(ch int) signal.ChannelSetting {
	return c.channels[ch]
}

// Apply writes the controller's current knob values into tv, per spec.md
// §4.5.3's "before returning, write all knob values into the engine".
func (c *RandomController) Apply(tv *engine.TVEngine) {
	tv.TintControl = c.tint
	tv.ColorControl = c.color
	tv.BrightnessControl = c.brightness
	tv.ContrastControl = c.contrast
	tv.HeightControl = c.height
	tv.WidthControl = c.width
	tv.SquishControl = c.squish
	tv.Powerup = c.powerup
	tv.HashnoiseOn = c.hashnoiseOn
	tv.HashnoiseEnable = c.hashnoiseEnable
	tv.HorizDesync = c.horizDesync
	tv.Squeezebottom = c.squeezeBottom
}
