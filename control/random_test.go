package control

import (
	"testing"

	"github.com/kvistgaard/ntsctv/engine"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/signal"
)

func testSources(n int) []*signal.InputSignal {
	g := geometry.New(1)
	sigs := make([]*signal.InputSignal, n)
	for i := range sigs {
		sigs[i] = signal.New(g)
	}
	return sigs
}

func TestCreateChannelsMinimumSix(t *testing.T) {
	c := NewRandomController(1, false, 30, 10, false)
	c.CreateChannels(testSources(2))
	if len(c.channels) != 6 {
		t.Fatalf("len(channels) = %d, want 6 for 2 sources", len(c.channels))
	}
}

func TestCreateChannelsScalesWithSources(t *testing.T) {
	c := NewRandomController(1, false, 30, 10, false)
	c.CreateChannels(testSources(10))
	if len(c.channels) != 20 {
		t.Fatalf("len(channels) = %d, want 20 for 10 sources", len(c.channels))
	}
}

func TestCreateChannelsFixSettingsUsesFixedLevel(t *testing.T) {
	c := NewRandomController(1, true, 30, 10, false)
	c.CreateChannels(testSources(3))
	for _, ch := range c.channels {
		for _, rec := range ch.Receptions {
			if rec.Level != 0.3 {
				t.Fatalf("fixsettings reception level = %v, want 0.3", rec.Level)
			}
		}
	}
}

func TestNextQuitsAtDuration(t *testing.T) {
	c := NewRandomController(1, true, 10, 1, false)
	c.CreateChannels(testSources(2))
	c.Run()

	sawQuit := false
	for i := 0; i < 20; i++ {
		act := c.Next()
		if act.Type == ActionQuit {
			sawQuit = true
			break
		}
	}
	if !sawQuit {
		t.Fatal("controller never reported ActionQuit within 20 frames at 10fps/1s duration")
	}
}

func TestNextAlwaysSwitchesOnFirstFrame(t *testing.T) {
	c := NewRandomController(5, true, 30, 5, false)
	c.CreateChannels(testSources(2))
	c.Run()

	act := c.Next()
	if act.Type != ActionSwitch {
		t.Fatalf("first Next() call = %v, want ActionSwitch (channelLastFrame starts at 0)", act.Type)
	}
}

func TestNextChannelOnlyChangesOnSwitch(t *testing.T) {
	c := NewRandomController(5, false, 30, 5, false)
	c.CreateChannels(testSources(3))
	c.Run()

	cur := c.channel
	for i := 0; i < 150; i++ {
		act := c.Next()
		if act.Type != ActionSwitch && act.Channel != cur {
			t.Fatalf("channel changed to %d without a SWITCH action at frame %d", act.Channel, i)
		}
		cur = act.Channel
	}
}

func TestApplyWritesDefaultKnobs(t *testing.T) {
	c := NewRandomController(1, true, 30, 5, false)
	c.CreateChannels(testSources(2))
	c.Run()

	tv := engine.New(geometry.New(1), 1)
	c.Apply(tv)
	if tv.TintControl != 5 || tv.ContrastControl != 1.50 {
		t.Errorf("Apply wrote unexpected defaults: tint=%v contrast=%v", tv.TintControl, tv.ContrastControl)
	}
}
