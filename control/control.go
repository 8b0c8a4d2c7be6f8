// Package control implements the per-frame scheduler described in spec.md
// §4.5: it owns the channel table, drives knob drift and power-up/power-
// down, and tells the Runner when to switch channels or stop.
package control

import (
	"github.com/kvistgaard/ntsctv/engine"
	"github.com/kvistgaard/ntsctv/signal"
)

// ActionType is what the Runner should do after one Next call.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionSwitch
	ActionQuit
)

// Action is Next's per-frame report.
type Action struct {
	Type    ActionType
	Channel int
}

// Controller is the scheduler contract a Runner drives once per frame.
type Controller interface {
	// CreateChannels builds the channel table from the given sources; called
	// once, before Run.
	CreateChannels(sources []*signal.InputSignal)
	// Run resets frame-counter state ahead of the first Next call.
	Run()
	// Next advances one frame and reports the action to take.
	Next() Action
	// Setting returns channel ch's receptions and ambient noise level.
	Setting(ch int) signal.ChannelSetting
	// Apply writes the controller's current knob values into tv.
	Apply(tv *engine.TVEngine)
}
