// Package signal holds the composite-video wire types: the InputSignal a
// SourceEncoder draws into, the Reception parameters describing how one
// InputSignal arrives at the tuner, and the ChannelSetting that groups a
// primary reception with an optional ghost.
package signal

import (
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/rng"
)

// InputSignal is one channel's baseband composite signal: a (V+1) x H
// matrix of signed-8-bit IRE-scaled samples. Row V is a wrap-around
// duplicate of row 0, refreshed by Wrap before the engine reads it.
//
// An InputSignal is exclusively owned by the SourceEncoder that created it;
// Receptions only borrow a pointer to it.
type InputSignal struct {
	Geom geometry.Geometry
	Sig  [][]int8 // Sig[0..V][0..H-1]
}

// New allocates an empty InputSignal for the given geometry. All samples
// start at zero (BLANK).
func New(g geometry.Geometry) *InputSignal {
	sig := make([][]int8, g.V+1)
	for i := range sig {
		sig[i] = make([]int8, g.H)
	}
	return &InputSignal{Geom: g, Sig: sig}
}

// Wrap copies row 0 into row V, establishing the invariant that draw()
// callers rely on: Sig[V] == Sig[0].
func (s *InputSignal) Wrap() {
	copy(s.Sig[s.Geom.V], s.Sig[0])
}

// At returns the sample at line y, position x, wrapping y into [0, V] and
// x into [0, H).
func (s *InputSignal) At(y, x int) int8 {
	v := s.Geom.V
	y %= v + 1
	if y < 0 {
		y += v + 1
	}
	h := s.Geom.H
	x %= h
	if x < 0 {
		x += h
	}
	return s.Sig[y][x]
}

// Flat returns the sample at a flat offset into the (V*H)-sized signal,
// wrapping modulo SignalLen. Reception.Ofs and the engine's mixing loop
// address the signal this way.
func (s *InputSignal) Flat(ofs int) int8 {
	n := s.Geom.SignalLen
	ofs %= n
	if ofs < 0 {
		ofs += n
	}
	y := ofs / s.Geom.H
	x := ofs % s.Geom.H
	return s.Sig[y][x]
}

// Reception is the transport-parameter record for one InputSignal arriving
// at the tuner: level, offset, ghosting, HF loss and frequency error. It
// borrows, never owns, its Signal.
type Reception struct {
	Signal *InputSignal

	Ofs       int // sample offset into SignalLen
	Level     float64
	Multipath float64
	FreqErr   float64

	GhostFIR  [geometry.GhostFIRLen]float64
	GhostFIR2 [geometry.GhostFIRLen]float64 // internal random-walk state behind GhostFIR
	HFLoss    float64
	HFLoss2   float64
}

// UpdateGhost evolves the reception's ghost-FIR taps by one frame. With
// Multipath set, GhostFIR2 does a slow bounded random walk and GhostFIR
// tracks it with an 80/20 low-pass; otherwise GhostFIR settles to a fixed
// static ghost shape (a faint trailing echo, no leading one).
func (r *Reception) UpdateGhost(g *rng.LCG) {
	n := len(r.GhostFIR)
	if r.Multipath > 0 {
		for i := 0; i < n; i++ {
			r.GhostFIR2[i] += -(r.GhostFIR2[i] / 16) + r.Multipath*g.Uniform(-0.01, 0.01)
		}
		if g.Intn(20) == 0 {
			r.GhostFIR2[g.Intn(n)] = r.Multipath * g.Uniform(-0.04, 0.04)
		}
		for i := 0; i < n; i++ {
			r.GhostFIR[i] = 0.8*r.GhostFIR[i] + 0.2*r.GhostFIR2[i]
		}
		return
	}
	for i := 0; i < n; i++ {
		switch {
		case i < n/2:
			r.GhostFIR[i] = 0
		case i&1 == 1:
			r.GhostFIR[i] = 0.04 / float64(n)
		default:
			r.GhostFIR[i] = -0.08 / float64(n)
		}
	}
}

// ChannelSetting groups up to MaxMultichan Receptions (the first is the
// primary station, the second, if present, its ghost) plus the ambient
// noise level for the channel.
type ChannelSetting struct {
	Receptions []Reception // len in [0, geometry.MaxMultichan]
	NoiseLevel float64
}

// DefaultNoiseLevel is the spec's default per-channel noise level.
const DefaultNoiseLevel = 0.06
