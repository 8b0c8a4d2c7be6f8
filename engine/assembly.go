package engine

import (
	"math"

	"github.com/kvistgaard/ntsctv/rng"
	"github.com/kvistgaard/ntsctv/signal"
	"golang.org/x/sync/errgroup"
)

const assemblyBlockSize = 2048

// uniformSigned maps a raw 32-bit LCG state to a uniform value in
// [-amp, amp], using the top 31 bits (mirroring libc random()'s range).
func uniformSigned(state uint32, amp float64) float64 {
	u := float64(state>>1) / float64(1<<31)
	return u*2*amp - amp
}

// noiseFloorAt returns the shaped noise-floor sample at absolute position i,
// as a pure function of (seed, i) so it is identical regardless of how the
// frame's iteration space was partitioned across workers.
func noiseFloorAt(seed uint32, i int, amp float64) float64 {
	g := rng.AtBlock(seed, uint64(i)*2)
	n1 := uniformSigned(g.Next(), amp)
	n2 := uniformSigned(g.Next(), amp)
	return n1 * n2
}

// burstNoiseAt returns the channel-change burst's noise contribution at
// absolute position i, again a pure function of (seed, i).
func burstNoiseAt(seed uint32, i int) float64 {
	g := rng.AtBlock(seed, uint64(i))
	return uniformSigned(g.Next(), 50)
}

// rxSignalLevel computes the AGC input level per spec.md §4.3.1 step 1.
func rxSignalLevel(noiseLevel float64, receptions []signal.Reception) float64 {
	sum := noiseLevel * noiseLevel
	for _, r := range receptions {
		var ghostSum float64
		for _, c := range r.GhostFIR {
			ghostSum += c
		}
		sum += r.Level * r.Level * (1 + 4*ghostSum)
	}
	return math.Sqrt(sum)
}

// assemble fills rxSignal[0:SignalLen) from noise and the given receptions,
// running the per-2048-sample-block work across a worker pool, then
// refreshes the wrap-duplicate tail. random0/random1 are this frame's noise
// seeds (drawn once, sequentially, from the engine's own PRNG so the result
// never depends on how many workers process it). ec is this frame's
// channel-change-cycles snapshot for reception 0.
func (e *TVEngine) assemble(receptions []signal.Reception, noiseLevel float64, random0, random1 uint32, ec int) error {
	g := e.Geom
	amp := math.Sqrt(150 * math.Max(noiseLevel, 0))

	for _, r := range receptions {
		if r.Signal != nil {
			r.Signal.Wrap()
		}
	}

	nBlocks := (g.SignalLen + assemblyBlockSize - 1) / assemblyBlockSize
	grp := new(errgroup.Group)
	grp.SetLimit(-1) // let GOMAXPROCS bound concurrency naturally

	for b := 0; b < nBlocks; b++ {
		blockStart := b * assemblyBlockSize
		blockEnd := blockStart + assemblyBlockSize
		if blockEnd > g.SignalLen {
			blockEnd = g.SignalLen
		}
		grp.Go(func() error {
			e.assembleBlock(receptions, blockStart, blockEnd, amp, random0, random1, ec)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	copy(e.rxSignal[g.SignalLen:g.SignalLen+2*g.H], e.rxSignal[0:2*g.H])
	e.ChannelChangeCycles = 0
	return nil
}

func (e *TVEngine) assembleBlock(receptions []signal.Reception, blockStart, blockEnd int, amp float64, random0, random1 uint32, ec int) {
	for i := blockStart; i < blockEnd; i++ {
		e.rxSignal[i] = noiseFloorAt(random0, i, amp)
	}

	for k, r := range receptions {
		recEC := 0
		if k == 0 {
			recEC = ec
		}
		skipTo := recEC
		if blockEnd < skipTo {
			skipTo = blockEnd
		}
		skip := skipTo - blockStart
		if skip < 0 {
			skip = 0
		}

		burstEnd := blockStart + skip
		for i := blockStart; i < burstEnd; i++ {
			decay := 1.3 * math.Pow(0.99995, float64(i))
			s := float64(sampleAt(r.Signal, r.Ofs+i))
			noise := burstNoiseAt(random1, i)
			e.rxSignal[i] += s*r.Level*(1-decay) + noise*decay
		}

		e.mixSteady(r, burstEnd, blockEnd)
	}
}

func sampleAt(sig *signal.InputSignal, ofs int) int8 {
	if sig == nil {
		return 0
	}
	return sig.Flat(ofs)
}

// mixSteady applies the ghost-FIR/HF-loss mixing described in spec.md
// §4.3.1 step 2's "steady region" to rec's contribution to rx_signal over
// [start, end), 4 samples at a time. dp[1..4] are primed by looking
// backward through rec.Signal from start, the same way analogtv.cpp's
// add_signal seeds them, so the tapped-delay line stays continuous across
// the assembly's 2048-sample block boundaries: each call recomputes its
// own priming from (rec.Ofs, start) alone, so a block's ghost contribution
// is reproducible independent of how blocks are scheduled across workers.
// rec.GhostFIR is itself updated once per frame, before assembly, by
// Reception.UpdateGhost.
func (e *TVEngine) mixSteady(r signal.Reception, start, end int) {
	var dp [5]float64
	for k := 1; k < 5; k++ {
		base := r.Ofs + start - 4*k
		dp[k] = float64(sampleAt(r.Signal, base+0)) +
			float64(sampleAt(r.Signal, base+1)) +
			float64(sampleAt(r.Signal, base+2)) +
			float64(sampleAt(r.Signal, base+3))
	}
	for i := start; i+3 < end; i += 4 {
		s0 := float64(sampleAt(r.Signal, r.Ofs+i))
		s1 := float64(sampleAt(r.Signal, r.Ofs+i+1))
		s2 := float64(sampleAt(r.Signal, r.Ofs+i+2))
		s3 := float64(sampleAt(r.Signal, r.Ofs+i+3))

		dp[0] = s0 + s1 + s2 + s3
		ghost := dp[1]*r.GhostFIR[0] + dp[2]*r.GhostFIR[1] + dp[3]*r.GhostFIR[2] + dp[4]*r.GhostFIR[3]
		dp[4], dp[3], dp[2], dp[1] = dp[3], dp[2], dp[1], dp[0]

		e.rxSignal[i+0] += (s0 + ghost + s2*r.HFLoss) * r.Level
		e.rxSignal[i+1] += (s1 + ghost + s3*r.HFLoss) * r.Level
		e.rxSignal[i+2] += (s2 + ghost + s0*r.HFLoss) * r.Level
		e.rxSignal[i+3] += (s3 + ghost + s1*r.HFLoss) * r.Level
	}
}
