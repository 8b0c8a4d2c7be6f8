package engine

import "github.com/kvistgaard/ntsctv/geometry"

// levelFactors are the per-bucket luma multipliers from spec.md §4.3.4.
var levelFactors = [3]float64{-7.5, 5.5, 24.5}

// computeLevelTable rebuilds e.levelTable for the given average scan-line
// height, per spec.md §4.3.4. leveltable[h][i].index is symmetric around
// the row's centre by construction: index 0 lives at the two endpoints,
// index 1 at the next-inward pair, everything else is index 2.
func (e *TVEngine) computeLevelTable(avgheight float64) {
	maxH := int(avgheight) + 2
	if maxH > geometry.MaxLineHeight {
		maxH = geometry.MaxLineHeight
	}
	if maxH < 0 {
		maxH = 0
	}

	rampVal := ramp(e.Powerup, 3, 6, 1)

	for h := 0; h <= maxH; h++ {
		for i := 0; i < h; i++ {
			e.levelTable[h][i].Index = 2
		}
		if avgheight >= 3 && h >= 1 {
			e.levelTable[h][0].Index = 0
		}
		if avgheight >= 5 && h >= 1 {
			e.levelTable[h][h-1].Index = 0
		}
		if avgheight >= 7 {
			if h >= 2 {
				e.levelTable[h][1].Index = 1
			}
			if h >= 2 {
				e.levelTable[h][h-2].Index = 1
			}
		}
		for i := 0; i < h; i++ {
			idx := e.levelTable[h][i].Index
			e.levelTable[h][i].Value = (40 + levelFactors[idx]*rampVal) / 256
		}
	}
}
