package encoder

import (
	"math"

	"github.com/kvistgaard/ntsctv/filter"
	"github.com/kvistgaard/ntsctv/geometry"
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
)

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// maskTransparent reports whether m's pixel at (x, y) should be treated as
// "don't write". The original encoder conflates fully-black pixels with
// transparency (alpha is not consulted); this quirk is preserved
// deliberately, see DESIGN.md.
func maskTransparent(m *raster.Raster, x, y int) bool {
	if m == nil {
		return false
	}
	r, g, b, _ := m.At(x, y)
	return r == 0 && g == 0 && b == 0
}

// buildMultiQ precomputes the quadrature subcarrier reference table used to
// remodulate I/Q back onto the composite carrier, per spec.md §4.2 step 2.
func buildMultiQ(n int) []int64 {
	q := make([]int64, n)
	for i := 0; i < n; i++ {
		v := -math.Cos(math.Pi * (90*(1-float64(i)) - 303) / 180)
		q[i] = int64(math.Round(v * 4096))
	}
	return q
}

// LoadXImage encodes pic (and, optionally, masks it against mask, whose
// black pixels are treated as transparent per the preserved source quirk)
// into sig at output-pixel offset (xoff, yoff), scaling the source into a
// (targetW, targetH) region of a virtual (outW, outH) output raster; the
// offset is translated into NTSC coordinates by the same ratio.
func (e *SourceEncoder) LoadXImage(sig *signal.InputSignal, pic, mask *raster.Raster, xoff, yoff, targetW, targetH, outW, outH int) {
	g := e.Geom
	if outW <= 0 || outH <= 0 || pic == nil || pic.Width == 0 || pic.Height == 0 {
		return
	}

	xLength := g.PicLen * targetW / outW
	if xLength > g.PicLen {
		xLength = g.PicLen
	}
	if xLength <= 0 {
		return
	}
	yOverscan := 5 * g.S
	yScanlength := (g.VisLines + 2*yOverscan) * targetH / outH
	if yScanlength <= 0 {
		return
	}

	xoffNTSC := xoff * g.PicLen / outW
	yoffNTSC := yoff * (g.VisLines + 2*yOverscan) / outH

	multiq := buildMultiQ(xLength + 4)

	srcW, srcH := pic.Width, pic.Height
	bank := filter.NewBank()

	for y := 0; y < yScanlength; y++ {
		picy1 := y * srcH / yScanlength
		picy2 := (y*srcH + yScanlength/2) / yScanlength
		picy1 = clampInt(picy1, 0, srcH-1)
		picy2 = clampInt(picy2, 0, srcH-1)

		destLine := y - yOverscan + g.Top + yoffNTSC
		if destLine < 0 || destLine >= g.V {
			continue
		}
		line := sig.Sig[destLine]

		bank.Reset()
		for x := 0; x < xLength; x++ {
			picx := clampInt(x*srcW/xLength, 0, srcW-1)

			if maskTransparent(mask, picx, picy1) {
				continue
			}

			r1, g1, b1, _ := pic.At(picx, picy1)
			r2, g2, b2, _ := pic.At(picx, picy2)
			R1, G1, B1 := int64(r1), int64(g1), int64(b1)
			R2, G2, B2 := int64(r2), int64(g2), int64(b2)

			rawy := (5*R1 + 11*G1 + 2*B1 + 5*R2 + 11*G2 + 2*B2) >> 7
			rawi := (10*R1 - 4*G1 - 5*B1 + 10*R2 - 4*G2 - 5*B2) >> 7
			rawq := (3*R1 - 8*G1 + 5*B1 + 3*R2 - 8*G2 + 5*B2) >> 7

			filtY, filtI, filtQ := bank.Step(rawy, rawi, rawq)

			c := filtY + ((multiq[x]*filtI + multiq[x+3]*filtQ) >> 12)
			c = ((c * 100) >> 14) + geometry.Black
			if c < 0 {
				c = 0
			} else if c > 125 {
				c = 125
			}

			destCol := x + g.PicStart + xoffNTSC
			if destCol < 0 || destCol >= g.H {
				continue
			}
			line[destCol] = int8(c)
		}
	}
	sig.Wrap()
}
