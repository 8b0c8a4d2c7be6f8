package engine

import (
	"math"

	"github.com/kvistgaard/ntsctv/filter"
	"github.com/kvistgaard/ntsctv/geometry"
)

// yiqSample is one demodulated luma/chroma triple at a subwidth-space sample
// position, produced by demodulateLine and consumed by resampleLine.
type yiqSample struct {
	Y, I, Q float64
}

// getLine computes the vertical placement of scan line l's replicated image
// rows, per the original get_line: ytop/ybot track puheight so a partially
// powered-up set only draws into the middle band of the frame. ok is false
// when the line collapses to zero rows or falls entirely outside the frame.
func (e *TVEngine) getLine(l int) (slineno, ytop, ybot int, signalOffset int, ok bool) {
	g := e.Geom
	slineno = l - g.Top
	uh := e.useheight
	ytop = int(float64((l-g.Top)*uh/g.VisLines-uh/2)*e.puheight) + uh/2
	ybot = int(float64((l-g.Top+1)*uh/g.VisLines-uh/2)*e.puheight) + uh/2

	signalOffset = (((l+e.curVsync+g.V)%g.V)+g.V)%g.V*g.H + e.lineHsync[l]

	if ytop == ybot {
		return slineno, 0, 0, signalOffset, false
	}
	if ybot < 0 || ytop > uh {
		return slineno, 0, 0, signalOffset, false
	}
	if ytop < 0 {
		ytop = 0
	}
	maxYbot := uh
	if ytop+geometry.MaxLineHeight < maxYbot {
		maxYbot = ytop + geometry.MaxLineHeight
	}
	if ybot > maxYbot {
		ybot = maxYbot
	}
	return slineno, ytop, ybot, signalOffset, true
}

// lineGeometry is the set of per-line quantities computed in render_line
// step 1-2 of spec.md §4.3.3.
type lineGeometry struct {
	viswidth, middle, scanwidth   float64
	scl, scr                      float64
	pixrate                       float64
	scanstart, scanend, squishright int64
	squishdiv                     float64
}

func (e *TVEngine) lineRenderGeometry(l, slineno int) lineGeometry {
	g := e.Geom
	bloom := -10 * e.crtload[l]
	if bloom < -10 {
		bloom = -10
	}
	if bloom > 2 {
		bloom = 2
	}

	var shift float64
	if l < g.Top+16 {
		shift = e.HorizDesync * math.Exp(-0.17*float64(slineno)) * (0.7 + math.Cos(float64(slineno)*0.6))
	}

	viswidth := float64(g.PicLen)*0.79 - 5*bloom
	middle := float64(g.PicLen)/2 - shift
	scanwidth := e.WidthControl * ramp(e.Powerup, 0.5, 0.3, 1.0)

	subwidth := float64(e.SubWidth())
	usewidth := float64(e.usewidth)
	scw := subwidth * scanwidth
	if scw > usewidth {
		scw = usewidth
	}
	scl := subwidth/2 - scw/2
	scr := scl + scw

	pixrate := (viswidth * 65536 / subwidth) / scanwidth
	scanstart := int64((middle - viswidth/2) * 65536)
	scanend := int64((float64(g.PicLen) - 1) * 65536)
	squishright := int64((middle + viswidth*(0.25+0.25*ramp(e.Powerup, 2, 0, 1.1)-e.SquishControl)) * 65536)
	squishdiv := subwidth / 15

	return lineGeometry{
		viswidth: viswidth, middle: middle, scanwidth: scanwidth,
		scl: scl, scr: scr,
		pixrate: pixrate, scanstart: scanstart, scanend: scanend, squishright: squishright,
		squishdiv: squishdiv,
	}
}

// demodulateLine implements ntsc_to_yiq per spec.md §4.3.3 step 3, filtering
// rx_signal through the same fixed-point filter bank used for encoding and
// mixing in the colourburst-derived chroma reference.
func (e *TVEngine) demodulateLine(l, signalOffset, from, to int) []yiqSample {
	if from < 0 {
		from = 0
	}
	n := to - from
	if n <= 0 {
		return nil
	}
	out := make([]yiqSample, n)

	phasecorr := signalOffset & 3
	cbp := e.lineCbPhase[l]
	cbI := (cbp[(2+phasecorr)&3] - cbp[(0+phasecorr)&3]) / 16
	cbQ := (cbp[(3+phasecorr)&3] - cbp[(1+phasecorr)&3]) / 16

	var multiq2 [4]float64
	if cbI*cbI+cbQ*cbQ > 2.8 {
		multiq2[0] = (cbI*e.tintI - cbQ*e.tintQ) * e.ColorControl
		multiq2[1] = (cbQ*e.tintI + cbI*e.tintQ) * e.ColorControl
		multiq2[2] = -multiq2[0]
		multiq2[3] = -multiq2[1]
	}

	bank := filter.NewBank()
	brightAdd := e.BrightnessControl*100 - float64(geometry.Black)

	for x := 0; x < n; x++ {
		pos := from + x
		var s float64
		if pos >= 0 && pos < len(e.rxSignal) {
			s = e.rxSignal[pos]
		}
		rawY := int64(math.Round(s))
		rawI := int64(math.Round(s * multiq2[x&3]))
		rawQ := int64(math.Round(s * multiq2[(x+1)&3]))

		fy, fi, fq := bank.Step(rawY, rawI, rawQ)
		out[x] = yiqSample{
			Y: float64((fy*100)>>14) + brightAdd,
			I: float64((fi * 100) >> 14),
			Q: float64((fq * 100) >> 14),
		}
	}
	return out
}

// resampleLine implements render_line steps 4-5: fixed-point resampling of
// the demodulated yiq stream into subwidth RGB triples, followed by vertical
// replication into e.Output with the level-table lookup and memcpy-for-
// repeated-row shortcut.
func (e *TVEngine) resampleLine(lg lineGeometry, yiq []yiqSample, yiqBase int, l, ytop, ybot int) {
	subwidth := e.SubWidth()
	rgb := make([][3]float64, subwidth)

	pixbright := e.ContrastControl * ramp(e.Powerup, 1, 0, 1) / (0.5 + 0.5*e.puheight) * 10.24
	pixmultinc := int64(lg.pixrate)

	pos := lg.scanstart
	scl, scr := int(lg.scl), int(lg.scr)

	for x := 0; x < subwidth; x++ {
		if x < scl || x >= scr {
			continue
		}
		pati := int(pos>>16) - yiqBase
		frac := float64(pos&0xFFFF) / 65536

		var y, i, q float64
		if pati >= 0 && pati+1 < len(yiq) {
			a, b := yiq[pati], yiq[pati+1]
			y = a.Y + (b.Y-a.Y)*frac
			i = a.I + (b.I-a.I)*frac
			q = a.Q + (b.Q-a.Q)*frac
		} else if pati >= 0 && pati < len(yiq) {
			y, i, q = yiq[pati].Y, yiq[pati].I, yiq[pati].Q
		}

		r := (y + 0.948*i + 0.624*q) * pixbright
		g := (y - 0.276*i - 0.639*q) * pixbright
		b := (y - 1.105*i + 1.729*q) * pixbright
		if r < 0 {
			r = 0
		}
		if g < 0 {
			g = 0
		}
		if b < 0 {
			b = 0
		}
		rgb[x] = [3]float64{r, g, b}

		if pos >= lg.squishright {
			pixmultinc += int64(float64(pixmultinc) / lg.squishdiv)
			pixbright += pixbright / (2 * lg.squishdiv)
		}
		pos += pixmultinc
	}

	e.blastRow(rgb, l, ytop, ybot)
}

// blastRow implements blast_imagerow: vertical replication into e.Output
// with the memcpy-for-repeated-index optimisation and the intensity LUT.
func (e *TVEngine) blastRow(rgb [][3]float64, l, ytop, ybot int) {
	lineheight := ybot - ytop
	if lineheight > geometry.MaxLineHeight {
		lineheight = geometry.MaxLineHeight
	}
	if lineheight <= 0 {
		return
	}

	xoff := (e.outW - e.usewidth) / 2
	yoff := (e.outH - e.useheight) / 2

	var copyFrom [3][]byte
	xrepl := e.xrepl()

	for y := ytop; y < ybot; y++ {
		row := y - ytop
		entry := e.levelTable[lineheight][row]
		outY := y + yoff
		if outY < 0 || outY >= e.outH {
			continue
		}

		if copyFrom[entry.Index] != nil {
			copy(e.Output.Pix[outY*e.Output.Stride:outY*e.Output.Stride+e.Output.Stride], copyFrom[entry.Index])
			continue
		}

		rowStart := outY * e.Output.Stride
		rowBytes := e.Output.Pix[rowStart : rowStart+e.Output.Stride]

		for i, px := range rgb {
			outX := i*xrepl + xoff
			rIdx := clampIntensity(px[0] * entry.Value)
			gIdx := clampIntensity(px[1] * entry.Value)
			bIdx := clampIntensity(px[2] * entry.Value)
			rv := byte(e.intensityValues[rIdx])
			gv := byte(e.intensityValues[gIdx])
			bv := byte(e.intensityValues[bIdx])

			for rep := 0; rep < xrepl; rep++ {
				x := outX + rep
				if x < 0 || x >= e.outW {
					continue
				}
				o := x * 4
				if o+3 >= len(rowBytes) {
					continue
				}
				rowBytes[o+0] = rv
				rowBytes[o+1] = gv
				rowBytes[o+2] = bv
				rowBytes[o+3] = 255
			}
		}

		buf := make([]byte, len(rowBytes))
		copy(buf, rowBytes)
		copyFrom[entry.Index] = buf
	}
}

func clampIntensity(v float64) int {
	i := int(math.Round(v))
	if i < 0 {
		i = 0
	}
	if i > 1023 {
		i = 1023
	}
	return i
}

// xrepl mirrors AnalogTV::configure's `1 + usewidth/640, capped at 2`.
func (e *TVEngine) xrepl() int {
	r := 1 + e.usewidth/640
	if r > 2 {
		r = 2
	}
	if r < 1 {
		r = 1
	}
	return r
}

// renderLine implements render_line(l) end to end.
func (e *TVEngine) renderLine(l int) {
	slineno, ytop, ybot, signalOffset, ok := e.getLine(l)
	if !ok {
		return
	}
	lg := e.lineRenderGeometry(l, slineno)

	from := int(lg.scanstart>>16) - 10
	to := int(lg.scanend>>16) + 10
	yiq := e.demodulateLine(l, signalOffset, signalOffset+from, signalOffset+to)
	e.resampleLine(lg, yiq, from, l, ytop, ybot)
}
