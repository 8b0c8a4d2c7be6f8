package encoder

import (
	"github.com/kvistgaard/ntsctv/raster"
	"github.com/kvistgaard/ntsctv/signal"
)

// lcp is one solid-colour bar's luma/chroma/phase triple.
type lcp struct{ l, c, phi float64 }

// topBars are the seven full-height SMPTE bars, rel y 0.00-0.68.
var topBars = []lcp{
	{75, 0, 0},      // gray
	{69, 31, 167},   // yellow
	{56, 44, 283.5}, // cyan
	{48, 41, 240.5}, // green
	{36, 41, 60.5},  // magenta
	{28, 44, 103.5}, // red
	{15, 31, 347},   // blue
}

// midBars are the seven bars at rel y 0.68-0.75.
var midBars = []lcp{
	{15, 31, 347}, // blue
	{7, 0, 0},     // black
	{36, 41, 60.5}, // magenta
	{7, 0, 0},      // black
	{56, 44, 283.5}, // cyan
	{7, 0, 0},       // black
	{75, 0, 0},      // gray
}

// footerBars are the PLUGE footer segments, rel y 0.75-1.00.
type footerSeg struct {
	left, right float64
	lcp
}

var footerBars = []footerSeg{
	{0, 1.0 / 6, lcp{7, 40, 303}},   // -I
	{1.0 / 6, 2.0 / 6, lcp{100, 0, 0}}, // white
	{2.0 / 6, 3.0 / 6, lcp{7, 40, 33}}, // +Q
	{3.0 / 6, 4.0 / 6, lcp{7, 0, 0}},   // black
	{12.0 / 18, 13.0 / 18, lcp{3, 0, 0}},  // black - 4
	{13.0 / 18, 14.0 / 18, lcp{7, 0, 0}},  // black
	{14.0 / 18, 15.0 / 18, lcp{11, 0, 0}}, // black + 4
	{5.0 / 6, 1, lcp{7, 0, 0}},            // black
}

// DrawSMPTEBars draws the standard SMPTE colour-bar test pattern into sig,
// then, if logo is provided, composites it centred via LoadXImage.
func (e *SourceEncoder) DrawSMPTEBars(sig *signal.InputSignal, logo, logoMask *raster.Raster, outW, outH int) {
	e.SetupSync(sig, true, false)

	n := len(topBars)
	for i, bar := range topBars {
		e.DrawSolidRelLCP(sig, float64(i)/float64(n), float64(i+1)/float64(n), 0, 0.68, bar.l, bar.c, bar.phi)
	}
	n = len(midBars)
	for i, bar := range midBars {
		e.DrawSolidRelLCP(sig, float64(i)/float64(n), float64(i+1)/float64(n), 0.68, 0.75, bar.l, bar.c, bar.phi)
	}
	for _, seg := range footerBars {
		e.DrawSolidRelLCP(sig, seg.left, seg.right, 0.75, 1.0, seg.l, seg.c, seg.phi)
	}

	if logo != nil && logo.Width > 0 && logo.Height > 0 {
		xoff := (outW - logo.Width) / 2
		yoff := (outH - logo.Height) / 2
		e.LoadXImage(sig, logo, logoMask, xoff, yoff, logo.Width, logo.Height, outW, outH)
	}
}
