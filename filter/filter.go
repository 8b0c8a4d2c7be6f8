// Package filter implements the fixed-point IIR low-pass filters used both
// to band-limit chroma/luma while encoding a raster into a composite signal
// (encoder.LoadXImage) and to demodulate Y/I/Q back out of a received
// composite line (engine's renderer). The coefficients are quoted verbatim
// from spec.md, which in turn quotes them from an `mkfilter -Bu -Lp` run;
// they are part of the observable behaviour and must not be "cleaned up".
package filter

// YFilter is the 4-pole Butterworth low-pass at 3.5MHz with an extra zero
// at 3.5MHz, applied to the luma channel. Gain 1897, feedback shifted by 16.
type YFilter struct {
	x [7]int64
	y [4]int64
}

// Reset clears filter history. Called at the start of every scan line so
// state never leaks across lines.
func (f *YFilter) Reset() {
	*f = YFilter{}
}

// Step feeds one raw sample and returns the filtered output.
func (f *YFilter) Step(raw int64) int64 {
	copy(f.x[:6], f.x[1:])
	f.x[6] = raw * 1897

	xn, xn1, xn2, xn3, xn4, xn5, xn6 := f.x[6], f.x[5], f.x[4], f.x[3], f.x[2], f.x[1], f.x[0]
	yn1, yn2, yn3, yn4 := f.y[3], f.y[2], f.y[1], f.y[0]

	fir := (xn6 + xn) + 4*(xn5+xn1) + 7*(xn4+xn2) + 8*xn3
	fb := (-151*yn4 + 8115*yn3 - 38312*yn2 + 36586*yn1) >> 16
	yn := fir + fb

	copy(f.y[:3], f.y[1:])
	f.y[3] = yn
	return yn
}

// pole3 is the shape shared by the I (1.5MHz) and Q (0.5MHz) 3-pole
// Butterworth filters: y_n = (x_{n-3}+x_n) + 3(x_{n-2}+x_{n-1}) + feedback.
type pole3 struct {
	gain    int64
	shift   uint
	c1      int64 // coefficient on y_{n-3}
	c2      int64 // coefficient on y_{n-2}
	c3      int64 // coefficient on y_{n-1}
	x       [4]int64
	y       [3]int64
}

func (f *pole3) reset() {
	f.x = [4]int64{}
	f.y = [3]int64{}
}

func (f *pole3) step(raw int64) int64 {
	copy(f.x[:3], f.x[1:])
	f.x[3] = raw * f.gain

	xn, xn1, xn2, xn3 := f.x[3], f.x[2], f.x[1], f.x[0]
	yn1, yn2, yn3 := f.y[2], f.y[1], f.y[0]

	fir := (xn3 + xn) + 3*(xn2+xn1)
	fb := (f.c1*yn3 - f.c2*yn2 + f.c3*yn1) >> f.shift
	yn := fir + fb

	copy(f.y[:2], f.y[1:])
	f.y[2] = yn
	return yn
}

// IFilter is the 3-pole Butterworth low-pass at 1.5MHz applied to the I
// (in-phase chroma) channel. Gain 1413, feedback shifted by 16.
type IFilter struct{ pole3 }

// NewIFilter returns a ready-to-use I-channel filter.
func NewIFilter() *IFilter {
	return &IFilter{pole3{gain: 1413, shift: 16, c1: 16559, c2: 72008, c3: 109682}}
}

// Reset clears filter history.
func (f *IFilter) Reset() { f.pole3.reset() }

// Step feeds one raw sample and returns the filtered output.
func (f *IFilter) Step(raw int64) int64 { return f.pole3.step(raw) }

// QFilter is the 3-pole Butterworth low-pass at 0.5MHz applied to the Q
// (quadrature chroma) channel. Gain 75, feedback shifted by 12.
type QFilter struct{ pole3 }

// NewQFilter returns a ready-to-use Q-channel filter.
func NewQFilter() *QFilter {
	return &QFilter{pole3{gain: 75, shift: 12, c1: 2612, c2: 9007, c3: 10453}}
}

// Reset clears filter history.
func (f *QFilter) Reset() { f.pole3.reset() }

// Step feeds one raw sample and returns the filtered output.
func (f *QFilter) Step(raw int64) int64 { return f.pole3.step(raw) }

// Bank bundles one Y/I/Q filter triple, the unit encoder.LoadXImage and the
// engine's per-line demodulator both drive across a scan line.
type Bank struct {
	Y YFilter
	I IFilter
	Q QFilter
}

// NewBank returns a Bank with fresh (zeroed) filter state.
func NewBank() *Bank {
	return &Bank{I: *NewIFilter(), Q: *NewQFilter()}
}

// Reset clears all three filters' history, e.g. at the start of a line.
func (b *Bank) Reset() {
	b.Y.Reset()
	b.I.Reset()
	b.Q.Reset()
}

// Step advances all three filters by one sample each and returns their
// filtered outputs.
func (b *Bank) Step(rawY, rawI, rawQ int64) (fy, fi, fq int64) {
	return b.Y.Step(rawY), b.I.Step(rawI), b.Q.Step(rawQ)
}
