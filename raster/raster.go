// Package raster holds the rectangular RGBA8 pixel buffer that carries
// decoded images in and finished frames out of the ntsctv pipeline.
package raster

import "image"

// Raster is a rectangular RGBA8 pixel buffer with an explicit row stride,
// matching the memory layout of image.RGBA so it interoperates cheaply with
// the standard image package and third-party codecs.
type Raster struct {
	Width  int
	Height int
	Stride int
	Pix    []byte // Stride*Height bytes, R,G,B,A per pixel
}

// New allocates a zeroed Raster of the given size.
func New(w, h int) *Raster {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Raster{
		Width:  w,
		Height: h,
		Stride: w * 4,
		Pix:    make([]byte, w*4*h),
	}
}

// FromImage copies img into a new Raster, converting to RGBA8 if necessary.
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := New(w, h)
	rgba, ok := img.(*image.RGBA)
	if ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == r.Stride {
		copy(r.Pix, rgba.Pix)
		return r
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rr, gg, bb, aa := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			o := y*r.Stride + x*4
			r.Pix[o+0] = byte(rr >> 8)
			r.Pix[o+1] = byte(gg >> 8)
			r.Pix[o+2] = byte(bb >> 8)
			r.Pix[o+3] = byte(aa >> 8)
		}
	}
	return r
}

// At returns the RGBA8 pixel at (x, y). Out-of-bounds coordinates return
// zero values rather than panicking, since the engine's blit deliberately
// clips against the destination bounds.
func (r *Raster) At(x, y int) (rr, gg, bb, aa byte) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return 0, 0, 0, 0
	}
	o := y*r.Stride + x*4
	return r.Pix[o], r.Pix[o+1], r.Pix[o+2], r.Pix[o+3]
}

// Set writes the RGBA8 pixel at (x, y), silently clipping out-of-bounds
// writes.
func (r *Raster) Set(x, y int, rr, gg, bb, aa byte) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	o := y*r.Stride + x*4
	r.Pix[o] = rr
	r.Pix[o+1] = gg
	r.Pix[o+2] = bb
	r.Pix[o+3] = aa
}

// Fill sets every pixel to the given RGBA8 colour.
func (r *Raster) Fill(rr, gg, bb, aa byte) {
	for y := 0; y < r.Height; y++ {
		row := r.Pix[y*r.Stride : y*r.Stride+r.Width*4]
		for x := 0; x < len(row); x += 4 {
			row[x] = rr
			row[x+1] = gg
			row[x+2] = bb
			row[x+3] = aa
		}
	}
}

// ToImage returns a standard-library image.RGBA view backed by the same
// pixel storage, so a Raster can be handed directly to image/png,
// image/jpeg, or an ffmpeg pipe without copying.
func (r *Raster) ToImage() *image.RGBA {
	return &image.RGBA{
		Pix:    r.Pix,
		Stride: r.Stride,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// MeanLuma returns the average luma (Rec. 601, 0-255 scale) across the
// whole raster. Used by property/end-to-end tests to check warm-up and
// fade-out ramps without a golden-image comparison.
func (r *Raster) MeanLuma() float64 {
	if r.Width == 0 || r.Height == 0 {
		return 0
	}
	var sum float64
	n := 0
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			rr, gg, bb, _ := r.At(x, y)
			sum += 0.299*float64(rr) + 0.587*float64(gg) + 0.114*float64(bb)
			n++
		}
	}
	return sum / float64(n)
}
