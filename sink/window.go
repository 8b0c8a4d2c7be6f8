package sink

import (
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/kvistgaard/ntsctv/raster"
)

// WindowSink shows frames in an on-screen window via ebiten, trimmed down
// from EbitenOutput's shared-framebuffer-plus-mutex design to the frame
// hand-off mechanics this pipeline needs: no keyboard/clipboard handling,
// no status bar, just Write feeding what Draw blits.
type WindowSink struct {
	w, h int

	mu     sync.RWMutex
	pix    []byte
	window *ebiten.Image
	closed bool
}

// NewWindowSink opens a (w, h) window and starts the ebiten run loop in the
// background. Write never blocks: frames written before the window's first
// Update call are simply picked up by its first Draw once ready.
func NewWindowSink(w, h int) (*WindowSink, error) {
	s := &WindowSink{
		w:   w,
		h:   h,
		pix: make([]byte, w*h*4),
	}

	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("ntsctv")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	go func() {
		if err := ebiten.RunGame(s); err != nil {
			fmt.Printf("sink: ebiten run loop exited: %v\n", err)
		}
	}()

	return s, nil
}

// Write copies pic into the shared frame buffer for the next Draw call.
func (s *WindowSink) Write(pic *raster.Raster) error {
	if pic.Width != s.w || pic.Height != s.h {
		return fmt.Errorf("sink: frame size %dx%d does not match window size %dx%d", pic.Width, pic.Height, s.w, s.h)
	}
	s.mu.Lock()
	copy(s.pix, pic.Pix)
	s.mu.Unlock()
	return nil
}

func (s *WindowSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// Update satisfies ebiten.Game. It terminates the run loop once Close has
// been called or the window is closed by hand.
func (s *WindowSink) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ebiten.Termination
	}
	return nil
}

func (s *WindowSink) Draw(screen *ebiten.Image) {
	if s.window == nil {
		s.window = ebiten.NewImage(s.w, s.h)
	}
	s.mu.RLock()
	s.window.WritePixels(s.pix)
	s.mu.RUnlock()
	screen.DrawImage(s.window, nil)
}

func (s *WindowSink) Layout(_, _ int) (int, int) {
	return s.w, s.h
}
