package sink

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/kvistgaard/ntsctv/raster"
)

// FileSink writes raw RGBA frames into an ffmpeg subprocess that muxes them
// into path, grounded on StartFFmpegCapture's exec.Command pipe pattern
// used in the opposite (write) direction.
type FileSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	w, h   int
}

// NewFileSink starts ffmpeg encoding (w, h) RGBA frames at fps into path.
// The container/codec are inferred by ffmpeg from path's extension.
func NewFileSink(path string, w, h int, fps float64) (*FileSink, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo", "-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", w, h),
		"-r", fmt.Sprintf("%g", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		path,
	}
	cmd := exec.Command("ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("sink: ffmpeg stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("sink: start ffmpeg writing %s: %w", path, err)
	}
	return &FileSink{cmd: cmd, stdin: stdin, w: w, h: h}, nil
}

func (s *FileSink) Write(pic *raster.Raster) error {
	if pic.Width != s.w || pic.Height != s.h {
		return fmt.Errorf("sink: frame size %dx%d does not match sink size %dx%d", pic.Width, pic.Height, s.w, s.h)
	}
	_, err := s.stdin.Write(pic.Pix)
	return err
}

func (s *FileSink) Close() error {
	s.stdin.Close()
	return s.cmd.Wait()
}
