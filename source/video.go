package source

import (
	"fmt"
	"io"
	"os/exec"

	"github.com/kvistgaard/ntsctv/raster"
)

// VideoSource pulls decoded frames from an ffmpeg subprocess piping raw
// RGBA frames on stdout, one Next call per frame. Grounded on
// StartFFmpegCapture's pipe-and-read-full pattern, adapted from a
// push (goroutine-fed shared buffer) model to a pull one since FrameSource
// is synchronous.
type VideoSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	w, h   int
	buf    []byte
}

// NewVideoSource starts ffmpeg decoding path, scaled to (w, h) RGBA frames.
func NewVideoSource(path string, w, h int) (*VideoSource, error) {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf("scale=%d:%d", w, h),
		"-f", "rawvideo", "-pix_fmt", "rgba", "-",
	}
	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("source: ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("source: start ffmpeg on %s: %w", path, err)
	}
	return &VideoSource{cmd: cmd, stdout: stdout, w: w, h: h, buf: make([]byte, w*h*4)}, nil
}

// Next reads one raw RGBA frame. It returns io.EOF once the file is
// exhausted; the runner is responsible for substituting a placeholder
// picture rather than treating that as fatal.
func (s *VideoSource) Next() (*raster.Raster, error) {
	if _, err := io.ReadFull(s.stdout, s.buf); err != nil {
		return nil, err
	}
	pic := raster.New(s.w, s.h)
	copy(pic.Pix, s.buf)
	return pic, nil
}

func (s *VideoSource) Close() error {
	s.stdout.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
