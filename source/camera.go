package source

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/kvistgaard/ntsctv/raster"
)

// CameraSource pulls live frames from a v4l2/avfoundation/dshow device via
// an ffmpeg subprocess, directly grounded on StartFFmpegCapture's
// per-OS device-argument dispatch.
type CameraSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	w, h   int
	buf    []byte
}

// NewCameraSource opens device index n (interpreted per-OS, matching
// StartFFmpegCapture's convention) and scales frames to (w, h) RGBA.
func NewCameraSource(n, w, h int) (*CameraSource, error) {
	var args []string
	switch runtime.GOOS {
	case "linux":
		args = []string{"-f", "v4l2", "-i", fmt.Sprintf("/dev/video%d", n)}
	case "darwin":
		args = []string{"-f", "avfoundation", "-i", fmt.Sprintf("%d", n)}
	case "windows":
		args = []string{"-f", "dshow", "-i", fmt.Sprintf("video=%d", n)}
	default:
		return nil, fmt.Errorf("source: unsupported OS for camera capture: %s", runtime.GOOS)
	}
	args = append(args,
		"-hide_banner", "-loglevel", "error",
		"-fflags", "nobuffer", "-flags", "low_delay",
		"-vf", fmt.Sprintf("scale=%d:%d", w, h),
		"-f", "rawvideo", "-pix_fmt", "rgba", "-",
	)

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("source: ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("source: start camera capture on device %d: %w", n, err)
	}
	return &CameraSource{cmd: cmd, stdout: stdout, w: w, h: h, buf: make([]byte, w*h*4)}, nil
}

func (s *CameraSource) Next() (*raster.Raster, error) {
	if _, err := io.ReadFull(s.stdout, s.buf); err != nil {
		return nil, err
	}
	pic := raster.New(s.w, s.h)
	copy(pic.Pix, s.buf)
	return pic, nil
}

func (s *CameraSource) Close() error {
	s.stdout.Close()
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
