package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"ridgeid/internal/config"
	"ridgeid/internal/imaging"
	"ridgeid/internal/logging"
	"ridgeid/internal/services"
)

// CameraSource grabs single frames from a V4L2 device through ffmpeg.
type CameraSource struct {
	Device      string
	Binary      string
	InputFormat string
	VideoSize   string
	Timeout     time.Duration
	DeviceWait  time.Duration
	LockPath    string

	logger  *slog.Logger
	watcher DeviceWaiter
}

// DeviceWaiter blocks until a device node appears or ctx ends.
type DeviceWaiter interface {
	WaitForDevice(ctx context.Context, devnode string) error
}

// NewCameraSource builds a camera source from configuration.
func NewCameraSource(cfg *config.Config, logger *slog.Logger) *CameraSource {
	logger = logging.NewComponentLogger(logger, "capture")
	return &CameraSource{
		Device:      cfg.Capture.Device,
		Binary:      cfg.Capture.FFmpegBinary,
		InputFormat: cfg.Capture.InputFormat,
		VideoSize:   cfg.Capture.VideoSize,
		Timeout:     cfg.CaptureTimeout(),
		DeviceWait:  cfg.DeviceWait(),
		LockPath:    cfg.CaptureLockPath(),
		logger:      logger,
		watcher:     NewUdevWatcher(logger),
	}
}

// WithWaiter replaces the hot-plug watcher.
func (c *CameraSource) WithWaiter(w DeviceWaiter) *CameraSource {
	c.watcher = w
	return c
}

// Capture returns one frame from the device.
func (c *CameraSource) Capture(ctx context.Context) (imaging.Raster, error) {
	if err := c.ensureDevice(ctx); err != nil {
		return imaging.Raster{}, err
	}

	binary, err := exec.LookPath(c.Binary)
	if err != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "locate ffmpeg", c.Binary, err)
	}

	unlock, err := c.lock()
	if err != nil {
		return imaging.Raster{}, err
	}
	defer unlock()

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := c.ffmpegArgs()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	runErr := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "grab frame", "timed out waiting for frame", ctxErr)
	}
	if runErr != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "grab frame", lastLine(stderr.String()), runErr)
	}
	if stdout.Len() == 0 {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "grab frame", c.Device, ErrNoFrame)
	}

	frame, err := DecodeBytes(stdout.Bytes())
	if err != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "decode frame", "", errors.Join(ErrNoFrame, err))
	}
	c.logger.Debug("frame captured",
		logging.String("device", c.Device),
		logging.Int("width", frame.Width),
		logging.Int("height", frame.Height),
		logging.Duration("elapsed", time.Since(started)),
	)
	return frame, nil
}

func (c *CameraSource) ffmpegArgs() []string {
	args := []string{"-hide_banner", "-loglevel", "error", "-nostdin"}
	if c.InputFormat != "" {
		args = append(args, "-f", c.InputFormat)
	}
	if c.VideoSize != "" {
		args = append(args, "-video_size", c.VideoSize)
	}
	return append(args, "-i", c.Device, "-frames:v", "1", "-f", "image2pipe", "-vcodec", "png", "-")
}

func (c *CameraSource) ensureDevice(ctx context.Context) error {
	if _, err := os.Stat(c.Device); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrCaptureUnavailable, "capture", "open device", c.Device, err)
	}
	if c.DeviceWait <= 0 || c.watcher == nil {
		return services.Wrap(services.ErrCaptureUnavailable, "capture", "open device", c.Device+" not present", os.ErrNotExist)
	}

	c.logger.Info("waiting for capture device",
		logging.String("device", c.Device),
		logging.Duration("wait", c.DeviceWait),
	)
	waitCtx, cancel := context.WithTimeout(ctx, c.DeviceWait)
	defer cancel()
	if err := c.watcher.WaitForDevice(waitCtx, c.Device); err != nil {
		return services.Wrap(services.ErrCaptureUnavailable, "capture", "wait for device", c.Device, err)
	}
	return nil
}

func (c *CameraSource) lock() (func(), error) {
	if strings.TrimSpace(c.LockPath) == "" {
		return func() {}, nil
	}
	fl := flock.New(c.LockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrCaptureUnavailable, "capture", "lock device", c.LockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrCaptureUnavailable, "capture", "lock device", fmt.Sprintf("%s held by another process", c.LockPath), ErrDeviceBusy)
	}
	return func() { _ = fl.Unlock() }, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	if s == "" {
		return "ffmpeg failed"
	}
	return s
}
