package capture

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"

	"ridgeid/internal/config"
	"ridgeid/internal/imaging"
	"ridgeid/internal/services"
)

var (
	// ErrNoFrame reports that the source answered but produced no image.
	ErrNoFrame = errors.New("no frame")
	// ErrDeviceBusy reports that another process holds the capture device.
	ErrDeviceBusy = errors.New("capture device busy")
)

// Source produces one still frame on demand.
type Source interface {
	Capture(ctx context.Context) (imaging.Raster, error)
}

// FileSource reads a frame from an image file.
type FileSource struct {
	Path string
}

// Capture decodes the configured file.
func (s FileSource) Capture(ctx context.Context) (imaging.Raster, error) {
	if err := ctx.Err(); err != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "read file", "cancelled", err)
	}
	path := strings.TrimSpace(s.Path)
	if path == "" {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "read file", "no image path configured", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "read file", path, err)
	}
	defer f.Close()
	r, err := Decode(f)
	if err != nil {
		return imaging.Raster{}, services.Wrap(services.ErrCaptureUnavailable, "capture", "decode file", path, errors.Join(ErrNoFrame, err))
	}
	return r, nil
}

// NewSource picks a source from configuration. A non-empty imagePath always
// selects the file source.
func NewSource(cfg *config.Config, imagePath string, logger *slog.Logger) Source {
	if strings.TrimSpace(imagePath) != "" {
		return FileSource{Path: imagePath}
	}
	if cfg == nil {
		return FileSource{}
	}
	if cfg.Capture.Source == config.CaptureSourceFile {
		return FileSource{Path: cfg.Capture.ImagePath}
	}
	return NewCameraSource(cfg, logger)
}
