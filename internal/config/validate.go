package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRoster(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRoster() error {
	if strings.TrimSpace(c.Roster.DatabasePath) == "" {
		return errors.New("roster.database_path must be set")
	}
	if c.Roster.BusyTimeoutMillis < 0 {
		return errors.New("roster.busy_timeout_ms must be non-negative")
	}
	return nil
}

func (c *Config) validateCapture() error {
	switch c.Capture.Source {
	case CaptureSourceCamera:
		if c.Capture.Device == "" {
			return errors.New("capture.device must be set when capture.source is camera")
		}
	case CaptureSourceFile:
	default:
		return fmt.Errorf("capture.source must be %q or %q, got %q", CaptureSourceCamera, CaptureSourceFile, c.Capture.Source)
	}
	if c.Capture.TimeoutSeconds < 0 {
		return errors.New("capture.timeout_seconds must be non-negative")
	}
	if c.Capture.WaitForDeviceSeconds < 0 {
		return errors.New("capture.wait_for_device_seconds must be non-negative")
	}
	if c.Capture.VideoSize != "" {
		var w, h int
		if _, err := fmt.Sscanf(c.Capture.VideoSize, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
			return fmt.Errorf("capture.video_size must look like 640x480, got %q", c.Capture.VideoSize)
		}
	}
	return nil
}

func (c *Config) validateAPI() error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind %q: %w", c.API.Bind, err)
	}
	if c.API.BodyLimitMB < 0 {
		return errors.New("api.body_limit_mb must be non-negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be non-negative")
	}
	if c.Logging.RotationHours < 0 {
		return errors.New("logging.rotation_hours must be non-negative")
	}
	return nil
}
