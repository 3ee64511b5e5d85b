package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRoster(); err != nil {
		return err
	}
	if err := c.normalizeCapture(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SnapshotDir) == "" {
		c.Paths.SnapshotDir = filepath.Join(c.Paths.DataDir, "snapshots")
	}
	if c.Paths.SnapshotDir, err = expandPath(c.Paths.SnapshotDir); err != nil {
		return fmt.Errorf("paths.snapshot_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRoster() error {
	if value, ok := os.LookupEnv("RIDGEID_DATABASE"); ok && strings.TrimSpace(value) != "" {
		c.Roster.DatabasePath = value
	}
	if strings.TrimSpace(c.Roster.DatabasePath) == "" {
		c.Roster.DatabasePath = filepath.Join(c.Paths.DataDir, defaultDatabaseName)
	}
	var err error
	if c.Roster.DatabasePath, err = expandPath(strings.TrimSpace(c.Roster.DatabasePath)); err != nil {
		return fmt.Errorf("roster.database_path: %w", err)
	}
	if c.Roster.BusyTimeoutMillis == 0 {
		c.Roster.BusyTimeoutMillis = defaultBusyTimeoutMillis
	}
	return nil
}

func (c *Config) normalizeCapture() error {
	c.Capture.Source = strings.ToLower(strings.TrimSpace(c.Capture.Source))
	if c.Capture.Source == "" {
		c.Capture.Source = defaultCaptureSource
	}
	if value, ok := os.LookupEnv("RIDGEID_DEVICE"); ok && strings.TrimSpace(value) != "" {
		c.Capture.Device = value
	}
	c.Capture.Device = strings.TrimSpace(c.Capture.Device)
	if c.Capture.Device == "" {
		c.Capture.Device = defaultCaptureDevice
	}
	c.Capture.FFmpegBinary = strings.TrimSpace(c.Capture.FFmpegBinary)
	if c.Capture.FFmpegBinary == "" {
		c.Capture.FFmpegBinary = defaultFFmpegBinary
	}
	c.Capture.InputFormat = strings.TrimSpace(c.Capture.InputFormat)
	if c.Capture.InputFormat == "" {
		c.Capture.InputFormat = defaultCaptureInputFormat
	}
	c.Capture.VideoSize = strings.TrimSpace(c.Capture.VideoSize)
	if c.Capture.TimeoutSeconds == 0 {
		c.Capture.TimeoutSeconds = defaultCaptureTimeoutSeconds
	}
	if strings.TrimSpace(c.Capture.ImagePath) != "" {
		var err error
		if c.Capture.ImagePath, err = expandPath(strings.TrimSpace(c.Capture.ImagePath)); err != nil {
			return fmt.Errorf("capture.image_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	if c.API.BodyLimitMB == 0 {
		c.API.BodyLimitMB = defaultAPIBodyLimitMB
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("RIDGEID_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	if c.Logging.RetentionDays == 0 {
		c.Logging.RetentionDays = defaultLogRetentionDays
	}
	if c.Logging.RotationHours == 0 {
		c.Logging.RotationHours = defaultLogRotationHours
	}
}
