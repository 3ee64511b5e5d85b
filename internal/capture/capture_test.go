package capture_test

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"ridgeid/internal/capture"
	"ridgeid/internal/config"
	"ridgeid/internal/imaging"
	"ridgeid/internal/services"
	"ridgeid/internal/testsupport"
)

func writeStub(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "ffmpeg-stub")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func cameraFixture(t *testing.T, body string) (*capture.CameraSource, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Capture.Device), 0o755); err != nil {
		t.Fatalf("mkdir dev: %v", err)
	}
	if err := os.WriteFile(cfg.Capture.Device, nil, 0o644); err != nil {
		t.Fatalf("create fake device: %v", err)
	}
	cfg.Capture.FFmpegBinary = writeStub(t, testsupport.BaseDir(cfg), body)
	return capture.NewCameraSource(cfg, nil), cfg
}

type fakeWaiter struct {
	create string
	err    error
	calls  int
}

func (f *fakeWaiter) WaitForDevice(ctx context.Context, devnode string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(f.create, nil, 0o644)
}

func TestFileSourceDecodesPNG(t *testing.T) {
	path := testsupport.WritePNG(t, t.TempDir(), "probe.png", testsupport.BlobImage(20, 30))
	frame, err := capture.FileSource{Path: path}.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if frame.Channels != 1 || frame.Width == 0 || frame.Height == 0 {
		t.Fatalf("unexpected frame %dx%dx%d", frame.Width, frame.Height, frame.Channels)
	}
}

func TestFileSourceErrors(t *testing.T) {
	cases := map[string]string{
		"missing": filepath.Join(t.TempDir(), "missing.png"),
		"empty":   "",
	}
	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	cases["garbage"] = garbage

	for name, path := range cases {
		_, err := capture.FileSource{Path: path}.Capture(context.Background())
		if !errors.Is(err, services.ErrCaptureUnavailable) {
			t.Fatalf("%s: expected ErrCaptureUnavailable, got %v", name, err)
		}
	}
	_, err := capture.FileSource{Path: garbage}.Capture(context.Background())
	if !errors.Is(err, capture.ErrNoFrame) {
		t.Fatalf("expected ErrNoFrame for undecodable file, got %v", err)
	}
}

func TestSnapshotRoundTripThroughNetpbm(t *testing.T) {
	frame := testsupport.BlobRaster(25)
	path := filepath.Join(t.TempDir(), "snap", "frame.pgm")
	if err := capture.SaveSnapshot(path, frame); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	back, err := capture.FileSource{Path: path}.Capture(context.Background())
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if back.Width != frame.Width || back.Height != frame.Height {
		t.Fatalf("size changed: %dx%d vs %dx%d", back.Width, back.Height, frame.Width, frame.Height)
	}
	gray := imaging.Luminance(back)
	for i, v := range frame.Pix {
		if gray.Pix[i] != v {
			t.Fatalf("pixel %d changed: %d vs %d", i, gray.Pix[i], v)
		}
	}
}

func TestSaveSnapshotRejectsInvalidRaster(t *testing.T) {
	err := capture.SaveSnapshot(filepath.Join(t.TempDir(), "x.pgm"), imaging.Raster{})
	if !errors.Is(err, imaging.ErrInvalidRaster) {
		t.Fatalf("expected ErrInvalidRaster, got %v", err)
	}
}

func TestDecodeBase64AcceptsDataURL(t *testing.T) {
	data := testsupport.PNGBytes(t, testsupport.BlobImage(15))
	plain := base64.StdEncoding.EncodeToString(data)
	for _, payload := range []string{plain, "data:image/png;base64," + plain} {
		if _, err := capture.DecodeBase64(payload); err != nil {
			t.Fatalf("DecodeBase64: %v", err)
		}
	}
	if _, err := capture.DecodeBase64("###"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
	if _, err := capture.DecodeBytes(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestDecodeRejectsOversizedFrame(t *testing.T) {
	cases := map[string][]byte{
		"png": testsupport.PNGHeader(12000, 12000),
		"pgm": []byte("P5\n12000 12000\n255\n"),
	}
	for name, data := range cases {
		_, err := capture.DecodeBytes(data)
		if !errors.Is(err, capture.ErrFrameTooLarge) {
			t.Fatalf("%s: expected ErrFrameTooLarge, got %v", name, err)
		}
	}

	// Same truncated header at a small size fails on pixel data, not size.
	if _, err := capture.DecodeBytes(testsupport.PNGHeader(64, 64)); err == nil || errors.Is(err, capture.ErrFrameTooLarge) {
		t.Fatalf("expected a decode error other than ErrFrameTooLarge, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "huge.png")
	if err := os.WriteFile(path, testsupport.PNGHeader(12000, 12000), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := capture.FileSource{Path: path}.Capture(context.Background())
	if !errors.Is(err, services.ErrCaptureUnavailable) || !errors.Is(err, capture.ErrFrameTooLarge) {
		t.Fatalf("expected capture unavailable wrapping ErrFrameTooLarge, got %v", err)
	}
}

func TestCameraSourceCapturesFrame(t *testing.T) {
	png := testsupport.WritePNG(t, t.TempDir(), "frame.png", testsupport.BlobImage(30))
	source, _ := cameraFixture(t, `cat "`+png+`"`)
	frame, err := source.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := frame.Validate(); err != nil {
		t.Fatalf("invalid frame: %v", err)
	}
}

func TestCameraSourceNoOutput(t *testing.T) {
	source, _ := cameraFixture(t, "exit 0")
	_, err := source.Capture(context.Background())
	if !errors.Is(err, services.ErrCaptureUnavailable) || !errors.Is(err, capture.ErrNoFrame) {
		t.Fatalf("expected no-frame capture error, got %v", err)
	}
}

func TestCameraSourceCommandFailure(t *testing.T) {
	source, _ := cameraFixture(t, "echo 'Cannot open video device' >&2; exit 1")
	_, err := source.Capture(context.Background())
	if !errors.Is(err, services.ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
}

func TestCameraSourceMissingBinary(t *testing.T) {
	source, _ := cameraFixture(t, "exit 0")
	source.Binary = "clearly-not-present-ffmpeg"
	_, err := source.Capture(context.Background())
	if !errors.Is(err, services.ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
}

func TestCameraSourceDeviceBusy(t *testing.T) {
	source, cfg := cameraFixture(t, "exit 0")
	held := flock.New(cfg.CaptureLockPath())
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	_, err = source.Capture(context.Background())
	if !errors.Is(err, capture.ErrDeviceBusy) || !errors.Is(err, services.ErrCaptureUnavailable) {
		t.Fatalf("expected device busy, got %v", err)
	}
}

func TestCameraSourceMissingDevice(t *testing.T) {
	source, cfg := cameraFixture(t, "exit 0")
	if err := os.Remove(cfg.Capture.Device); err != nil {
		t.Fatalf("remove device: %v", err)
	}
	waiter := &fakeWaiter{}
	source.WithWaiter(waiter)

	_, err := source.Capture(context.Background())
	if !errors.Is(err, services.ErrCaptureUnavailable) {
		t.Fatalf("expected ErrCaptureUnavailable, got %v", err)
	}
	if waiter.calls != 0 {
		t.Fatal("waiter should not run when no wait is configured")
	}
}

func TestCameraSourceWaitsForDevice(t *testing.T) {
	png := testsupport.WritePNG(t, t.TempDir(), "frame.png", testsupport.BlobImage(30))
	source, cfg := cameraFixture(t, `cat "`+png+`"`)
	if err := os.Remove(cfg.Capture.Device); err != nil {
		t.Fatalf("remove device: %v", err)
	}
	source.DeviceWait = 5 * time.Second
	waiter := &fakeWaiter{create: cfg.Capture.Device}
	source.WithWaiter(waiter)

	if _, err := source.Capture(context.Background()); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if waiter.calls != 1 {
		t.Fatalf("expected one wait, got %d", waiter.calls)
	}

	if err := os.Remove(cfg.Capture.Device); err != nil {
		t.Fatalf("remove device: %v", err)
	}
	waiter.err = context.DeadlineExceeded
	if _, err := source.Capture(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wait error, got %v", err)
	}
}

func TestNewSourceSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if _, ok := capture.NewSource(cfg, "/tmp/probe.png", nil).(capture.FileSource); !ok {
		t.Fatal("explicit image path should select the file source")
	}
	if _, ok := capture.NewSource(cfg, "", nil).(*capture.CameraSource); !ok {
		t.Fatal("camera config should select the camera source")
	}
	cfg.Capture.Source = config.CaptureSourceFile
	cfg.Capture.ImagePath = "/tmp/other.png"
	src, ok := capture.NewSource(cfg, "", nil).(capture.FileSource)
	if !ok || src.Path != "/tmp/other.png" {
		t.Fatalf("file config should select the file source, got %#v", src)
	}
}
