package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"ridgeid/internal/logging"
)

// UdevWatcher waits for video4linux device nodes announced over the kernel
// netlink socket.
type UdevWatcher struct {
	logger *slog.Logger
}

// NewUdevWatcher returns a watcher that logs through logger.
func NewUdevWatcher(logger *slog.Logger) *UdevWatcher {
	return &UdevWatcher{logger: logger}
}

// WaitForDevice blocks until devnode exists, a matching add event arrives, or
// ctx ends.
func (w *UdevWatcher) WaitForDevice(ctx context.Context, devnode string) error {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect netlink: %w", err)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent, monitorBuffer)
	errs := make(chan error, monitorBuffer)
	quit := conn.Monitor(queue, errs, videoDeviceMatcher())
	defer stopMonitor(quit, queue, errs)

	// The node may have appeared between the caller's stat and the subscribe.
	if _, err := os.Stat(devnode); err == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("device %s did not appear: %w", devnode, ctx.Err())
		case uevent := <-queue:
			if eventDeviceName(uevent) != devnode {
				continue
			}
			w.logger.Info("capture device attached",
				logging.String(logging.FieldEventType, "capture_device_added"),
				logging.String("device", devnode),
				logging.String("kobj", uevent.KObj),
			)
			return nil
		case err := <-errs:
			logging.WarnWithContext(w.logger, "netlink monitor error", "netlink_monitor_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "device hot-plug may go unnoticed"),
			)
		}
	}
}

// monitorBuffer covers the sends a monitor worker can still make once quit is
// closed: the one in flight plus the read that fails on the closed socket.
const monitorBuffer = 2

// stopMonitor signals the worker and empties both channels so its remaining
// sends land in the buffers instead of blocking forever.
func stopMonitor(quit chan struct{}, queue chan netlink.UEvent, errs chan error) {
	close(quit)
	for {
		select {
		case <-queue:
		case <-errs:
		default:
			return
		}
	}
}

// videoDeviceMatcher accepts add events for the video4linux subsystem.
func videoDeviceMatcher() netlink.Matcher {
	action := "add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "video4linux",
		},
	})
	return rules
}

func eventDeviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		if !strings.HasPrefix(devname, "/") {
			devname = "/dev/" + devname
		}
		return devname
	}
	if devpath := uevent.Env["DEVPATH"]; devpath != "" {
		return "/dev/" + path.Base(devpath)
	}
	return ""
}
