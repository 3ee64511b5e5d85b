package preflight

import (
	"context"

	"ridgeid/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
	if cfg.Paths.SnapshotDir != "" {
		results = append(results, CheckDirectoryAccess("Snapshot directory", cfg.Paths.SnapshotDir))
	}

	switch cfg.Capture.Source {
	case config.CaptureSourceFile:
		results = append(results, CheckImageFile(cfg.Capture.ImagePath))
	default:
		results = append(results, CheckCaptureDevice(cfg.Capture.Device))
	}

	results = append(results, CheckRoster(ctx, cfg))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
