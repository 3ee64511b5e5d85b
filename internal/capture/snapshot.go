package capture

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spakin/netpbm"

	"ridgeid/internal/imaging"
)

// SaveSnapshot writes a raster to path as binary PGM (gray) or PPM (color).
func SaveSnapshot(path string, r imaging.Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	format := netpbm.PPM
	if r.Channels == 1 {
		format = netpbm.PGM
	}
	encErr := netpbm.Encode(f, r.Image(), &netpbm.EncodeOptions{
		Format:   format,
		MaxValue: 255,
		Comments: []string{"ridgeid capture"},
	})
	closeErr := f.Close()
	if encErr != nil {
		return fmt.Errorf("encode snapshot: %w", encErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close snapshot: %w", closeErr)
	}
	return nil
}
