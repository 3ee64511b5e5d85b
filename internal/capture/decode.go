package capture

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"ridgeid/internal/imaging"
)

// MaxFramePixels bounds the pixel count of a decoded frame. Extraction holds
// several full-size working buffers, so the header is checked before any pixel
// data is decoded.
const MaxFramePixels = 3840 * 2160

// ErrFrameTooLarge reports an image whose header exceeds MaxFramePixels.
var ErrFrameTooLarge = errors.New("frame too large")

// Decode reads one image and converts it to a raster. PNG, JPEG, GIF, BMP,
// TIFF, WebP and Netpbm (P1 to P7) inputs are accepted.
func Decode(r io.Reader) (imaging.Raster, error) {
	br := bufio.NewReader(r)
	target, pnm := netpbmFormat(br)

	var header bytes.Buffer
	cfg, format, err := decodeConfig(io.TeeReader(br, &header), pnm)
	if err != nil {
		return imaging.Raster{}, fmt.Errorf("decode image header: %w", err)
	}
	if err := checkFrameSize(cfg, format); err != nil {
		return imaging.Raster{}, err
	}
	body := io.MultiReader(&header, br)

	if pnm {
		img, err := netpbm.Decode(body, &netpbm.DecodeOptions{Target: target})
		if err != nil {
			return imaging.Raster{}, fmt.Errorf("decode netpbm: %w", err)
		}
		return imaging.FromImage(img), nil
	}
	img, _, err := image.Decode(body)
	if err != nil {
		return imaging.Raster{}, fmt.Errorf("decode image: %w", err)
	}
	return imaging.FromImage(img), nil
}

func decodeConfig(r io.Reader, pnm bool) (image.Config, string, error) {
	if pnm {
		cfg, err := netpbm.DecodeConfig(r)
		return cfg, "netpbm", err
	}
	return image.DecodeConfig(r)
}

func checkFrameSize(cfg image.Config, format string) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("decode %s: empty image", format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxFramePixels {
		return fmt.Errorf("decode %s: %dx%d exceeds %d pixels: %w", format, cfg.Width, cfg.Height, MaxFramePixels, ErrFrameTooLarge)
	}
	return nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte) (imaging.Raster, error) {
	if len(data) == 0 {
		return imaging.Raster{}, fmt.Errorf("decode image: empty input")
	}
	return Decode(bytes.NewReader(data))
}

// DecodeBase64 accepts plain base64 or a data URL such as
// "data:image/png;base64,....".
func DecodeBase64(payload string) (imaging.Raster, error) {
	payload = strings.TrimSpace(payload)
	if idx := strings.Index(payload, ";base64,"); strings.HasPrefix(payload, "data:") && idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return imaging.Raster{}, fmt.Errorf("decode base64 image: %w", err)
	}
	return DecodeBytes(data)
}

func netpbmFormat(br *bufio.Reader) (netpbm.Format, bool) {
	magic, err := br.Peek(2)
	if err != nil || magic[0] != 'P' {
		return 0, false
	}
	switch magic[1] {
	case '1', '4':
		return netpbm.PBM, true
	case '2', '5':
		return netpbm.PGM, true
	case '3', '6':
		return netpbm.PPM, true
	case '7':
		return netpbm.PAM, true
	}
	return 0, false
}
