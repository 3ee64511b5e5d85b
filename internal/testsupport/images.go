package testsupport

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"ridgeid/internal/imaging"
)

// BlobImage draws bright filled squares of the given side length on a black
// canvas, laid out left to right with a fixed gap. Squares larger than a few
// pixels survive extraction as one blob each.
func BlobImage(sides ...int) *image.Gray {
	const margin, gap = 10, 12
	width, height := margin, 2*margin
	for _, s := range sides {
		width += s + gap
		if s+2*margin > height {
			height = s + 2*margin
		}
	}
	width += margin
	img := image.NewGray(image.Rect(0, 0, width, height))
	x := margin
	for _, s := range sides {
		for yy := margin; yy < margin+s; yy++ {
			for xx := x; xx < x+s; xx++ {
				img.SetGray(xx, yy, color.Gray{Y: 255})
			}
		}
		x += s + gap
	}
	return img
}

// BlobRaster is BlobImage as a raster.
func BlobRaster(sides ...int) imaging.Raster {
	return imaging.FromImage(BlobImage(sides...))
}

// PNGBytes encodes img as PNG.
func PNGBytes(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// WritePNG writes img as a PNG file under dir and returns its path.
func WritePNG(t testing.TB, dir, name string, img image.Image) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, PNGBytes(t, img), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// PNGHeader returns the signature and IHDR chunk of an 8-bit grayscale PNG of
// the given size with no pixel data. It is enough for image.DecodeConfig.
func PNGHeader(width, height uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], width)
	binary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8 // bit depth; colour type, compression, filter and interlace stay 0
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}
