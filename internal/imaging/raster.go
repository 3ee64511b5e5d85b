package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidRaster reports a raster whose geometry and pixel buffer disagree.
var ErrInvalidRaster = errors.New("invalid raster")

// Raster is an uncompressed frame in row-major order with interleaved
// channels. Channels is 1 (gray), 3 (RGB) or 4 (RGBA).
type Raster struct {
	Width    int
	Height   int
	Channels int
	Pix      []byte
}

// Validate reports whether the raster can be processed.
func (r Raster) Validate() error {
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidRaster, r.Width, r.Height)
	case r.Channels != 1 && r.Channels != 3 && r.Channels != 4:
		return fmt.Errorf("%w: unsupported channel count %d", ErrInvalidRaster, r.Channels)
	case len(r.Pix) != r.Width*r.Height*r.Channels:
		return fmt.Errorf("%w: have %d bytes, want %d", ErrInvalidRaster, len(r.Pix), r.Width*r.Height*r.Channels)
	}
	return nil
}

// FromImage converts a decoded image into a raster. Gray images keep a single
// channel; everything else is flattened to RGB.
func FromImage(img image.Image) Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	switch src := img.(type) {
	case *image.Gray:
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(pix[y*w:(y+1)*w], src.Pix[off:off+w])
		}
		return Raster{Width: w, Height: h, Channels: 1, Pix: pix}
	case *image.Gray16:
		pix := make([]byte, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				pix[y*w+x] = byte(src.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
			}
		}
		return Raster{Width: w, Height: h, Channels: 1, Pix: pix}
	}
	pix := make([]byte, w*h*3)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix[i], pix[i+1], pix[i+2] = c.R, c.G, c.B
			i += 3
		}
	}
	return Raster{Width: w, Height: h, Channels: 3, Pix: pix}
}

// Image returns the raster as a standard library image, useful for encoding
// snapshots.
func (r Raster) Image() image.Image {
	rect := image.Rect(0, 0, r.Width, r.Height)
	switch r.Channels {
	case 1:
		g := image.NewGray(rect)
		copy(g.Pix, r.Pix)
		return g
	case 4:
		n := image.NewNRGBA(rect)
		copy(n.Pix, r.Pix)
		return n
	}
	n := image.NewNRGBA(rect)
	for i, j := 0, 0; i+2 < len(r.Pix); i, j = i+3, j+4 {
		n.Pix[j], n.Pix[j+1], n.Pix[j+2], n.Pix[j+3] = r.Pix[i], r.Pix[i+1], r.Pix[i+2], 0xff
	}
	return n
}
