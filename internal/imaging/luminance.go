package imaging

import "image"

// Fixed-point BT.601 weights (0.299, 0.587, 0.114) scaled by 2^14.
const (
	lumaShift = 14
	lumaR     = 4899
	lumaG     = 9617
	lumaB     = 1868
)

// Luminance reduces a raster to a single channel. Multi-channel rasters use
// Y = 0.299R + 0.587G + 0.114B with rounding; the alpha channel is ignored.
func Luminance(r Raster) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	if r.Channels == 1 {
		copy(g.Pix, r.Pix)
		return g
	}
	for i, j := 0, 0; j < len(g.Pix); i, j = i+r.Channels, j+1 {
		y := int(r.Pix[i])*lumaR + int(r.Pix[i+1])*lumaG + int(r.Pix[i+2])*lumaB
		g.Pix[j] = uint8((y + 1<<(lumaShift-1)) >> lumaShift)
	}
	return g
}
