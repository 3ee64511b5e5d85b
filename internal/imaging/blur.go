package imaging

import "image"

// gaussian5 is the 5-tap binomial kernel used for a 5x5 Gaussian whose sigma
// is derived from the kernel size. The taps sum to 16.
var gaussian5 = [5]int{1, 4, 6, 4, 1}

// GaussianBlur5 smooths a gray image with a separable 5x5 Gaussian. Borders
// reflect without repeating the edge pixel (dcb|abcd|cba).
func GaussianBlur5(src *image.Gray) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return dst
	}

	at := func(x, y int) int {
		return int(src.Pix[src.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	// Horizontal pass keeps full precision (scale 16).
	rows := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for k, tap := range gaussian5 {
				sum += tap * at(reflect101(x+k-2, w), y)
			}
			rows[y*w+x] = sum
		}
	}

	// Vertical pass brings the total scale to 256, then rounds.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for k, tap := range gaussian5 {
				sum += tap * rows[reflect101(y+k-2, h)*w+x]
			}
			dst.Pix[y*dst.Stride+x] = uint8((sum + 128) >> 8)
		}
	}
	return dst
}

func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}
