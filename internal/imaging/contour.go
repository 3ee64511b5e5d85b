package imaging

import (
	"image"
	"math"
)

// Point is a pixel coordinate in the source image.
type Point struct {
	X, Y int
}

// Contour is the closed outer border of one foreground component, listed in
// tracing order starting from its first pixel in raster order.
type Contour []Point

// chain directions, counterclockwise on screen starting east.
var chain = [8]Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1}, {-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// ExternalContours traces the outer border of every 8-connected foreground
// component that is not enclosed by another component. Nonzero pixels are
// foreground and pixels beyond the image edge count as background. Contours
// come back in raster order of their starting pixel.
func ExternalContours(img *image.Gray) []Contour {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Padded grid with a one pixel background frame.
	pw, ph := w+2, h+2
	fg := make([]bool, pw*ph)
	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			fg[(y+1)*pw+x+1] = row[x] != 0
		}
	}

	outside := floodBackground(fg, pw, ph)
	label := make([]int, pw*ph)
	next := 0
	var contours []Contour
	for y := 1; y < ph-1; y++ {
		for x := 1; x < pw-1; x++ {
			i := y*pw + x
			if !fg[i] || label[i] != 0 {
				continue
			}
			next++
			if !labelComponent(fg, label, outside, pw, i, next) {
				continue
			}
			c := traceBorder(fg, pw, Point{x, y})
			for k := range c {
				c[k].X--
				c[k].Y--
			}
			contours = append(contours, c)
		}
	}
	return contours
}

// floodBackground marks background reachable from the frame through
// 4-connected steps. Background not reached is a hole.
func floodBackground(fg []bool, pw, ph int) []bool {
	seen := make([]bool, len(fg))
	stack := []int{0}
	seen[0] = true
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%pw, i/pw
		for _, d := range [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			nx, ny := x+d.X, y+d.Y
			if nx < 0 || ny < 0 || nx >= pw || ny >= ph {
				continue
			}
			j := ny*pw + nx
			if fg[j] || seen[j] {
				continue
			}
			seen[j] = true
			stack = append(stack, j)
		}
	}
	return seen
}

// labelComponent assigns id to the 8-connected component containing start and
// reports whether any of its pixels borders the outer background.
func labelComponent(fg []bool, label []int, outside []bool, pw, start, id int) bool {
	external := false
	stack := []int{start}
	label[start] = id
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%pw, i/pw
		for _, d := range chain {
			j := (y+d.Y)*pw + x + d.X
			if fg[j] {
				if label[j] == 0 {
					label[j] = id
					stack = append(stack, j)
				}
				continue
			}
			if outside[j] && (d.X == 0 || d.Y == 0) {
				external = true
			}
		}
	}
	return external
}

// traceBorder follows the outer border from start, which must be the
// component's first pixel in raster order. Tracing stops when the walk
// re-enters start from the neighbour found by the initial clockwise search.
func traceBorder(fg []bool, pw int, start Point) Contour {
	at := func(p Point) bool { return fg[p.Y*pw+p.X] }
	step := func(p Point, s int) Point { return Point{p.X + chain[s].X, p.Y + chain[s].Y} }

	// Search clockwise from the west neighbour for the first foreground pixel.
	s := 4
	found := false
	for k := 0; k < 8; k++ {
		s = (s + 7) & 7
		if at(step(start, s)) {
			found = true
			break
		}
	}
	if !found {
		return Contour{start}
	}

	first := step(start, s)
	contour := Contour{}
	cur := start
	for {
		contour = append(contour, cur)
		// Search counterclockwise starting just past the pixel we came from.
		var nxt Point
		for k := 1; k <= 8; k++ {
			d := (s + k) & 7
			if p := step(cur, d); at(p) {
				s, nxt = d, p
				break
			}
		}
		if nxt == start && cur == first {
			break
		}
		cur = nxt
		s = (s + 4) & 7
	}
	return contour
}

// Area is the polygon area enclosed by the contour, using pixel centres as
// vertices.
func (c Contour) Area() float64 {
	if len(c) < 3 {
		return 0
	}
	sum := 0
	prev := c[len(c)-1]
	for _, p := range c {
		sum += prev.X*p.Y - p.X*prev.Y
		prev = p
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter is the length of the closed polyline through the contour points.
func (c Contour) Perimeter() float64 {
	if len(c) < 2 {
		return 0
	}
	total := 0.0
	prev := c[len(c)-1]
	for _, p := range c {
		dx, dy := float64(p.X-prev.X), float64(p.Y-prev.Y)
		total += math.Sqrt(dx*dx + dy*dy)
		prev = p
	}
	return total
}
