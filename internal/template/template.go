package template

import "math"

// MinBlobArea is the exclusive lower bound on blob area. Smaller regions are
// treated as sensor noise.
const MinBlobArea = 50.0

// RidgeBlob describes one connected ridge region.
type RidgeBlob struct {
	Area        float64 `json:"area"`
	Perimeter   float64 `json:"perimeter"`
	Circularity float64 `json:"circularity"`
}

// NewRidgeBlob computes circularity from area and perimeter.
func NewRidgeBlob(area, perimeter float64) RidgeBlob {
	return RidgeBlob{
		Area:        area,
		Perimeter:   perimeter,
		Circularity: 4 * math.Pi * area / (perimeter * perimeter),
	}
}

// Template is the feature set derived from one frame. Blobs keep detection
// order and may be empty.
type Template struct {
	Blobs     []RidgeBlob `json:"features"`
	ImageHash string      `json:"image_hash"`
}

// Len returns the number of blobs.
func (t Template) Len() int { return len(t.Blobs) }

// Empty reports whether the template carries no blobs.
func (t Template) Empty() bool { return len(t.Blobs) == 0 }

// MeanArea returns the arithmetic mean blob area, or 0 for an empty template.
func (t Template) MeanArea() float64 {
	if len(t.Blobs) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range t.Blobs {
		sum += b.Area
	}
	return sum / float64(len(t.Blobs))
}

// Equal reports whether two templates carry the same blobs in the same order
// and the same image hash. A nil and an empty blob list are equal.
func (t Template) Equal(o Template) bool {
	if t.ImageHash != o.ImageHash || len(t.Blobs) != len(o.Blobs) {
		return false
	}
	for i := range t.Blobs {
		if t.Blobs[i] != o.Blobs[i] {
			return false
		}
	}
	return true
}
