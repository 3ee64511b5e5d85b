package template

import (
	"crypto/md5"
	"encoding/hex"
	"image"

	"ridgeid/internal/imaging"
	"ridgeid/internal/services"
)

// Extract derives a template from a raw frame. It fails only when the frame
// itself is malformed; a frame with no qualifying blobs yields an empty
// template.
func Extract(r imaging.Raster) (Template, error) {
	if err := r.Validate(); err != nil {
		return Template{}, services.Wrap(services.ErrExtractionFailed, "template", "extract", "invalid frame", err)
	}

	gray := imaging.Luminance(r)
	blurred := imaging.GaussianBlur5(gray)
	binary := imaging.Binarize(blurred, imaging.OtsuThreshold(blurred))

	blobs := []RidgeBlob{}
	for _, c := range imaging.ExternalContours(binary) {
		area := c.Area()
		perimeter := c.Perimeter()
		if area <= MinBlobArea || perimeter <= 0 {
			continue
		}
		blobs = append(blobs, NewRidgeBlob(area, perimeter))
	}

	return Template{Blobs: blobs, ImageHash: Hash(r)}, nil
}

// ExtractImage is Extract for a decoded image.
func ExtractImage(img image.Image) (Template, error) {
	if img == nil {
		return Template{}, services.Wrap(services.ErrExtractionFailed, "template", "extract", "nil image", nil)
	}
	return Extract(imaging.FromImage(img))
}

// Hash returns the hex MD5 of the frame bytes in row-major order. MD5 keeps
// the tag comparable with templates enrolled by earlier tooling.
func Hash(r imaging.Raster) string {
	sum := md5.Sum(r.Pix)
	return hex.EncodeToString(sum[:])
}
