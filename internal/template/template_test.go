package template_test

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"ridgeid/internal/imaging"
	"ridgeid/internal/services"
	"ridgeid/internal/template"
)

func grayRaster(w, h int, rects ...image.Rectangle) imaging.Raster {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for _, r := range rects {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return imaging.FromImage(img)
}

func TestExtractFindsBlobsAndDropsNoise(t *testing.T) {
	r := grayRaster(120, 80,
		image.Rect(10, 10, 40, 40),
		image.Rect(70, 20, 100, 50),
		image.Rect(55, 65, 58, 68),
	)
	tpl, err := template.Extract(r)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if tpl.Len() != 2 {
		t.Fatalf("expected 2 blobs, got %d: %+v", tpl.Len(), tpl.Blobs)
	}
	for i, b := range tpl.Blobs {
		if b.Area <= template.MinBlobArea || b.Perimeter <= 0 {
			t.Fatalf("blob %d violates bounds: %+v", i, b)
		}
		if b.Area < 700 || b.Area > 1100 {
			t.Fatalf("blob %d area %v outside expected range", i, b.Area)
		}
		want := 4 * math.Pi * b.Area / (b.Perimeter * b.Perimeter)
		if math.Abs(b.Circularity-want) > 1e-12 {
			t.Fatalf("blob %d circularity %v, want %v", i, b.Circularity, want)
		}
	}
	sum := md5.Sum(r.Pix)
	if tpl.ImageHash != hex.EncodeToString(sum[:]) {
		t.Fatalf("unexpected hash %q", tpl.ImageHash)
	}
}

func TestExtractBlankFrameYieldsEmptyTemplate(t *testing.T) {
	tpl, err := template.Extract(grayRaster(16, 16))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !tpl.Empty() || tpl.Blobs == nil {
		t.Fatalf("expected empty non-nil blob list, got %#v", tpl.Blobs)
	}
	if len(tpl.ImageHash) != 32 {
		t.Fatalf("expected md5 hex hash, got %q", tpl.ImageHash)
	}
}

func TestExtractColorFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for y := 15; y < 45; y++ {
		for x := 15; x < 45; x++ {
			img.Set(x, y, color.RGBA{R: 240, G: 230, B: 220, A: 255})
		}
	}
	tpl, err := template.ExtractImage(img)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if tpl.Len() != 1 {
		t.Fatalf("expected 1 blob, got %d", tpl.Len())
	}
}

func TestExtractRejectsMalformedFrame(t *testing.T) {
	_, err := template.Extract(imaging.Raster{Width: 4, Height: 4, Channels: 1, Pix: make([]byte, 3)})
	if !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
	if _, err := template.ExtractImage(nil); !errors.Is(err, services.ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed for nil image, got %v", err)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	cases := []template.Template{
		{Blobs: []template.RidgeBlob{}, ImageHash: "d41d8cd98f00b204e9800998ecf8427e"},
		{Blobs: []template.RidgeBlob{
			template.NewRidgeBlob(120.5, 44.14213562373095),
			template.NewRidgeBlob(1e6/3, 2309.4),
		}, ImageHash: "abc"},
	}
	for _, tc := range cases {
		enc, err := template.Encode(tc)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := template.Decode(enc)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !got.Equal(tc) {
			t.Fatalf("round trip mismatch: %+v vs %+v", got, tc)
		}
	}
}

func TestDecodeLegacyDocument(t *testing.T) {
	legacy := `{"features": [{"area": 120.0, "perimeter": 44.0, "circularity": 0.7788}], "image_hash": "ff00"}`
	tpl, err := template.Decode(base64.StdEncoding.EncodeToString([]byte(legacy)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tpl.Len() != 1 || tpl.Blobs[0].Area != 120 || tpl.ImageHash != "ff00" {
		t.Fatalf("unexpected template %+v", tpl)
	}
}

func TestDecodeMissingFeaturesIsEmpty(t *testing.T) {
	for _, doc := range []string{`{"image_hash": "x"}`, `{"features": null}`} {
		tpl, err := template.Decode(base64.StdEncoding.EncodeToString([]byte(doc)))
		if err != nil {
			t.Fatalf("decode %s: %v", doc, err)
		}
		if !tpl.Empty() {
			t.Fatalf("expected empty template for %s", doc)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	b64 := func(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }
	inputs := map[string]string{
		"empty":          "",
		"not base64":     "!!!not base64!!!",
		"not json":       b64("hello"),
		"json array":     b64(`[1,2,3]`),
		"json null":      b64(`null`),
		"wrong type":     b64(`{"features": "abc"}`),
		"bad perimeter":  b64(`{"features": [{"area": 60, "perimeter": 0, "circularity": 1}]}`),
		"negative area":  b64(`{"features": [{"area": -1, "perimeter": 3, "circularity": 1}]}`),
		"zero area":      b64(`{"features": [{"area": 0, "perimeter": 1, "circularity": 0}]}`),
		"area at cutoff": b64(`{"features": [{"area": 50, "perimeter": 28, "circularity": 0.8}]}`),
		"truncated json": b64(`{"features": [`),
	}
	for name, in := range inputs {
		if _, err := template.Decode(in); !errors.Is(err, services.ErrMalformedTemplate) {
			t.Fatalf("%s: expected ErrMalformedTemplate, got %v", name, err)
		}
	}
}

func TestMeanArea(t *testing.T) {
	tpl := template.Template{Blobs: []template.RidgeBlob{{Area: 100}, {Area: 200}}}
	if tpl.MeanArea() != 150 {
		t.Fatalf("mean = %v", tpl.MeanArea())
	}
	if (template.Template{}).MeanArea() != 0 {
		t.Fatal("expected zero mean for empty template")
	}
}
