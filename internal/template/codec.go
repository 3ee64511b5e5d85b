package template

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"ridgeid/internal/services"
)

type document struct {
	Features  []RidgeBlob `json:"features"`
	ImageHash string      `json:"image_hash"`
}

// Encode serializes a template to its stored text form: a JSON document
// wrapped in standard base64.
func Encode(t Template) (string, error) {
	doc := document{Features: t.Blobs, ImageHash: t.ImageHash}
	if doc.Features == nil {
		doc.Features = []RidgeBlob{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", services.Wrap(services.ErrMalformedTemplate, "template", "encode", "", err)
	}
	return base64.StdEncoding.EncodeToString(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

// Decode parses the stored text form. A missing or null features field is an
// empty template; anything else that cannot be read is ErrMalformedTemplate.
func Decode(encoded string) (Template, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return Template{}, malformed("empty input", nil)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Template{}, malformed("base64", err)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Template{}, malformed("not a json object", nil)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Template{}, malformed("json", err)
	}
	for i, b := range doc.Features {
		if !finite(b.Area) || !finite(b.Perimeter) || !finite(b.Circularity) || b.Area <= MinBlobArea || b.Perimeter <= 0 {
			return Template{}, malformed(fmt.Sprintf("blob %d out of range", i), nil)
		}
	}
	if doc.Features == nil {
		doc.Features = []RidgeBlob{}
	}
	return Template{Blobs: doc.Features, ImageHash: doc.ImageHash}, nil
}

func malformed(message string, err error) error {
	return services.Wrap(services.ErrMalformedTemplate, "template", "decode", message, err)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
