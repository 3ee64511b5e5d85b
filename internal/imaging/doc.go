// Package imaging holds the raster model and the low-level image operations
// the template extractor is built from: luminance conversion, the fixed 5x5
// Gaussian blur, Otsu thresholding, and outer contour tracing.
//
// Every operation is deterministic and allocation-bounded by the input size.
// Results are bit-compatible with the OpenCV primitives the legacy enrollment
// tooling used, so templates produced here stay comparable with templates
// already stored in the roster.
package imaging
