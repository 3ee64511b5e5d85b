// Package template derives ridge templates from raw frames and converts them
// to and from the opaque text form stored in the roster.
//
// A template is the ordered list of ridge blobs found in a frame plus an
// integrity tag of the frame bytes. The tag records provenance only; matching
// never looks at it.
package template
