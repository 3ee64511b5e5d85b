// Package capture supplies still frames to the extractor.
//
// Two sources exist: a file source that decodes an image already on disk, and
// a camera source that asks ffmpeg for exactly one frame from a V4L2 device.
// Camera capture holds an advisory lock so two readers never drive the same
// device, and can wait for the device to be hot-plugged by watching udev
// events. Decoding accepts the common still formats plus the Netpbm family
// that scanner tooling often emits.
package capture
