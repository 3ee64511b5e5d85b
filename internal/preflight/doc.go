// Package preflight provides readiness checks for the filesystem paths,
// capture hardware, external binaries, and roster database ridgeid depends
// on.
//
// The CLI "ridgeid check" command runs RunAll and renders each Result. The
// serve command runs the same checks at startup and logs failures without
// refusing to start, since the HTTP surface never touches the camera.
package preflight
