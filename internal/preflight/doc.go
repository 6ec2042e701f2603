// Package preflight implements the permission gate that must hold before a
// muxing job may start: writable output and state directories plus the
// ffmpeg binaries. The status command reuses the individual checks.
package preflight
