// Package share publishes finished videos. The Directory implementation
// copies a video into the configured share directory and records a JSON
// manifest with its codec, MIME type, size, and checksum.
package share
