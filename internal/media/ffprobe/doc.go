// Package ffprobe wraps ffprobe's JSON report for verifying muxed output:
// stream counts, the first video stream's geometry, and container duration.
package ffprobe
