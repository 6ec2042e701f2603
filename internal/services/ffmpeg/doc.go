// Package ffmpeg implements mux.Muxer on top of the ffmpeg command line.
//
// Images are fed through the concat demuxer, one per frame duration, scaled
// and padded to the configured geometry. libx264 encodes AVC and libx265
// encodes HEVC at the configured bit rate. Audio is encoded to AAC, and the
// result is optionally verified with ffprobe.
package ffmpeg
