package mux

import "strings"

// Codec identifies a video codec from the closed set reel can mux.
type Codec string

const (
	CodecAVC  Codec = "AVC"
	CodecHEVC Codec = "HEVC"
)

var codecMIME = map[Codec]string{
	CodecAVC:  "video/avc",
	CodecHEVC: "video/hevc",
}

// Codecs returns the closed codec set in display order.
func Codecs() []Codec {
	return []Codec{CodecAVC, CodecHEVC}
}

// ParseCodec accepts codec names (AVC, h264) and MIME spellings (video/avc).
func ParseCodec(value string) (Codec, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "avc", "h264", "h.264", "video/avc":
		return CodecAVC, true
	case "hevc", "h265", "h.265", "video/hevc":
		return CodecHEVC, true
	default:
		return "", false
	}
}

// Known reports whether c belongs to the closed codec set.
func (c Codec) Known() bool {
	_, ok := codecMIME[c]
	return ok
}

// MIMEType returns the codec MIME type, or an empty string for unknown codecs.
func (c Codec) MIMEType() string {
	return codecMIME[c]
}

func (c Codec) String() string {
	return string(c)
}
