// Package encoding defines the screen-update encoding taxonomy shared by the
// decode pipeline: concrete image and video encodings, the pseudo-encodings
// that need no decode step, and the control tags used internally.
package encoding

import "strings"

// Kind classifies an encoding tag once at ingress so the pipeline never
// re-parses tag strings downstream.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
	KindPseudo
	KindControl
)

func (k Kind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindPseudo:
		return "pseudo"
	case KindControl:
		return "control"
	default:
		return "unknown"
	}
}

// Image encodings decodable by the built-in image backend.
const (
	TagRGB   = "rgb"
	TagRGB32 = "rgb32"
	TagPNG   = "png"
	TagJPEG  = "jpeg"
	TagWebP  = "webp"
)

// Video encodings, available only when a native video decode path exists.
const (
	TagH264 = "h264"
	TagVP8  = "vp8"
	TagVP9  = "vp9"
)

// Pseudo-encodings carried in every capability set.
const (
	TagVoid   = "void"
	TagScroll = "scroll"
)

// Control and post-paint tags. These never appear in a capability set.
const (
	// TagEOS marks the synthetic end-of-stream packet enqueued on close.
	TagEOS = "eos"

	// TagPainted replaces a packet's encoding once its paint has landed.
	TagPainted = "offscreen-painted"
)

// Prefixes a decode stage stamps onto a packet so the paint engine can pick
// the update kind without consulting the decode backends. The original
// encoding survives as the sub-tag for diagnostics, e.g. "bitmap:png".
const (
	BitmapPrefix = "bitmap"
	FramePrefix  = "frame"
)

var imageEncodings = []string{TagRGB, TagRGB32, TagPNG, TagJPEG, TagWebP}

var videoEncodings = []string{TagH264, TagVP8, TagVP9}

// ImageEncodings returns the fixed ordered image encoding set.
func ImageEncodings() []string {
	out := make([]string, len(imageEncodings))
	copy(out, imageEncodings)
	return out
}

// VideoEncodings returns the fixed ordered video encoding set.
func VideoEncodings() []string {
	out := make([]string, len(videoEncodings))
	copy(out, videoEncodings)
	return out
}

// KindOf resolves a raw encoding tag to its Kind. Composite tags such as
// "bitmap:png" resolve by their prefix.
func KindOf(tag string) Kind {
	switch Base(tag) {
	case TagRGB, TagRGB32, TagPNG, TagJPEG, TagWebP, BitmapPrefix:
		return KindImage
	case TagH264, TagVP8, TagVP9, FramePrefix:
		return KindVideo
	case TagVoid, TagScroll:
		return KindPseudo
	case TagEOS:
		return KindControl
	default:
		return KindUnknown
	}
}

// Base returns the portion of a tag before the ":" delimiter, or the whole
// tag when no delimiter is present.
func Base(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[:i]
	}
	return tag
}

// SubTag returns the portion of a tag after the ":" delimiter, identifying
// the original source encoding of a decoded packet. Empty when absent.
func SubTag(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return ""
}

// Composite joins a paint-kind prefix with the original encoding.
func Composite(prefix, source string) string {
	return prefix + ":" + source
}
