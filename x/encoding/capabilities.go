package encoding

// Capabilities is the fixed set of encodings this client can decode. It is
// computed once at startup and never changes afterwards: the image set plus
// the pseudo-encodings, unioned with the video set only when a native video
// decode path is available.
type Capabilities struct {
	ordered   []string
	supported map[string]struct{}
}

// NewCapabilities builds the capability set.
func NewCapabilities(videoAvailable bool) *Capabilities {
	ordered := make([]string, 0, len(imageEncodings)+len(videoEncodings)+2)
	ordered = append(ordered, imageEncodings...)
	if videoAvailable {
		ordered = append(ordered, videoEncodings...)
	}
	ordered = append(ordered, TagVoid, TagScroll)

	supported := make(map[string]struct{}, len(ordered))
	for _, tag := range ordered {
		supported[tag] = struct{}{}
	}

	return &Capabilities{ordered: ordered, supported: supported}
}

// Check returns the intersection of the requested encodings with the
// capability set, preserving the requested order. An empty intersection is a
// valid result, not an error.
func (c *Capabilities) Check(requested []string) []string {
	out := make([]string, 0, len(requested))
	for _, tag := range requested {
		if _, ok := c.supported[tag]; ok {
			out = append(out, tag)
		}
	}
	return out
}

// Supports reports whether a single encoding tag is in the capability set.
func (c *Capabilities) Supports(tag string) bool {
	_, ok := c.supported[tag]
	return ok
}

// List returns the full capability set in its fixed order.
func (c *Capabilities) List() []string {
	out := make([]string, len(c.ordered))
	copy(out, c.ordered)
	return out
}
