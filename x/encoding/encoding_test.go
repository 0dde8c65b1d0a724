package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckWithoutVideoSupport(t *testing.T) {
	t.Parallel()
	caps := NewCapabilities(false)

	got := caps.Check([]string{"rgb", "h264", "bogus"})
	require.Equal(t, []string{"rgb"}, got)
}

func TestCheckWithVideoSupport(t *testing.T) {
	t.Parallel()
	caps := NewCapabilities(true)

	got := caps.Check([]string{"rgb", "h264", "bogus"})
	require.Equal(t, []string{"rgb", "h264"}, got)
}

func TestCheckEmptyIntersectionIsValid(t *testing.T) {
	t.Parallel()
	caps := NewCapabilities(false)

	got := caps.Check([]string{"h264", "nonsense"})
	require.Empty(t, got)
}

func TestPseudoEncodingsAlwaysPresent(t *testing.T) {
	t.Parallel()
	for _, video := range []bool{false, true} {
		caps := NewCapabilities(video)
		require.True(t, caps.Supports(TagVoid))
		require.True(t, caps.Supports(TagScroll))
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	cases := map[string]Kind{
		"rgb":        KindImage,
		"rgb32":      KindImage,
		"png":        KindImage,
		"bitmap:png": KindImage,
		"h264":       KindVideo,
		"vp9":        KindVideo,
		"frame:h264": KindVideo,
		"void":       KindPseudo,
		"scroll":     KindPseudo,
		"eos":        KindControl,
		"bogus":      KindUnknown,
	}
	for tag, want := range cases {
		require.Equal(t, want, KindOf(tag), "tag %q", tag)
	}
}

func TestBaseAndSubTag(t *testing.T) {
	t.Parallel()
	require.Equal(t, "bitmap", Base("bitmap:jpeg"))
	require.Equal(t, "jpeg", SubTag("bitmap:jpeg"))
	require.Equal(t, "scroll", Base("scroll"))
	require.Equal(t, "", SubTag("scroll"))
	require.Equal(t, "frame:h264", Composite(FramePrefix, "h264"))
}
