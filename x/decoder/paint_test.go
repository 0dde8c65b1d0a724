package decoder

import (
	"bytes"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/remoteview/renderer/x/encoding"
	"github.com/remoteview/renderer/x/surface"
)

// countingScheduler runs tasks inline and counts them so tests can wait for
// the deferred snapshot refresh that follows each paint.
type countingScheduler struct {
	mu  sync.Mutex
	ran int
}

func (s *countingScheduler) Schedule(fn func()) {
	fn()
	s.mu.Lock()
	s.ran++
	s.mu.Unlock()
}

func (s *countingScheduler) Stop() {}

func (s *countingScheduler) wait(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.ran >= n
	}, 2*time.Second, time.Millisecond)
}

func redRGB(w, h int) []byte {
	data := make([]byte, w*h*3)
	for i := 0; i < len(data); i += 3 {
		data[i] = 0xff
	}
	return data
}

func canvasAt(c surface.Canvas, x, y int) color.RGBA {
	return c.Contents().(*image.RGBA).RGBAAt(x, y)
}

func TestBitmapPaintClearsAndBlits(t *testing.T) {
	t.Parallel()
	live := surface.NewImageCanvas(16, 16)
	d, rec, _ := testDecoder(t, func(cfg *Config) {
		cfg.Live = live
		cfg.ImageDecoder = NewStdImageDecoder()
	})

	pkt := &Packet{
		SurfaceID: "s1",
		X:         4, Y: 4, Width: 2, Height: 2,
		Encoding: encoding.TagRGB,
		Payload:  redRGB(2, 2),
		Seq:      1,
	}
	pkt.ResolveKind()
	d.Enqueue(pkt)
	rec.waitFor(t, 1)

	red := color.RGBA{R: 0xff, A: 0xff}
	require.Equal(t, red, canvasAt(live, 4, 4))
	require.Equal(t, red, canvasAt(live, 5, 5))
	require.Equal(t, color.RGBA{}, canvasAt(live, 3, 3))
}

func TestScrollRecordsAppliedSequentially(t *testing.T) {
	t.Parallel()
	// Seed both canvases with the same column-striped pattern.
	seed := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			seed.SetRGBA(x, y, color.RGBA{R: uint8(x * 12), A: 0xff})
		}
	}
	live := surface.NewImageCanvas(20, 10)
	live.DrawImage(seed, 0, 0, 20, 10)
	expected := surface.NewImageCanvas(20, 10)
	expected.DrawImage(seed, 0, 0, 20, 10)

	records := []ScrollRect{
		{SrcX: 0, SrcY: 0, SrcW: 10, SrcH: 10, DX: 5, DY: 0},
		{SrcX: 5, SrcY: 0, SrcW: 10, SrcH: 10, DX: 5, DY: 0},
	}

	// Reference: strictly sequential application in listed order. The second
	// record reads pixels the first one wrote.
	for _, r := range records {
		expected.CopyOffset(r.SrcX, r.SrcY, r.SrcW, r.SrcH, r.DX, r.DY)
	}

	d, rec, _ := testDecoder(t, func(cfg *Config) { cfg.Live = live })
	pkt := &Packet{
		SurfaceID: "s1",
		Width:     20, Height: 10,
		Encoding: encoding.TagScroll,
		Payload:  records,
		Seq:      1,
	}
	pkt.ResolveKind()
	d.Enqueue(pkt)
	rec.waitFor(t, 1)

	got := live.Contents().(*image.RGBA)
	want := expected.Contents().(*image.RGBA)
	require.True(t, bytes.Equal(want.Pix, got.Pix), "scroll result diverged from sequential application")
}

func TestScrollWithBadPayloadIsReportedNotPainted(t *testing.T) {
	t.Parallel()
	d, rec, _ := testDecoder(t, nil)

	pkt := &Packet{SurfaceID: "s1", Encoding: encoding.TagScroll, Payload: []byte{1, 2}, Seq: 1}
	pkt.ResolveKind()
	d.Enqueue(pkt)

	events := rec.waitFor(t, 1)
	require.True(t, events[0].failed)
}

func TestPaintBookkeeping(t *testing.T) {
	t.Parallel()
	d, rec, _ := testDecoder(t, nil)

	pkt := rgbPacket(1, 8, 8)
	d.Enqueue(pkt)
	rec.waitFor(t, 1)

	require.Equal(t, encoding.TagPainted, pkt.Encoding)
	require.Nil(t, pkt.Payload)
	ms, ok := pkt.Options[OptionDecodeTime].(int64)
	require.True(t, ok, "decode_time option missing")
	require.GreaterOrEqual(t, ms, int64(0))
}

func TestDecodeTimeClampedToNonNegative(t *testing.T) {
	t.Parallel()
	// A clock that steps backwards between decode start and paint.
	times := []time.Time{
		time.Unix(100, 0),
		time.Unix(50, 0),
	}
	idx := 0
	d, rec, _ := testDecoder(t, func(cfg *Config) {
		cfg.Now = func() time.Time {
			t := times[idx%len(times)]
			idx++
			return t
		}
	})

	pkt := rgbPacket(1, 8, 8)
	d.Enqueue(pkt)
	rec.waitFor(t, 1)

	require.Equal(t, int64(0), pkt.Options[OptionDecodeTime])
}

func TestVoidPacketStillReportsCompletion(t *testing.T) {
	t.Parallel()
	live := surface.NewImageCanvas(8, 8)
	d, rec, _ := testDecoder(t, func(cfg *Config) { cfg.Live = live })

	pkt := &Packet{SurfaceID: "s1", Encoding: encoding.TagVoid, Seq: 1}
	pkt.ResolveKind()
	d.Enqueue(pkt)

	events := rec.waitFor(t, 1)
	require.Equal(t, []reportEvent{{seq: 1}}, events)
	require.Equal(t, encoding.TagPainted, pkt.Encoding)
	require.Equal(t, color.RGBA{}, canvasAt(live, 0, 0))
}

func TestDebugOverlayDrawnForKnownSubTag(t *testing.T) {
	t.Parallel()
	live := surface.NewImageCanvas(16, 16)
	d, rec, _ := testDecoder(t, func(cfg *Config) {
		cfg.Live = live
		cfg.Debug = true
	})

	pkt := rgbPacket(1, 4, 4)
	pkt.X, pkt.Y = 2, 2
	d.Enqueue(pkt)
	rec.waitFor(t, 1)

	require.Equal(t, overlayColors[encoding.TagRGB], canvasAt(live, 2, 2))
}

func TestNoOverlayWithoutTableEntry(t *testing.T) {
	t.Parallel()
	live := surface.NewImageCanvas(16, 16)
	d, rec, _ := testDecoder(t, func(cfg *Config) {
		cfg.Live = live
		cfg.Debug = true
	})

	// Scroll has no sub-tag, so no color-table entry and no outline.
	pkt := &Packet{
		SurfaceID: "s1",
		X:         0, Y: 0, Width: 8, Height: 8,
		Encoding: encoding.TagScroll,
		Payload:  []ScrollRect{},
		Seq:      1,
	}
	pkt.ResolveKind()
	d.Enqueue(pkt)
	rec.waitFor(t, 1)

	require.Equal(t, color.RGBA{}, canvasAt(live, 0, 0))
}

func TestFramePaintReleasesFrame(t *testing.T) {
	t.Parallel()
	factory := &stubVideoFactory{}
	d, rec, _ := testDecoder(t, func(cfg *Config) {
		cfg.VideoDecoderFactory = factory.New
	})

	d.Enqueue(videoPacket(1, encoding.TagVP8, nil))
	rec.waitFor(t, 1)

	factory.mu.Lock()
	dec := factory.created[0]
	factory.mu.Unlock()
	dec.mu.Lock()
	defer dec.mu.Unlock()
	require.Len(t, dec.frames, 1)
	dec.frames[0].mu.Lock()
	defer dec.frames[0].mu.Unlock()
	require.Equal(t, 1, dec.frames[0].released)
}

func TestRedrawRestoresSnapshot(t *testing.T) {
	t.Parallel()
	live := surface.NewImageCanvas(16, 16)
	sched := &countingScheduler{}
	d, rec, _ := testDecoder(t, func(cfg *Config) {
		cfg.Live = live
		cfg.ImageDecoder = NewStdImageDecoder()
		cfg.Scheduler = sched
	})

	pkt := &Packet{
		SurfaceID: "s1",
		X:         0, Y: 0, Width: 4, Height: 4,
		Encoding: encoding.TagRGB,
		Payload:  redRGB(4, 4),
		Seq:      1,
	}
	pkt.ResolveKind()
	d.Enqueue(pkt)
	rec.waitFor(t, 1)
	// Wait for both scheduled tasks: the paint and the snapshot refresh.
	sched.wait(t, 2)

	red := color.RGBA{R: 0xff, A: 0xff}
	require.Equal(t, red, canvasAt(live, 1, 1))

	// Damage the live surface, then restore from the snapshot.
	live.ClearRect(0, 0, 16, 16)
	require.Equal(t, color.RGBA{}, canvasAt(live, 1, 1))

	require.NoError(t, d.Redraw())
	require.Equal(t, red, canvasAt(live, 1, 1))
}
