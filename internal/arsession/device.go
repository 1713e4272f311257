package arsession

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// DemoCamera is the device adapter used when no real camera transport
// is attached (demo mode and tests): acquisition always succeeds and
// frames are synthesized placeholders.
type DemoCamera struct{}

func (DemoCamera) Acquire(_ context.Context, facing Facing) (Stream, error) {
	return &demoStream{facing: facing}, nil
}

type demoStream struct {
	mu      sync.Mutex
	facing  Facing
	stopped bool
}

func (s *demoStream) StopTracks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
}

// Frame renders a flat placeholder image standing in for the live
// camera feed.
func (s *demoStream) Frame(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	stopped := s.stopped
	s.mu.Unlock()
	if stopped {
		return nil, ErrSessionNotLive
	}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill := color.RGBA{R: 24, G: 24, B: 32, A: 255}
	if s.facing == FacingFront {
		fill = color.RGBA{R: 32, G: 24, B: 24, A: 255}
	}
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HeadlessRenderer tracks the mounted effect without drawing anything.
// The actual scene renders on the device; the server only needs to know
// what is mounted so it can clear it on teardown.
type HeadlessRenderer struct {
	mu      sync.Mutex
	mounted *Effect
}

func NewHeadlessRenderer() *HeadlessRenderer { return &HeadlessRenderer{} }

func (r *HeadlessRenderer) Mount(e Effect) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mounted = &e
	return nil
}

func (r *HeadlessRenderer) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mounted = nil
}

// Mounted returns the currently mounted effect, if any.
func (r *HeadlessRenderer) Mounted() (Effect, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mounted == nil {
		return Effect{}, false
	}
	return *r.mounted, true
}
