// Package arsession runs the camera capture lifecycle for AR effects:
// acquire a stream, mount a declarative overlay, capture a still,
// release everything. A session owns its stream and overlay
// exclusively; every exit path tears both down exactly once.
package arsession

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCameraDenied   = errors.New("camera permission denied")
	ErrCameraBusy     = errors.New("camera already in use")
	ErrUnknownEffect  = errors.New("unknown effect")
	ErrSessionNotLive = errors.New("session is not active")
	ErrSessionUnknown = errors.New("session not found")
	ErrCaptureFailed  = errors.New("frame capture failed")
)

// State is the session lifecycle position.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring-camera"
	StateActive    State = "active"
	StateCapturing State = "capturing"
	StateFailed    State = "failed"
)

// Stream is a live camera stream. StopTracks releases the device;
// Frame rasterizes the current video frame. Implementations live
// outside this package (device adapters, test fakes).
type Stream interface {
	StopTracks()
	Frame(ctx context.Context) ([]byte, error)
}

// Camera acquires a stream for a facing mode. Denial is reported as an
// error; acquisition may also block until ctx is cancelled (there is no
// timeout on the permission prompt).
type Camera interface {
	Acquire(ctx context.Context, facing Facing) (Stream, error)
}

// Renderer is the thin adapter that realizes a declarative Effect into
// a live overlay and clears it again.
type Renderer interface {
	Mount(e Effect) error
	Clear()
}

// Manager hands out sessions and enforces single ownership of the
// camera across them.
type Manager struct {
	camera      Camera
	newRenderer func() Renderer
	settle      time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	holder   *Session
}

func NewManager(camera Camera, newRenderer func() Renderer) *Manager {
	return &Manager{
		camera:      camera,
		newRenderer: newRenderer,
		settle:      500 * time.Millisecond,
		sessions:    map[string]*Session{},
	}
}

// WithSettleDelay overrides the overlay settling delay. Tests set it to
// zero.
func (m *Manager) WithSettleDelay(d time.Duration) *Manager {
	m.settle = d
	return m
}

// Enter runs idle → acquiring-camera → active for a fresh session.
// Only one live session may hold the camera; a second Enter fails with
// ErrCameraBusy. On denial the session ends idle with no stream held.
func (m *Manager) Enter(ctx context.Context, effect Effect) (*Session, error) {
	m.mu.Lock()
	if m.holder != nil {
		m.mu.Unlock()
		return nil, ErrCameraBusy
	}
	s := &Session{
		id:      uuid.NewString(),
		effect:  effect,
		state:   StateAcquiring,
		manager: m,
	}
	m.holder = s
	m.mu.Unlock()

	stream, err := m.camera.Acquire(ctx, effect.FacingFor())
	if err != nil {
		s.mu.Lock()
		s.state = StateFailed
		s.mu.Unlock()
		s.teardown()
		return nil, fmt.Errorf("%w: %v", ErrCameraDenied, err)
	}

	s.mu.Lock()
	s.stream = stream
	s.renderer = m.newRenderer()
	s.mu.Unlock()

	// Let the video surface settle before mounting the overlay.
	if err := sleepCtx(ctx, m.settle); err != nil {
		s.teardown()
		return nil, err
	}
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return nil, ErrSessionNotLive
	}
	if err := s.renderer.Mount(effect); err != nil {
		s.mu.Unlock()
		s.teardown()
		return nil, fmt.Errorf("overlay mount failed: %w", err)
	}
	s.state = StateActive
	s.mu.Unlock()

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	return s, nil
}

// EnterByID is Enter with catalog lookup.
func (m *Manager) EnterByID(ctx context.Context, effectID string) (*Session, error) {
	e, ok := EffectByID(effectID)
	if !ok {
		return nil, ErrUnknownEffect
	}
	return m.Enter(ctx, e)
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) forget(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, s.id)
	if m.holder == s {
		m.holder = nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Session is a single screen visit's capture lifecycle.
type Session struct {
	id      string
	effect  Effect
	manager *Manager

	mu       sync.Mutex
	state    State
	stream   Stream
	renderer Renderer
	released bool
}

func (s *Session) ID() string { return s.id }

func (s *Session) Effect() Effect { return s.effect }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Capture draws the current video frame into a still and tears the
// session down. The still holds camera pixels only; the live overlay is
// not composited into it.
func (s *Session) Capture(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, ErrSessionNotLive
	}
	s.state = StateCapturing
	stream := s.stream
	s.mu.Unlock()

	frame, err := stream.Frame(ctx)
	s.teardown()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCaptureFailed, err)
	}
	return frame, nil
}

// Exit releases the session. Safe to call any number of times from any
// state; the stream is stopped and the overlay cleared at most once.
func (s *Session) Exit() {
	s.teardown()
}

func (s *Session) teardown() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	stream := s.stream
	renderer := s.renderer
	s.stream = nil
	s.renderer = nil
	s.state = StateIdle
	s.mu.Unlock()

	if stream != nil {
		stream.StopTracks()
	}
	if renderer != nil {
		renderer.Clear()
	}
	s.manager.forget(s)
}
