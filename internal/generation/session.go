// Package generation owns the lifecycle of generation requests: one session
// moves between idle, loading, success and error and keeps the results it has
// seen, newest first.
package generation

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"zpcs/internal/domain"
	"zpcs/internal/imagegen"
	"zpcs/internal/infra"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// FallbackErrorMessage is shown when a failure carries no usable message.
const FallbackErrorMessage = "Generation failed"

// Backend is the subset of the API client the session depends on.
type Backend interface {
	GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	EditImage(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
	ImageURL(id string) string
}

// Snapshot is a copy of the session state at one point in time.
type Snapshot struct {
	Status Status
	// Result and ImageURL are set only in StatusSuccess.
	Result   *domain.GenerationResult
	ImageURL string
	// ErrorMessage is set only in StatusError.
	ErrorMessage string
	History      []domain.GenerationResult
}

// Option customizes a Session.
type Option func(*Session)

// WithLogger sets the logger used for transition events.
func WithLogger(l *infra.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics records request outcomes into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// Session is the generation state machine. At most one request is in flight
// at a time; a second Generate or Edit while loading is rejected.
type Session struct {
	backend Backend
	logger  *infra.Logger
	metrics *Metrics

	inFlight atomic.Bool

	mu           sync.RWMutex
	status       Status
	result       *domain.GenerationResult
	imageURL     string
	errorMessage string
	history      []domain.GenerationResult

	subMu       sync.Mutex
	nextSubID   int
	subscribers map[int]func(Snapshot)
}

// NewSession returns an idle session bound to backend.
func NewSession(backend Backend, opts ...Option) *Session {
	discard := zerolog.New(io.Discard)
	l := infra.Logger(discard)
	s := &Session{
		backend:     backend,
		logger:      &l,
		status:      StatusIdle,
		subscribers: make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Generate dispatches req to the generate endpoint and blocks until it resolves.
// Backend and transport failures end in StatusError and are not returned; the
// only error is domain.ErrGenerationInFlight when a request is already running.
func (s *Session) Generate(ctx context.Context, req domain.GenerationRequest) (Snapshot, error) {
	return s.run(ctx, "generate", req, s.backend.GenerateImage)
}

// Edit behaves like Generate but dispatches to the edit endpoint.
func (s *Session) Edit(ctx context.Context, req domain.GenerationRequest) (Snapshot, error) {
	return s.run(ctx, "edit", req, s.backend.EditImage)
}

type dispatchFunc func(context.Context, domain.GenerationRequest) (*domain.GenerationResult, error)

func (s *Session) run(ctx context.Context, op string, req domain.GenerationRequest, call dispatchFunc) (Snapshot, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return s.Snapshot(), domain.ErrGenerationInFlight
	}

	s.apply(func() {
		s.status = StatusLoading
		s.result = nil
		s.imageURL = ""
		s.errorMessage = ""
	})
	s.logger.Debug().Str("op", op).Str("mode", string(req.OperationMode)).Msg("generation: dispatched")

	start := time.Now()
	res, err := call(ctx, req)
	elapsed := time.Since(start)
	if err == nil && res == nil {
		err = errors.New("generation: empty result")
	}

	if err != nil {
		msg := ErrorMessage(err)
		s.metrics.observe(false, elapsed)
		s.logger.Warn().Err(err).Str("op", op).Dur("elapsed", elapsed).Msg("generation: failed")
		return s.finish(func() {
			s.status = StatusError
			s.errorMessage = msg
		}), nil
	}

	stored := *res
	locator := s.backend.ImageURL(stored.ID)
	s.metrics.observe(true, elapsed)
	s.logger.Info().Str("op", op).Str("id", stored.ID).Dur("elapsed", elapsed).Msg("generation: succeeded")
	return s.finish(func() {
		s.status = StatusSuccess
		s.result = &stored
		s.imageURL = locator
		s.history = append([]domain.GenerationResult{stored}, s.history...)
	}), nil
}

// finish applies the terminal transition and releases the in-flight slot
// before subscribers run, so they may submit again.
func (s *Session) finish(mutate func()) Snapshot {
	s.mu.Lock()
	mutate()
	s.inFlight.Store(false)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return snap
}

// SetResult shows a previously obtained result without touching history.
func (s *Session) SetResult(res domain.GenerationResult) {
	locator := s.backend.ImageURL(res.ID)
	s.apply(func() {
		s.status = StatusSuccess
		s.result = &res
		s.imageURL = locator
		s.errorMessage = ""
	})
}

// SetError moves the session to StatusError with msg.
func (s *Session) SetError(msg string) {
	if msg == "" {
		msg = FallbackErrorMessage
	}
	s.apply(func() {
		s.status = StatusError
		s.result = nil
		s.imageURL = ""
		s.errorMessage = msg
	})
}

// Reset returns to idle and clears the result and error. History is kept.
func (s *Session) Reset() {
	s.apply(func() {
		s.status = StatusIdle
		s.result = nil
		s.imageURL = ""
		s.errorMessage = ""
	})
}

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Metrics returns the metrics the session records into.
func (s *Session) Metrics() *Metrics {
	return s.metrics
}

// Subscribe registers fn to be called after every transition. The returned
// function removes the subscription.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

func (s *Session) apply(mutate func()) {
	s.mu.Lock()
	mutate()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:       s.status,
		ImageURL:     s.imageURL,
		ErrorMessage: s.errorMessage,
		History:      append([]domain.GenerationResult(nil), s.history...),
	}
	if s.result != nil {
		res := *s.result
		snap.Result = &res
	}
	return snap
}

func (s *Session) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// ErrorMessage turns a dispatch failure into the text shown to the user.
// A backend message wins; a backend failure without one uses the error text;
// transport and unknown failures use FallbackErrorMessage.
func ErrorMessage(err error) string {
	var rerr *imagegen.RequestError
	if errors.As(err, &rerr) {
		if msg := rerr.Message(); msg != "" {
			return msg
		}
		return rerr.Error()
	}
	return FallbackErrorMessage
}
