// Package studio binds one options store to one generation session and
// gates submissions between them.
package studio

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"zpcs/internal/domain"
	"zpcs/internal/generation"
	"zpcs/internal/infra"
	"zpcs/internal/store"
)

// Validator checks a request against the server's option lists.
type Validator interface {
	Validate(ctx context.Context, req domain.GenerationRequest) error
}

// Studio is the context object handed to front ends. It owns no globals.
type Studio struct {
	options   *store.Store
	session   *generation.Session
	validator Validator
	logger    *infra.Logger
}

// Option customizes a Studio.
type Option func(*Studio)

// WithValidator checks enum membership before dispatch.
func WithValidator(v Validator) Option {
	return func(s *Studio) { s.validator = v }
}

// WithLogger sets the studio logger.
func WithLogger(l *infra.Logger) Option {
	return func(s *Studio) {
		if l != nil {
			s.logger = l
		}
	}
}

// New wires options and session together.
func New(options *store.Store, session *generation.Session, opts ...Option) *Studio {
	l := zerolog.New(io.Discard)
	s := &Studio{options: options, session: session, logger: &l}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Studio) Options() *store.Store { return s.options }

func (s *Studio) Session() *generation.Session { return s.session }

// CanGenerate reports whether a submission would be dispatched: the subject is
// non-blank and no request is loading.
func (s *Studio) CanGenerate() bool {
	subject := s.options.Snapshot().Subject
	return strings.TrimSpace(subject) != "" && s.session.Status() != generation.StatusLoading
}

// Submit dispatches the current options. Gating and validation failures are
// returned as *domain.ValidationError and nothing is sent. Backend failures
// are reported through the session snapshot.
func (s *Studio) Submit(ctx context.Context) (generation.Snapshot, error) {
	if s.session.Status() == generation.StatusLoading {
		return s.session.Snapshot(), domain.ErrGenerationInFlight
	}
	opts := s.options.Snapshot()
	req := s.options.ToRequestPayload()
	if strings.TrimSpace(req.Subject) == "" {
		return s.session.Snapshot(), &domain.ValidationError{Field: "subject", Reason: "is required"}
	}
	if err := req.Validate(); err != nil {
		return s.session.Snapshot(), err
	}
	if req.OperationMode == domain.ModeEditExisting && !opts.HasSourceImage() {
		return s.session.Snapshot(), &domain.ValidationError{Field: "sourceImage", Reason: domain.ErrMissingSourceImage.Error()}
	}
	if s.validator != nil {
		if err := s.validator.Validate(ctx, req); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return s.session.Snapshot(), verr
			}
			// The backend validates again, so an unreachable catalog does not block.
			s.logger.Warn().Err(err).Msg("studio: option check skipped")
		}
	}

	if req.OperationMode == domain.ModeEditExisting {
		return s.session.Edit(ctx, req)
	}
	return s.session.Generate(ctx, req)
}

// ModeView describes which inputs the current operation mode shows.
type ModeView struct {
	Mode               domain.OperationMode
	ShowImageUpload    bool
	ShowStyleIntensity bool
	SubjectPlaceholder string
}

// Mode returns the view hints for the selected operation mode.
func (s *Studio) Mode() ModeView {
	mode := s.options.Snapshot().OperationMode
	return ModeView{
		Mode:               mode,
		ShowImageUpload:    mode.AcceptsSourceImage(),
		ShowStyleIntensity: mode.UsesStyleIntensity(),
		SubjectPlaceholder: mode.SubjectPlaceholder(),
	}
}
