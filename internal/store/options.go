// Package store holds the user's current generation options.
package store

import (
	"encoding/base64"
	"sync"

	"zpcs/internal/domain"
)

// Options is the current selection of generation parameters.
// Empty optional enums mean "let the backend decide".
type Options struct {
	Subject           string
	OperationMode     domain.OperationMode
	AestheticStyle    domain.AestheticStyle
	Lighting          domain.LightingSetup
	CameraComposition domain.CameraComposition
	ColorPalette      domain.ColorPalette
	LensEffect        domain.LensEffect
	AspectRatio       domain.AspectRatio
	Resolution        domain.ResolutionQuality
	StyleIntensity    domain.StyleIntensity
	ThinkingLevel     domain.ThinkingLevel
	SourceImage       []byte
	SourceImageBase64 string
}

// HasSourceImage reports whether a source image is loaded.
func (o Options) HasSourceImage() bool {
	return len(o.SourceImage) > 0
}

// DefaultOptions returns the state every field is reset to.
func DefaultOptions() Options {
	return Options{
		OperationMode: domain.DefaultOperationMode,
		AspectRatio:   domain.DefaultAspectRatio,
		Resolution:    domain.DefaultResolution,
		ThinkingLevel: domain.DefaultThinkingLevel,
	}
}

// Store guards one Options value. Setters replace fields unconditionally;
// validation happens when a payload is submitted.
type Store struct {
	mu   sync.RWMutex
	opts Options
}

// New returns a store holding DefaultOptions.
func New() *Store {
	return &Store{opts: DefaultOptions()}
}

func (s *Store) update(fn func(*Options)) {
	s.mu.Lock()
	fn(&s.opts)
	s.mu.Unlock()
}

func (s *Store) SetSubject(v string) { s.update(func(o *Options) { o.Subject = v }) }

func (s *Store) SetOperationMode(v domain.OperationMode) {
	s.update(func(o *Options) { o.OperationMode = v })
}

func (s *Store) SetAestheticStyle(v domain.AestheticStyle) {
	s.update(func(o *Options) { o.AestheticStyle = v })
}

func (s *Store) SetLighting(v domain.LightingSetup) { s.update(func(o *Options) { o.Lighting = v }) }

func (s *Store) SetCameraComposition(v domain.CameraComposition) {
	s.update(func(o *Options) { o.CameraComposition = v })
}

func (s *Store) SetColorPalette(v domain.ColorPalette) {
	s.update(func(o *Options) { o.ColorPalette = v })
}

func (s *Store) SetLensEffect(v domain.LensEffect) { s.update(func(o *Options) { o.LensEffect = v }) }

func (s *Store) SetAspectRatio(v domain.AspectRatio) {
	s.update(func(o *Options) { o.AspectRatio = v })
}

func (s *Store) SetResolution(v domain.ResolutionQuality) {
	s.update(func(o *Options) { o.Resolution = v })
}

func (s *Store) SetStyleIntensity(v domain.StyleIntensity) {
	s.update(func(o *Options) { o.StyleIntensity = v })
}

func (s *Store) SetThinkingLevel(v domain.ThinkingLevel) {
	s.update(func(o *Options) { o.ThinkingLevel = v })
}

// SetSourceImage stores a copy of data together with its base64 encoding.
// Empty data clears both.
func (s *Store) SetSourceImage(data []byte) {
	var raw []byte
	var encoded string
	if len(data) > 0 {
		raw = append([]byte(nil), data...)
		encoded = base64.StdEncoding.EncodeToString(raw)
	}
	s.update(func(o *Options) {
		o.SourceImage = raw
		o.SourceImageBase64 = encoded
	})
}

// Reset restores every field to its default in one update.
func (s *Store) Reset() {
	s.update(func(o *Options) { *o = DefaultOptions() })
}

// Snapshot returns a copy of the current options.
func (s *Store) Snapshot() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.opts
	out.SourceImage = append([]byte(nil), s.opts.SourceImage...)
	return out
}

// ToRequestPayload projects the current options into a request. It never
// fails; an empty subject still yields a payload.
func (s *Store) ToRequestPayload() domain.GenerationRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.payload()
}

func (o Options) payload() domain.GenerationRequest {
	return domain.GenerationRequest{
		Subject:           o.Subject,
		OperationMode:     o.OperationMode,
		AestheticStyle:    o.AestheticStyle,
		Lighting:          o.Lighting,
		CameraComposition: o.CameraComposition,
		ColorPalette:      o.ColorPalette,
		LensEffect:        o.LensEffect,
		AspectRatio:       o.AspectRatio,
		Resolution:        o.Resolution,
		ThinkingLevel:     o.ThinkingLevel,
		StyleIntensity:    o.StyleIntensity,
		SourceImageBase64: o.SourceImageBase64,
	}
}
