// Package devserver is an in-memory implementation of the image studio REST
// API. It backs local development and end-to-end tests of the client.
package devserver

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zpcs/internal/catalog"
	"zpcs/internal/domain"
	"zpcs/internal/infra"
	"zpcs/internal/store"
)

// ModelName is reported in the metadata of every result.
const ModelName = "zpcs-devserver"

type entry struct {
	record domain.ImageRecord
	data   []byte
}

// Server holds generated images in memory.
type Server struct {
	logger    *infra.Logger
	now       func() time.Time
	delay     time.Duration
	optionMap domain.OptionsMap
	png       []byte

	mu      sync.RWMutex
	entries map[string]entry
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *infra.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithDelay makes generate and edit wait d before answering.
func WithDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithOptions replaces the options map served by /api/v1/options.
func WithOptions(m domain.OptionsMap) Option {
	return func(s *Server) { s.optionMap = m }
}

// New returns an empty server serving the compiled-in options.
func New(opts ...Option) *Server {
	l := zerolog.New(io.Discard)
	s := &Server{
		logger:    &l,
		now:       time.Now,
		optionMap: domain.CompiledOptions(),
		png:       placeholderPNG(),
		entries:   make(map[string]entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func placeholderPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.NRGBA{R: 0x7f, G: 0x5a, B: 0xf0, A: 0xff})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

// Len returns the number of stored images.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Server) create(req domain.GenerationRequest, elapsed time.Duration) domain.GenerationResult {
	id := uuid.NewString()
	created := s.now()
	prompt := composePrompt(req)
	data := s.png
	if req.OperationMode == domain.ModeEditExisting {
		// Edits echo the uploaded image back.
		if raw, err := base64.StdEncoding.DecodeString(req.SourceImageBase64); err == nil {
			if mime, err := store.DetectSourceFormat(raw); err == nil && mime == "image/png" {
				data = raw
			}
		}
	}

	rec := domain.ImageRecord{
		ID:               id,
		FilePath:         "images/" + id + ".png",
		Prompt:           prompt,
		OperationMode:    req.OperationMode,
		GenerationTimeMs: elapsed.Milliseconds(),
		CreatedAt:        domain.NewTimestamp(created),
	}
	s.mu.Lock()
	s.entries[id] = entry{record: rec, data: data}
	s.mu.Unlock()

	return domain.GenerationResult{
		ID:               id,
		ImageURL:         "/api/v1/images/" + id + "/file",
		Prompt:           prompt,
		GenerationTimeMs: rec.GenerationTimeMs,
		Metadata: domain.ImageMetadata{
			Model:         ModelName,
			ThinkingLevel: req.ThinkingLevel,
			AspectRatio:   req.AspectRatio.APIValue(),
			Resolution:    string(req.Resolution),
			CreatedAt:     rec.CreatedAt,
		},
	}
}

func (s *Server) file(id string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e.data, ok
}

func (s *Server) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return false
	}
	delete(s.entries, id)
	return true
}

// page returns records newest first.
func (s *Server) page(number, size int) domain.GalleryPage {
	s.mu.RLock()
	records := make([]domain.ImageRecord, 0, len(s.entries))
	for _, e := range s.entries {
		records = append(records, e.record)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt.Time) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt.Time)
	})

	total := len(records)
	out := domain.GalleryPage{
		Content:       []domain.ImageRecord{},
		TotalElements: int64(total),
		TotalPages:    (total + size - 1) / size,
		Number:        number,
		Size:          size,
	}
	start := number * size
	if start < total {
		end := start + size
		if end > total {
			end = total
		}
		out.Content = records[start:end]
	}
	return out
}

// composePrompt joins the subject with a fragment per selected option.
func composePrompt(req domain.GenerationRequest) string {
	fragments := []string{strings.TrimSpace(req.Subject)}
	for _, v := range []string{
		string(req.AestheticStyle),
		string(req.Lighting),
		string(req.CameraComposition),
		string(req.ColorPalette),
		string(req.LensEffect),
	} {
		if v != "" {
			fragments = append(fragments, strings.ToLower(catalog.Label(v)))
		}
	}
	if req.OperationMode.UsesStyleIntensity() && req.StyleIntensity != "" {
		fragments = append(fragments, strings.ToLower(catalog.Label(string(req.StyleIntensity)))+" style transfer")
	}
	return strings.Join(fragments, ", ")
}
