package devserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"zpcs/internal/catalog"
	"zpcs/internal/domain"
	"zpcs/internal/store"
)

const maxBodyBytes = 20 << 20

func (s *Server) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) error(w http.ResponseWriter, code int, errCode, message string) {
	s.json(w, code, domain.ErrorBody{
		Error:     errCode,
		Message:   message,
		Timestamp: domain.NewTimestamp(s.now()),
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, map[string]string{"status": "UP", "service": "Zero-Prompt Creative Studio"})
}

func (s *Server) listOptions(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, s.optionMap)
}

func (s *Server) generate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	s.respondResult(w, r, req)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeRequest(w, r)
	if !ok {
		return
	}
	if req.SourceImageBase64 == "" {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, "sourceImageBase64: must not be blank")
		return
	}
	raw, err := base64.StdEncoding.DecodeString(req.SourceImageBase64)
	if err != nil {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, "sourceImageBase64: invalid base64")
		return
	}
	if _, err := store.DetectSourceFormat(raw); err != nil {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, "sourceImageBase64: "+err.Error())
		return
	}
	s.respondResult(w, r, req)
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request) (domain.GenerationRequest, bool) {
	var req domain.GenerationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, "malformed request body")
		return req, false
	}
	if err := req.Validate(); err != nil {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, validationMessage(err))
		return req, false
	}
	if err := catalog.Validate(s.optionMap, req); err != nil {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, validationMessage(err))
		return req, false
	}
	return req, true
}

func validationMessage(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return verr.Field + ": " + verr.Reason
	}
	return err.Error()
}

func (s *Server) respondResult(w http.ResponseWriter, r *http.Request, req domain.GenerationRequest) {
	start := time.Now()
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}
	}
	res := s.create(req, time.Since(start))
	s.logger.Info().Str("id", res.ID).Str("mode", string(req.OperationMode)).Msg("devserver: image created")
	s.json(w, http.StatusOK, res)
}

func (s *Server) imageFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	data, ok := s.file(id)
	if !ok {
		s.error(w, http.StatusNotFound, domain.CodeNotFound, "Image not found: "+id)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) gallery(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 0)
	if err != nil || page < 0 {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, "page: must be a non-negative integer")
		return
	}
	size, err := queryInt(r, "size", domain.DefaultGalleryPageSize)
	if err != nil || size <= 0 {
		s.error(w, http.StatusBadRequest, domain.CodeValidation, "size: must be a positive integer")
		return
	}
	s.json(w, http.StatusOK, s.page(page, size))
}

func (s *Server) deleteImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.delete(id) {
		s.error(w, http.StatusNotFound, domain.CodeNotFound, "Image not found: "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
