package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zpcs/internal/domain"
	"zpcs/internal/infra"
	"zpcs/internal/middleware"
)

const (
	// DefaultBaseURL is the local development backend.
	DefaultBaseURL = "http://localhost:8080"

	pathGenerate = "/api/v1/images/generate"
	pathEdit     = "/api/v1/images/edit"
	pathOptions  = "/api/v1/options"
	pathGallery  = "/api/v1/gallery"

	maxErrorBody = 1 << 20
)

// Options configures the studio backend client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client talks to the image-generation backend. It holds no per-request state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the configured backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GenerateImage submits a new generation.
func (c *Client) GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	var out domain.GenerationResult
	if err := c.do(ctx, http.MethodPost, pathGenerate, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditImage submits an edit of the source image carried in req.
func (c *Client) EditImage(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	var out domain.GenerationResult
	if err := c.do(ctx, http.MethodPost, pathEdit, nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImageURL returns the locator of the file for image id. It performs no I/O.
func (c *Client) ImageURL(id string) string {
	return c.baseURL + "/api/v1/images/" + url.PathEscape(id) + "/file"
}

// GetOptions fetches the server's canonical choice lists.
func (c *Client) GetOptions(ctx context.Context) (*domain.OptionsMap, error) {
	var out domain.OptionsMap
	if err := c.do(ctx, http.MethodGet, pathOptions, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGallery lists one zero-based page of past results. page and size are sent
// as given; the backend rejects values it does not accept.
func (c *Client) GetGallery(ctx context.Context, page, size int) (*domain.GalleryPage, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	var out domain.GalleryPage
	if err := c.do(ctx, http.MethodGet, pathGallery, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteImage removes one gallery entry.
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, pathGallery+"/"+url.PathEscape(id), nil, nil, nil)
}

// FetchImage downloads the bytes behind ImageURL(id) and returns them with their content type.
func (c *Client) FetchImage(ctx context.Context, id string) ([]byte, string, error) {
	op := "GET image file"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("imagegen: build request: %w", err)
	}
	requestID := c.stampRequestID(ctx, httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", &TransportError{Op: op, Err: err, RequestID: requestID}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", c.requestError(op, requestID, resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &TransportError{Op: op, Err: err, RequestID: requestID}
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = http.DetectContentType(data)
	}
	return data, format, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	op := method + " " + path
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("imagegen: encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("imagegen: build request: %w", err)
	}
	if in != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	requestID := c.stampRequestID(ctx, httpReq)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("op", op).Str("request_id", requestID).Msg("imagegen: transport failure")
		return &TransportError{Op: op, Err: err, RequestID: requestID}
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("request_id", requestID).
		Msg("imagegen: response")

	if resp.StatusCode >= 300 {
		return c.requestError(op, requestID, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("imagegen: decode response: %w", err)
	}
	return nil
}

func (c *Client) requestError(op, requestID string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	rerr := &RequestError{Op: op, StatusCode: resp.StatusCode, RequestID: requestID}
	var detail domain.ErrorBody
	if err := json.Unmarshal(raw, &detail); err != nil {
		// Keep the code and message even when other fields do not fit ErrorBody.
		var minimal struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &minimal) != nil {
			return rerr
		}
		detail = domain.ErrorBody{Error: minimal.Error, Message: minimal.Message}
	}
	if detail.Message != "" || detail.Error != "" {
		rerr.Body = &detail
	}
	return rerr
}

func (c *Client) stampRequestID(ctx context.Context, req *http.Request) string {
	requestID := middleware.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, requestID)
	return requestID
}
