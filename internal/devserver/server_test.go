package devserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zpcs/internal/catalog"
	"zpcs/internal/domain"
	"zpcs/internal/generation"
	"zpcs/internal/imagegen"
	"zpcs/internal/store"
	"zpcs/internal/studio"
)

func startServer(t *testing.T, cfg RouterConfig, opts ...Option) (*Server, *imagegen.Client) {
	t.Helper()
	srv := New(opts...)
	ts := httptest.NewServer(srv.Router(cfg))
	t.Cleanup(ts.Close)
	return srv, imagegen.NewClient(imagegen.Options{BaseURL: ts.URL})
}

func catRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Subject:       "a cat",
		OperationMode: domain.ModeTextToImage,
		AspectRatio:   domain.Ratio16x9,
		Resolution:    domain.ResolutionStandard,
		ThinkingLevel: domain.ThinkingCreative,
	}
}

func TestGenerateAndFetch(t *testing.T) {
	srv, client := startServer(t, RouterConfig{})
	req := catRequest()
	req.Lighting = domain.LightingGoldenHour

	res, err := client.GenerateImage(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, "a cat, golden hour", res.Prompt)
	assert.Equal(t, "16:9", res.Metadata.AspectRatio)
	assert.Equal(t, ModelName, res.Metadata.Model)
	assert.False(t, res.Metadata.CreatedAt.IsZero())
	assert.Equal(t, 1, srv.Len())

	data, contentType, err := client.FetchImage(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	mime, err := store.DetectSourceFormat(data)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
}

func TestGenerateValidationErrors(t *testing.T) {
	_, client := startServer(t, RouterConfig{})

	req := catRequest()
	req.Subject = "  "
	_, err := client.GenerateImage(context.Background(), req)
	var rerr *imagegen.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadRequest, rerr.StatusCode)
	require.NotNil(t, rerr.Body)
	assert.Equal(t, domain.CodeValidation, rerr.Body.Error)
	assert.Equal(t, "subject: is required", rerr.Message())

	req = catRequest()
	req.ColorPalette = "NEON"
	_, err = client.GenerateImage(context.Background(), req)
	require.ErrorAs(t, err, &rerr)
	assert.Contains(t, rerr.Message(), "colorPalette")
}

func TestEditRequiresSourceImage(t *testing.T) {
	_, client := startServer(t, RouterConfig{})
	req := catRequest()
	req.OperationMode = domain.ModeEditExisting

	_, err := client.EditImage(context.Background(), req)
	var rerr *imagegen.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadRequest, rerr.StatusCode)

	source := placeholderPNG()
	req.SourceImageBase64 = base64.StdEncoding.EncodeToString(source)
	res, err := client.EditImage(context.Background(), req)
	require.NoError(t, err)
	data, _, err := client.FetchImage(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, source, data)
}

func TestGalleryPagingAndDelete(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	clock := func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	_, client := startServer(t, RouterConfig{}, WithClock(clock))
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		res, err := client.GenerateImage(ctx, catRequest())
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}

	page, err := client.GetGallery(ctx, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, ids[2], page.Content[0].ID)
	assert.Equal(t, ids[1], page.Content[1].ID)

	page, err = client.GetGallery(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, ids[0], page.Content[0].ID)

	page, err = client.GetGallery(ctx, 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Content)

	require.NoError(t, client.DeleteImage(ctx, ids[1]))
	err = client.DeleteImage(ctx, ids[1])
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = client.FetchImage(ctx, ids[1])
	var rerr *imagegen.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, domain.CodeNotFound, rerr.Body.Error)
}

func TestOptionsMatchCompiledCatalog(t *testing.T) {
	_, client := startServer(t, RouterConfig{})
	server, err := client.GetOptions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog.Diff(domain.CompiledOptions(), *server))
	assert.Equal(t, domain.CompiledOptions(), *server)
}

func TestServedOptionsDriveValidation(t *testing.T) {
	served := domain.CompiledOptions()
	served.LightingSetups = served.LightingSetups[:1]
	_, client := startServer(t, RouterConfig{}, WithOptions(served))

	server, err := client.GetOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, served, *server)
	assert.NotEmpty(t, catalog.Diff(domain.CompiledOptions(), *server))

	req := catRequest()
	req.Lighting = domain.LightingSetup(domain.CompiledOptions().LightingSetups[1].Value)
	_, err = client.GenerateImage(context.Background(), req)
	var rerr *imagegen.RequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, http.StatusBadRequest, rerr.StatusCode)
	assert.Contains(t, rerr.Message(), "lighting")
}

func TestRateLimitedGenerate(t *testing.T) {
	_, client := startServer(t, RouterConfig{RateLimitPerMinute: 1})

	_, err := client.GenerateImage(context.Background(), catRequest())
	require.NoError(t, err)
	_, err = client.GenerateImage(context.Background(), catRequest())
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)

	var rerr *imagegen.RequestError
	require.ErrorAs(t, err, &rerr)
	require.NotNil(t, rerr.Body.RetryAfterSeconds)
	assert.Positive(t, *rerr.Body.RetryAfterSeconds)

	_, err = client.GetOptions(context.Background())
	assert.NoError(t, err, "reads are not rate limited")
}

func TestHealthAndUnknownRoute(t *testing.T) {
	srv := New()
	h := srv.Router(RouterConfig{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"UP"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body domain.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotEmpty(t, body.Message)
}

func TestMalformedBody(t *testing.T) {
	h := New().Router(RouterConfig{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/generate", strings.NewReader("{"))
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.CodeValidation)
}

func TestStudioAgainstServer(t *testing.T) {
	_, client := startServer(t, RouterConfig{})
	cat := catalog.New(client, time.Minute, nil)
	session := generation.NewSession(client)
	st := studio.New(store.New(), session, studio.WithValidator(cat))

	st.Options().SetSubject("a lighthouse")
	st.Options().SetAestheticStyle(domain.StyleWatercolor)
	snap, err := st.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, generation.StatusSuccess, snap.Status)
	assert.Equal(t, client.ImageURL(snap.Result.ID), snap.ImageURL)
	assert.Equal(t, "a lighthouse, watercolor", snap.Result.Prompt)

	resp, err := http.Get(snap.ImageURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	st.Options().SetOperationMode(domain.ModeEditExisting)
	st.Options().SetSourceImage(placeholderPNG())
	snap, err = st.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, generation.StatusSuccess, snap.Status)
	assert.Len(t, snap.History, 2)
}

func TestSessionReportsServerMessage(t *testing.T) {
	_, client := startServer(t, RouterConfig{})
	session := generation.NewSession(client)

	req := catRequest()
	req.OperationMode = domain.ModeEditExisting
	req.SourceImageBase64 = base64.StdEncoding.EncodeToString([]byte("not an image"))
	snap, err := session.Edit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, generation.StatusError, snap.Status)
	assert.True(t, strings.HasPrefix(snap.ErrorMessage, "sourceImageBase64:"), snap.ErrorMessage)
}

func TestComposePrompt(t *testing.T) {
	req := catRequest()
	req.AestheticStyle = domain.StyleIsometric3D
	req.OperationMode = domain.ModeStyleTransfer
	req.StyleIntensity = domain.IntensitySubtle
	assert.Equal(t, "a cat, isometric 3d, subtle style transfer", composePrompt(req))

	req.OperationMode = domain.ModeTextToImage
	assert.Equal(t, "a cat, isometric 3d", composePrompt(req))
	assert.True(t, bytes.HasPrefix(placeholderPNG(), []byte("\x89PNG")))
}
