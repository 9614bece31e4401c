// Package catalog keeps the server's list of valid generation options and
// checks requests against it.
package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"zpcs/internal/domain"
	"zpcs/internal/infra"
)

// DefaultTTL is how long a fetched options map is trusted.
const DefaultTTL = 10 * time.Minute

const optionsKey = "options"

// Source fetches the authoritative options map.
type Source interface {
	GetOptions(ctx context.Context) (*domain.OptionsMap, error)
}

// Catalog caches the options map behind a TTL.
type Catalog struct {
	source Source
	cache  *cache.Cache
	logger *infra.Logger
}

// New returns a catalog backed by src. A non-positive ttl uses DefaultTTL.
func New(src Source, ttl time.Duration, logger *infra.Logger) *Catalog {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		l := zerolog.New(io.Discard)
		logger = &l
	}
	return &Catalog{
		source: src,
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Options returns the cached map, fetching it when absent or expired.
func (c *Catalog) Options(ctx context.Context) (domain.OptionsMap, error) {
	if v, ok := c.cache.Get(optionsKey); ok {
		return v.(domain.OptionsMap), nil
	}
	fetched, err := c.source.GetOptions(ctx)
	if err != nil {
		return domain.OptionsMap{}, fmt.Errorf("catalog: fetch options: %w", err)
	}
	if fetched == nil {
		return domain.OptionsMap{}, fmt.Errorf("catalog: fetch options: empty response")
	}
	c.cache.Set(optionsKey, *fetched, cache.DefaultExpiration)
	c.logger.Debug().Int("modes", len(fetched.OperationModes)).Msg("catalog: options refreshed")
	return *fetched, nil
}

// Invalidate drops the cached map so the next call refetches it.
func (c *Catalog) Invalidate() {
	c.cache.Delete(optionsKey)
}

// Validate checks req against the current server options.
func (c *Catalog) Validate(ctx context.Context, req domain.GenerationRequest) error {
	opts, err := c.Options(ctx)
	if err != nil {
		return err
	}
	return Validate(opts, req)
}

// LabelFor returns the server label of value under f, or a humanized form of
// value when the server has none.
func (c *Catalog) LabelFor(ctx context.Context, f domain.OptionField, value string) string {
	opts, err := c.Options(ctx)
	if err == nil {
		for _, item := range opts.Field(f) {
			if item.Value == value && item.Label != "" {
				return item.Label
			}
		}
	}
	return Label(value)
}

// requestKeys maps an option list to the request field it constrains.
var requestKeys = map[domain.OptionField]string{
	domain.FieldOperationModes:     "operationMode",
	domain.FieldAestheticStyles:    "aestheticStyle",
	domain.FieldLightingSetups:     "lighting",
	domain.FieldCameraCompositions: "cameraComposition",
	domain.FieldColorPalettes:      "colorPalette",
	domain.FieldLensEffects:        "lensEffect",
	domain.FieldAspectRatios:       "aspectRatio",
	domain.FieldResolutions:        "resolution",
	domain.FieldStyleIntensities:   "styleIntensity",
	domain.FieldThinkingLevels:     "thinkingLevel",
}

// Validate reports the first enum field of req whose value is missing from opts.
// Unset optional fields are not checked, nor are fields whose list opts omits.
func Validate(opts domain.OptionsMap, req domain.GenerationRequest) error {
	values := domain.RequestFieldValues(req)
	for _, f := range domain.OptionFields {
		v, ok := values[f]
		if !ok || len(opts.Field(f)) == 0 {
			continue
		}
		if !opts.Has(f, v) {
			return &domain.ValidationError{
				Field:  requestKeys[f],
				Reason: fmt.Sprintf("value %q is not offered by the server", v),
			}
		}
	}
	return nil
}

// Side tells which catalog lacks a value.
type Side string

const (
	MissingOnServer Side = "server"
	MissingOnClient Side = "client"
)

// Mismatch is one value present in only one of two catalogs.
type Mismatch struct {
	Field   domain.OptionField
	Value   string
	Missing Side
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s: %s missing on %s", m.Field, m.Value, m.Missing)
}

// Diff compares the compiled-in catalog with the server's. Labels are ignored.
func Diff(compiled, server domain.OptionsMap) []Mismatch {
	var out []Mismatch
	for _, f := range domain.OptionFields {
		for _, item := range compiled.Field(f) {
			if !server.Has(f, item.Value) {
				out = append(out, Mismatch{Field: f, Value: item.Value, Missing: MissingOnServer})
			}
		}
		for _, item := range server.Field(f) {
			if !compiled.Has(f, item.Value) {
				out = append(out, Mismatch{Field: f, Value: item.Value, Missing: MissingOnClient})
			}
		}
	}
	return out
}

// Label turns an enum name such as GOLDEN_HOUR into "Golden Hour".
func Label(value string) string {
	words := strings.ToLower(strings.ReplaceAll(value, "_", " "))
	// Casers hold state, so each call gets its own.
	return cases.Title(language.Und).String(strings.TrimSpace(words))
}
