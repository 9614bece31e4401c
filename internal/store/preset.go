package store

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"zpcs/internal/domain"
)

// Preset is a saved set of options. Absent keys leave the current value in
// place; an empty string clears an optional field.
type Preset struct {
	Subject           *string `yaml:"subject"`
	OperationMode     *string `yaml:"operationMode"`
	AestheticStyle    *string `yaml:"aestheticStyle"`
	Lighting          *string `yaml:"lighting"`
	CameraComposition *string `yaml:"cameraComposition"`
	ColorPalette      *string `yaml:"colorPalette"`
	LensEffect        *string `yaml:"lensEffect"`
	AspectRatio       *string `yaml:"aspectRatio"`
	Resolution        *string `yaml:"resolution"`
	StyleIntensity    *string `yaml:"styleIntensity"`
	ThinkingLevel     *string `yaml:"thinkingLevel"`
}

// LoadPreset decodes a YAML preset. Unknown keys are rejected.
func LoadPreset(r io.Reader) (*Preset, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var p Preset
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return &p, nil
		}
		return nil, fmt.Errorf("preset: %w", err)
	}
	for field, v := range map[string]*string{
		"operationMode": p.OperationMode,
		"aspectRatio":   p.AspectRatio,
		"resolution":    p.Resolution,
		"thinkingLevel": p.ThinkingLevel,
	} {
		if v != nil && *v == "" {
			return nil, fmt.Errorf("preset: %s cannot be empty", field)
		}
	}
	return &p, nil
}

// ApplyPreset sets every field present in p through the regular setters.
func (s *Store) ApplyPreset(p *Preset) {
	if p == nil {
		return
	}
	if p.Subject != nil {
		s.SetSubject(*p.Subject)
	}
	if p.OperationMode != nil {
		s.SetOperationMode(domain.OperationMode(*p.OperationMode))
	}
	if p.AestheticStyle != nil {
		s.SetAestheticStyle(domain.AestheticStyle(*p.AestheticStyle))
	}
	if p.Lighting != nil {
		s.SetLighting(domain.LightingSetup(*p.Lighting))
	}
	if p.CameraComposition != nil {
		s.SetCameraComposition(domain.CameraComposition(*p.CameraComposition))
	}
	if p.ColorPalette != nil {
		s.SetColorPalette(domain.ColorPalette(*p.ColorPalette))
	}
	if p.LensEffect != nil {
		s.SetLensEffect(domain.LensEffect(*p.LensEffect))
	}
	if p.AspectRatio != nil {
		s.SetAspectRatio(domain.AspectRatio(*p.AspectRatio))
	}
	if p.Resolution != nil {
		s.SetResolution(domain.ResolutionQuality(*p.Resolution))
	}
	if p.StyleIntensity != nil {
		s.SetStyleIntensity(domain.StyleIntensity(*p.StyleIntensity))
	}
	if p.ThinkingLevel != nil {
		s.SetThinkingLevel(domain.ThinkingLevel(*p.ThinkingLevel))
	}
}
