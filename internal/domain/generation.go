package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// GenerationRequest is the payload sent to the generate and edit endpoints.
// Optional enum fields left empty are omitted from the JSON body.
type GenerationRequest struct {
	Subject           string            `json:"subject"`
	OperationMode     OperationMode     `json:"operationMode"`
	AestheticStyle    AestheticStyle    `json:"aestheticStyle,omitempty"`
	Lighting          LightingSetup     `json:"lighting,omitempty"`
	CameraComposition CameraComposition `json:"cameraComposition,omitempty"`
	ColorPalette      ColorPalette      `json:"colorPalette,omitempty"`
	LensEffect        LensEffect        `json:"lensEffect,omitempty"`
	AspectRatio       AspectRatio       `json:"aspectRatio"`
	Resolution        ResolutionQuality `json:"resolution"`
	ThinkingLevel     ThinkingLevel     `json:"thinkingLevel"`
	StyleIntensity    StyleIntensity    `json:"styleIntensity,omitempty"`
	SourceImageBase64 string            `json:"sourceImageBase64,omitempty"`
}

// Validate applies the checks the backend enforces on every request body.
func (r GenerationRequest) Validate() error {
	subject := strings.TrimSpace(r.Subject)
	if subject == "" {
		return &ValidationError{Field: "subject", Reason: "is required"}
	}
	if utf8.RuneCountInString(r.Subject) > MaxSubjectLength {
		return &ValidationError{Field: "subject", Reason: fmt.Sprintf("must be under %d characters", MaxSubjectLength)}
	}
	if r.OperationMode == "" {
		return &ValidationError{Field: "operationMode", Reason: "is required"}
	}
	if r.AspectRatio == "" {
		return &ValidationError{Field: "aspectRatio", Reason: "is required"}
	}
	if r.Resolution == "" {
		return &ValidationError{Field: "resolution", Reason: "is required"}
	}
	if r.ThinkingLevel == "" {
		return &ValidationError{Field: "thinkingLevel", Reason: "is required"}
	}
	return nil
}

// ImageMetadata describes how a result was produced.
type ImageMetadata struct {
	Model         string        `json:"model"`
	ThinkingLevel ThinkingLevel `json:"thinkingLevel"`
	AspectRatio   string        `json:"aspectRatio"`
	Resolution    string        `json:"resolution"`
	CreatedAt     Timestamp     `json:"createdAt"`
}

// GenerationResult is the backend response for one generated image.
type GenerationResult struct {
	ID               string        `json:"id"`
	ImageURL         string        `json:"imageUrl"`
	Prompt           string        `json:"prompt"`
	GenerationTimeMs int64         `json:"generationTimeMs"`
	Metadata         ImageMetadata `json:"metadata"`
}

// GenerationTime returns GenerationTimeMs as a duration.
func (r GenerationResult) GenerationTime() time.Duration {
	return time.Duration(r.GenerationTimeMs) * time.Millisecond
}
