package domain

// OptionItem is one selectable value of an enumerated field.
type OptionItem struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	APIValue string `json:"apiValue,omitempty"`
}

// OptionsMap is the server-authoritative list of valid choices per field.
type OptionsMap struct {
	OperationModes     []OptionItem `json:"operationModes"`
	AestheticStyles    []OptionItem `json:"aestheticStyles"`
	LightingSetups     []OptionItem `json:"lightingSetups"`
	CameraCompositions []OptionItem `json:"cameraCompositions"`
	ColorPalettes      []OptionItem `json:"colorPalettes"`
	LensEffects        []OptionItem `json:"lensEffects"`
	AspectRatios       []OptionItem `json:"aspectRatios"`
	Resolutions        []OptionItem `json:"resolutions"`
	StyleIntensities   []OptionItem `json:"styleIntensities"`
	ThinkingLevels     []OptionItem `json:"thinkingLevels"`
}

// OptionField names one list of an OptionsMap by its JSON key.
type OptionField string

const (
	FieldOperationModes     OptionField = "operationModes"
	FieldAestheticStyles    OptionField = "aestheticStyles"
	FieldLightingSetups     OptionField = "lightingSetups"
	FieldCameraCompositions OptionField = "cameraCompositions"
	FieldColorPalettes      OptionField = "colorPalettes"
	FieldLensEffects        OptionField = "lensEffects"
	FieldAspectRatios       OptionField = "aspectRatios"
	FieldResolutions        OptionField = "resolutions"
	FieldStyleIntensities   OptionField = "styleIntensities"
	FieldThinkingLevels     OptionField = "thinkingLevels"
)

// OptionFields lists every field in the order the backend returns them.
var OptionFields = []OptionField{
	FieldOperationModes,
	FieldAestheticStyles,
	FieldLightingSetups,
	FieldCameraCompositions,
	FieldColorPalettes,
	FieldLensEffects,
	FieldAspectRatios,
	FieldResolutions,
	FieldStyleIntensities,
	FieldThinkingLevels,
}

// Field returns the list stored under f, or nil for an unknown field.
func (m OptionsMap) Field(f OptionField) []OptionItem {
	switch f {
	case FieldOperationModes:
		return m.OperationModes
	case FieldAestheticStyles:
		return m.AestheticStyles
	case FieldLightingSetups:
		return m.LightingSetups
	case FieldCameraCompositions:
		return m.CameraCompositions
	case FieldColorPalettes:
		return m.ColorPalettes
	case FieldLensEffects:
		return m.LensEffects
	case FieldAspectRatios:
		return m.AspectRatios
	case FieldResolutions:
		return m.Resolutions
	case FieldStyleIntensities:
		return m.StyleIntensities
	case FieldThinkingLevels:
		return m.ThinkingLevels
	}
	return nil
}

// Has reports whether value is listed under f.
func (m OptionsMap) Has(f OptionField, value string) bool {
	for _, item := range m.Field(f) {
		if item.Value == value {
			return true
		}
	}
	return false
}

// RequestFieldValues pairs each enum field of r with the option list it must belong to.
// Unset optional fields are skipped.
func RequestFieldValues(r GenerationRequest) map[OptionField]string {
	out := map[OptionField]string{
		FieldOperationModes: string(r.OperationMode),
		FieldAspectRatios:   string(r.AspectRatio),
		FieldResolutions:    string(r.Resolution),
		FieldThinkingLevels: string(r.ThinkingLevel),
	}
	optional := map[OptionField]string{
		FieldAestheticStyles:    string(r.AestheticStyle),
		FieldLightingSetups:     string(r.Lighting),
		FieldCameraCompositions: string(r.CameraComposition),
		FieldColorPalettes:      string(r.ColorPalette),
		FieldLensEffects:        string(r.LensEffect),
		FieldStyleIntensities:   string(r.StyleIntensity),
	}
	for f, v := range optional {
		if v != "" {
			out[f] = v
		}
	}
	return out
}

// CompiledOptions returns the choice lists this client was built against.
// The backend's /options response is expected to match it.
func CompiledOptions() OptionsMap {
	return OptionsMap{
		OperationModes: []OptionItem{
			{Value: string(ModeTextToImage), Label: "Generate New"},
			{Value: string(ModeEditExisting), Label: "Edit Existing"},
			{Value: string(ModeStyleTransfer), Label: "Style Transfer"},
			{Value: string(ModeMultiImage), Label: "Multi-Image Composition"},
		},
		AestheticStyles: []OptionItem{
			{Value: string(StylePhotorealistic), Label: "Photorealistic"},
			{Value: string(StyleIsometric3D), Label: "Isometric 3D"},
			{Value: string(StyleFlatVector), Label: "Flat Vector"},
			{Value: string(StyleCinematic), Label: "Cinematic"},
			{Value: string(StyleCyberpunk), Label: "Cyberpunk"},
			{Value: string(StyleWatercolor), Label: "Watercolor"},
			{Value: string(StyleSketch), Label: "Sketch"},
			{Value: string(StylePopArt), Label: "Pop Art"},
		},
		LightingSetups: []OptionItem{
			{Value: string(LightingGoldenHour), Label: "Natural/Golden Hour"},
			{Value: string(LightingStudioSoftbox), Label: "Studio Softbox"},
			{Value: string(LightingNeonVolumetric), Label: "Neon Volumetric"},
			{Value: string(LightingHighContrast), Label: "High Contrast/Moody"},
			{Value: string(LightingHarshSunlight), Label: "Harsh Sunlight"},
		},
		CameraCompositions: []OptionItem{
			{Value: string(CameraMacro), Label: "Macro (Extreme Close-up)"},
			{Value: string(CameraWideAngle), Label: "Wide Angle"},
			{Value: string(CameraDroneAerial), Label: "Drone/Aerial View"},
			{Value: string(CameraEyeLevel), Label: "Eye-Level"},
			{Value: string(CameraIsometric), Label: "Isometric Angle"},
		},
		ColorPalettes: []OptionItem{
			{Value: string(PaletteVibrant), Label: "Vibrant/Saturated"},
			{Value: string(PaletteMuted), Label: "Muted/Pastel"},
			{Value: string(PaletteMonochromatic), Label: "Monochromatic"},
			{Value: string(PaletteSepia), Label: "Sepia"},
			{Value: string(PaletteHighContrastBW), Label: "High Contrast Black & White"},
		},
		LensEffects: []OptionItem{
			{Value: string(LensDeepFocus), Label: "Deep Focus"},
			{Value: string(LensShallowDOF), Label: "Shallow Depth of Field"},
			{Value: string(LensMotionBlur), Label: "Motion Blur"},
			{Value: string(LensFisheye), Label: "Fisheye"},
		},
		AspectRatios: []OptionItem{
			{Value: string(Ratio1x1), Label: "1:1 (Square)", APIValue: Ratio1x1.APIValue()},
			{Value: string(Ratio16x9), Label: "16:9 (Landscape)", APIValue: Ratio16x9.APIValue()},
			{Value: string(Ratio9x16), Label: "9:16 (Vertical)", APIValue: Ratio9x16.APIValue()},
			{Value: string(Ratio4x3), Label: "4:3 (Standard)", APIValue: Ratio4x3.APIValue()},
			{Value: string(Ratio21x9), Label: "21:9 (Cinematic)", APIValue: Ratio21x9.APIValue()},
		},
		Resolutions: []OptionItem{
			{Value: string(ResolutionDraft), Label: "Draft"},
			{Value: string(ResolutionStandard), Label: "Standard"},
			{Value: string(ResolutionProduction), Label: "Production"},
		},
		StyleIntensities: []OptionItem{
			{Value: string(IntensitySubtle), Label: "Subtle"},
			{Value: string(IntensityBalanced), Label: "Balanced"},
			{Value: string(IntensityAggressive), Label: "Aggressive"},
		},
		ThinkingLevels: []OptionItem{
			{Value: string(ThinkingFast), Label: "Fast"},
			{Value: string(ThinkingCreative), Label: "Creative"},
		},
	}
}
