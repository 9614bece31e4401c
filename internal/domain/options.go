package domain

// OperationMode selects which generation action the subject applies to.
type OperationMode string

const (
	ModeTextToImage   OperationMode = "TEXT_TO_IMAGE"
	ModeEditExisting  OperationMode = "EDIT_EXISTING"
	ModeStyleTransfer OperationMode = "STYLE_TRANSFER"
	ModeMultiImage    OperationMode = "MULTI_IMAGE"
)

// AcceptsSourceImage reports whether the mode works from an uploaded image.
func (m OperationMode) AcceptsSourceImage() bool {
	return m == ModeEditExisting || m == ModeStyleTransfer
}

// UsesStyleIntensity reports whether StyleIntensity has any effect in this mode.
func (m OperationMode) UsesStyleIntensity() bool {
	return m == ModeStyleTransfer
}

// SubjectPlaceholder is the hint shown in an empty subject field.
func (m OperationMode) SubjectPlaceholder() string {
	if m == ModeEditExisting {
		return "Describe the edit you want to make..."
	}
	return "Describe your image..."
}

// AestheticStyle is the overall rendering style.
type AestheticStyle string

const (
	StylePhotorealistic AestheticStyle = "PHOTOREALISTIC"
	StyleIsometric3D    AestheticStyle = "ISOMETRIC_3D"
	StyleFlatVector     AestheticStyle = "FLAT_VECTOR"
	StyleCinematic      AestheticStyle = "CINEMATIC"
	StyleCyberpunk      AestheticStyle = "CYBERPUNK"
	StyleWatercolor     AestheticStyle = "WATERCOLOR"
	StyleSketch         AestheticStyle = "SKETCH"
	StylePopArt         AestheticStyle = "POP_ART"
)

// LightingSetup is the light arrangement of the scene.
type LightingSetup string

const (
	LightingGoldenHour     LightingSetup = "GOLDEN_HOUR"
	LightingStudioSoftbox  LightingSetup = "STUDIO_SOFTBOX"
	LightingNeonVolumetric LightingSetup = "NEON_VOLUMETRIC"
	LightingHighContrast   LightingSetup = "HIGH_CONTRAST"
	LightingHarshSunlight  LightingSetup = "HARSH_SUNLIGHT"
)

// CameraComposition is the camera angle and framing.
type CameraComposition string

const (
	CameraMacro       CameraComposition = "MACRO"
	CameraWideAngle   CameraComposition = "WIDE_ANGLE"
	CameraDroneAerial CameraComposition = "DRONE_AERIAL"
	CameraEyeLevel    CameraComposition = "EYE_LEVEL"
	CameraIsometric   CameraComposition = "ISOMETRIC"
)

// ColorPalette is the dominant color treatment.
type ColorPalette string

const (
	PaletteVibrant        ColorPalette = "VIBRANT"
	PaletteMuted          ColorPalette = "MUTED"
	PaletteMonochromatic  ColorPalette = "MONOCHROMATIC"
	PaletteSepia          ColorPalette = "SEPIA"
	PaletteHighContrastBW ColorPalette = "HIGH_CONTRAST_BW"
)

// LensEffect is an optical effect applied to the shot.
type LensEffect string

const (
	LensDeepFocus  LensEffect = "DEEP_FOCUS"
	LensShallowDOF LensEffect = "SHALLOW_DOF"
	LensMotionBlur LensEffect = "MOTION_BLUR"
	LensFisheye    LensEffect = "FISHEYE"
)

// AspectRatio is the output frame shape.
type AspectRatio string

const (
	Ratio1x1  AspectRatio = "RATIO_1_1"
	Ratio16x9 AspectRatio = "RATIO_16_9"
	Ratio9x16 AspectRatio = "RATIO_9_16"
	Ratio4x3  AspectRatio = "RATIO_4_3"
	Ratio21x9 AspectRatio = "RATIO_21_9"
)

var aspectRatioAPIValues = map[AspectRatio]string{
	Ratio1x1:  "1:1",
	Ratio16x9: "16:9",
	Ratio9x16: "9:16",
	Ratio4x3:  "4:3",
	Ratio21x9: "21:9",
}

// APIValue returns the "W:H" form the model expects, or "" for unknown ratios.
func (r AspectRatio) APIValue() string {
	return aspectRatioAPIValues[r]
}

// ResolutionQuality is the output resolution tier.
type ResolutionQuality string

const (
	ResolutionDraft      ResolutionQuality = "DRAFT"
	ResolutionStandard   ResolutionQuality = "STANDARD"
	ResolutionProduction ResolutionQuality = "PRODUCTION"
)

// StyleIntensity is the strength of a style transfer.
type StyleIntensity string

const (
	IntensitySubtle     StyleIntensity = "SUBTLE"
	IntensityBalanced   StyleIntensity = "BALANCED"
	IntensityAggressive StyleIntensity = "AGGRESSIVE"
)

// ThinkingLevel is the reasoning-effort hint passed to the model.
type ThinkingLevel string

const (
	ThinkingFast     ThinkingLevel = "FAST"
	ThinkingCreative ThinkingLevel = "CREATIVE"
)

const (
	// DefaultOperationMode is applied on reset.
	DefaultOperationMode = ModeTextToImage
	// DefaultAspectRatio is applied on reset.
	DefaultAspectRatio = Ratio16x9
	// DefaultResolution is applied on reset.
	DefaultResolution = ResolutionStandard
	// DefaultThinkingLevel is applied on reset.
	DefaultThinkingLevel = ThinkingCreative
	// MaxSubjectLength mirrors the backend limit on the subject field.
	MaxSubjectLength = 500
)
