package domain

// ImageRecord is one gallery entry persisted by the backend.
type ImageRecord struct {
	ID               string        `json:"id"`
	FilePath         string        `json:"filePath"`
	Prompt           string        `json:"prompt"`
	OperationMode    OperationMode `json:"operationMode"`
	GenerationTimeMs int64         `json:"generationTimeMs"`
	CreatedAt        Timestamp     `json:"createdAt"`
}

// GalleryPage is one zero-based page of gallery records.
type GalleryPage struct {
	Content       []ImageRecord `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Number        int           `json:"number"`
	Size          int           `json:"size"`
}

const (
	// DefaultGalleryPageSize is the page size used when none is given.
	DefaultGalleryPageSize = 20
)
