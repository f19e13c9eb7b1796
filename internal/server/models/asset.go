package models

import "time"

// AssetKind separates the two binary collections.
type AssetKind string

const (
	AssetImage  AssetKind = "image"
	AssetResume AssetKind = "resume"
)

// Asset is the metadata of a stored binary. The payload itself lives in a
// payload store under StorageKey.
//
// For images IsActive is the soft-delete flag; for résumés it marks the one
// résumé offered for download.
type Asset struct {
	ID           string    `json:"id"`
	Kind         AssetKind `json:"kind"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	StorageKey   string    `json:"-"`
	URL          string    `json:"url"`
	UploadedBy   string    `json:"uploadedBy,omitempty"`
	ProjectID    *string   `json:"projectId,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AssetContent is an asset together with its payload.
type AssetContent struct {
	Asset *Asset
	Data  []byte
}

// AssetFilter narrows metadata listings.
type AssetFilter struct {
	ProjectID  string
	ActiveOnly bool
}

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPage fills the derived pagination fields.
func NewPage[T any](items []T, total int64, page, pageSize int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// AssetURL is the public retrieval path of an asset.
func AssetURL(kind AssetKind, id string) string {
	if kind == AssetResume {
		return "/api/resume/download/" + id
	}
	return "/api/images/" + id
}
