package entity

import (
	"strings"
	"time"
)

// EvidenceRecord is one uploaded piece of technical-service evidence
// (photo or video). Records are read-only inputs: the rendering core
// re-fetches them from the store immediately before each render and
// never mutates them.
type EvidenceRecord struct {
	ID             int64     `json:"id"`
	FileURL        string    `json:"file_url"`
	FileName       string    `json:"file_name"`
	FileType       string    `json:"file_type"` // MIME type, e.g. image/jpeg
	Description    string    `json:"description,omitempty"`
	UploadedBy     string    `json:"uploaded_by"`
	CreatedAt      time.Time `json:"created_at"`
	ManualRotation int       `json:"manual_rotation"` // 0/90/180/270, overrides EXIF
}

// IsImage reports whether the record is photographic evidence
func (e *EvidenceRecord) IsImage() bool {
	return strings.HasPrefix(e.FileType, "image/")
}

// IsVideo reports whether the record is video evidence
func (e *EvidenceRecord) IsVideo() bool {
	return strings.HasPrefix(e.FileType, "video/")
}

// SplitEvidenceByMedia partitions records into images and videos,
// preserving the incoming order within each group
func SplitEvidenceByMedia(records []EvidenceRecord) (images, videos []EvidenceRecord) {
	for _, r := range records {
		switch {
		case r.IsImage():
			images = append(images, r)
		case r.IsVideo():
			videos = append(videos, r)
		}
	}
	return images, videos
}
