package deliverables

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// DeliverableDTO is the transport shape for one uploaded deliverable.
type DeliverableDTO struct {
	ID            uuid.UUID       `json:"id"`
	ApplicationID uuid.UUID       `json:"application_id"`
	UploaderID    uuid.UUID       `json:"uploader_id"`
	MediaType     enums.MediaType `json:"media_type"`
	MimeType      string          `json:"mime_type"`
	SizeBytes     int64           `json:"size_bytes"`
	Label         *string         `json:"label,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// UploadInput carries one deliverable upload. Content holds the full file
// body, already capped by the HTTP layer.
type UploadInput struct {
	ApplicationID uuid.UUID
	Filename      string
	Label         string
	Content       []byte
}

// SignedURLResult is the response for a download-url request.
type SignedURLResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

func FromModel(m *models.DeliverableMedia) *DeliverableDTO {
	if m == nil {
		return nil
	}
	return &DeliverableDTO{
		ID:            m.ID,
		ApplicationID: m.ApplicationID,
		UploaderID:    m.UploaderID,
		MediaType:     m.MediaType,
		MimeType:      m.MimeType,
		SizeBytes:     m.SizeBytes,
		Label:         m.Label,
		CreatedAt:     m.CreatedAt,
	}
}
