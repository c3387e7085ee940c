package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flo-kian-baban/connex-backend/pkg/enums"
)

// DeliverableMedia records an uploaded deliverable object. StoragePath is the
// bucket-relative object key; the row is the source of truth for access checks
// when minting download URLs.
type DeliverableMedia struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ApplicationID uuid.UUID       `gorm:"column:application_id;type:uuid;not null;index"`
	UploaderID    uuid.UUID       `gorm:"column:uploader_id;type:uuid;not null"`
	StoragePath   string          `gorm:"column:storage_path;not null;uniqueIndex"`
	MediaType     enums.MediaType `gorm:"column:media_type;type:media_type;not null"`
	MimeType      string          `gorm:"column:mime_type;not null"`
	SizeBytes     int64           `gorm:"column:size_bytes;not null"`
	Label         *string         `gorm:"column:label"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
