package deliverables

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/flo-kian-baban/connex-backend/pkg/config"
	"github.com/flo-kian-baban/connex-backend/pkg/db/models"
	"github.com/flo-kian-baban/connex-backend/pkg/enums"
	pkgerrors "github.com/flo-kian-baban/connex-backend/pkg/errors"
	"github.com/flo-kian-baban/connex-backend/pkg/logger"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox"
	"github.com/flo-kian-baban/connex-backend/pkg/outbox/payloads"
)

// Service handles deliverable upload, listing, and download-url minting.
type Service interface {
	Upload(ctx context.Context, uploaderID uuid.UUID, input UploadInput) (*DeliverableDTO, error)
	SignedURL(ctx context.Context, userID, mediaID uuid.UUID) (*SignedURLResult, error)
	ListByApplication(ctx context.Context, userID, applicationID uuid.UUID) ([]DeliverableDTO, error)
}

type repository interface {
	CreateTx(tx *gorm.DB, media *models.DeliverableMedia) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.DeliverableMedia, error)
	ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]models.DeliverableMedia, error)
}

type applicationLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
}

type objectStore interface {
	Upload(ctx context.Context, object, contentType string, data io.Reader) error
	Delete(ctx context.Context, object string) error
}

type urlSigner interface {
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the deliverables service.
type ServiceParams struct {
	DB           txRunner
	Repo         repository
	Applications applicationLoader
	Store        objectStore
	Signer       urlSigner
	Bucket       string
	Outbox       eventEmitter
	Logger       *logger.Logger
	Deliverables config.DeliverablesConfig
	URLExpiry    time.Duration
}

type service struct {
	db           txRunner
	repo         repository
	applications applicationLoader
	store        objectStore
	signer       urlSigner
	bucket       string
	outbox       eventEmitter
	logg         *logger.Logger
	maxBytes     int64
	urlExpiry    time.Duration
}

// NewService builds a deliverables service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "deliverables repo required")
	}
	if params.Applications == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "application loader required")
	}
	if params.Store == nil || params.Signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "object store and signer required")
	}
	if params.Bucket == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "bucket name required")
	}
	if params.Outbox == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "outbox emitter required")
	}
	urlExpiry := params.URLExpiry
	if urlExpiry <= 0 {
		urlExpiry = time.Hour
	}
	return &service{
		db:           params.DB,
		repo:         params.Repo,
		applications: params.Applications,
		store:        params.Store,
		signer:       params.Signer,
		bucket:       params.Bucket,
		outbox:       params.Outbox,
		logg:         params.Logger,
		maxBytes:     params.Deliverables.MaxUploadBytes(),
		urlExpiry:    urlExpiry,
	}, nil
}

// Upload validates the file, writes it to object storage, then records the
// metadata and queues the notification in one transaction. A failed metadata
// insert deletes the just-written object; validation failures never touch
// storage.
func (s *service) Upload(ctx context.Context, uploaderID uuid.UUID, input UploadInput) (*DeliverableDTO, error) {
	if input.ApplicationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "application id is required")
	}
	if len(input.Content) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if int64(len(input.Content)) > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %d MB limit", s.maxBytes/(1024*1024)))
	}

	detected := mimetype.Detect(input.Content)
	mediaType, err := classifyMime(detected.String())
	if err != nil {
		return nil, err
	}

	app, err := s.loadApplication(ctx, input.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.CreatorID != uploaderID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the application's creator can upload deliverables")
	}
	if app.Status != enums.ApplicationStatusAccepted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "deliverables require an accepted application")
	}

	objectPath := fmt.Sprintf("deliverables/%s/%s%s", app.ID, uuid.NewString(), detected.Extension())
	if err := s.store.Upload(ctx, objectPath, detected.String(), bytes.NewReader(input.Content)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store deliverable")
	}

	media := &models.DeliverableMedia{
		ApplicationID: app.ID,
		UploaderID:    uploaderID,
		StoragePath:   objectPath,
		MediaType:     mediaType,
		MimeType:      detected.String(),
		SizeBytes:     int64(len(input.Content)),
	}
	if label := strings.TrimSpace(input.Label); label != "" {
		media.Label = &label
	}

	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, media); err != nil {
			return err
		}
		label := ""
		if media.Label != nil {
			label = *media.Label
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventDeliverableSubmitted,
			AggregateType: enums.AggregateDeliverable,
			AggregateID:   media.ID,
			Actor:         &outbox.ActorRef{UserID: uploaderID, Role: string(enums.UserRoleCreator)},
			Data: payloads.DeliverableSubmittedEvent{
				MediaID:         media.ID,
				ApplicationID:   app.ID,
				UploaderID:      uploaderID,
				RecipientUserID: app.ProviderID,
				MediaType:       mediaType,
				Label:           label,
			},
			Version: 1,
		})
	})
	if txErr != nil {
		if delErr := s.store.Delete(ctx, objectPath); delErr != nil && s.logg != nil {
			s.logg.Error(ctx, "orphaned deliverable object "+objectPath, delErr)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "record deliverable")
	}
	return FromModel(media), nil
}

// SignedURL mints a time-limited download link. Only the application's
// creator or the linked provider may request one.
func (s *service) SignedURL(ctx context.Context, userID, mediaID uuid.UUID) (*SignedURLResult, error) {
	if mediaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media id is required")
	}
	media, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "deliverable not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load deliverable")
	}

	app, err := s.loadApplication(ctx, media.ApplicationID)
	if err != nil {
		return nil, err
	}
	if app.CreatorID != userID && app.ProviderID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "deliverable belongs to another engagement")
	}

	url, err := s.signer.SignedReadURL(s.bucket, media.StoragePath, s.urlExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return &SignedURLResult{URL: url, ExpiresAt: time.Now().Add(s.urlExpiry)}, nil
}

// ListByApplication returns the deliverables for an application the caller
// participates in.
func (s *service) ListByApplication(ctx context.Context, userID, applicationID uuid.UUID) ([]DeliverableDTO, error) {
	app, err := s.loadApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.CreatorID != userID && app.ProviderID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "application belongs to other users")
	}
	rows, err := s.repo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list deliverables")
	}
	items := make([]DeliverableDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	return items, nil
}

func (s *service) loadApplication(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.applications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "application not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load application")
	}
	return app, nil
}

func classifyMime(mime string) (enums.MediaType, error) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return enums.MediaTypeImage, nil
	case strings.HasPrefix(mime, "video/"):
		return enums.MediaTypeVideo, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "only image and video files are accepted")
	}
}
