package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SummySKJi/amplify-audio-sphere/pkg/config"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/db/models"
	"github.com/SummySKJi/amplify-audio-sphere/pkg/enums"
	pkgerrors "github.com/SummySKJi/amplify-audio-sphere/pkg/errors"
)

// allowedMimeTypes maps each media kind to the uploads it accepts.
var allowedMimeTypes = map[enums.MediaKind]map[string]string{
	enums.MediaKindAudio: {
		"audio/mpeg": ".mp3",
		"audio/wav":  ".wav",
		"audio/flac": ".flac",
	},
	enums.MediaKindCoverArt: {
		"image/jpeg": ".jpg",
		"image/png":  ".png",
	},
	enums.MediaKindPlatformLogo: {
		"image/jpeg":    ".jpg",
		"image/png":     ".png",
		"image/svg+xml": ".svg",
	},
	enums.MediaKindRoyaltyReport: {
		"application/pdf": ".pdf",
		"text/csv":        ".csv",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	},
}

// PresignRequest asks for a one-time upload URL.
type PresignRequest struct {
	Kind      string `json:"kind" validate:"required"`
	FileName  string `json:"file_name" validate:"required,min=1,max=255"`
	MimeType  string `json:"mime_type" validate:"required"`
	SizeBytes int64  `json:"size_bytes" validate:"required,gt=0"`
}

// PresignResponse carries the signed PUT URL and the object key the client
// must reference afterwards.
type PresignResponse struct {
	MediaID   uuid.UUID `json:"media_id"`
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	ExpiresIn int64     `json:"expires_in_seconds"`
}

type signer interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
	DefaultBucket() string
}

// Repository manages media registrations.
type Repository interface {
	Create(ctx context.Context, media *models.Media) error
	FindByObjectKey(ctx context.Context, objectKey string) (*models.Media, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a media repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *repository) FindByObjectKey(ctx context.Context, objectKey string) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).Where("object_key = ?", objectKey).First(&media).Error; err != nil {
		return nil, err
	}
	return &media, nil
}

// Service issues signed upload URLs and records the resulting objects.
type Service interface {
	Presign(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error)
	DownloadURL(ctx context.Context, objectKey string) (string, error)
}

// ServiceParams bundles the media service dependencies.
type ServiceParams struct {
	Repository Repository
	Signer     signer
	GCSConfig  config.GCSConfig
	Media      config.MediaConfig
}

type service struct {
	repo     Repository
	signer   signer
	gcsCfg   config.GCSConfig
	mediaCfg config.MediaConfig
}

// NewService constructs the media service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "media repository required")
	}
	if params.Signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage signer required")
	}
	return &service{
		repo:     params.Repository,
		signer:   params.Signer,
		gcsCfg:   params.GCSConfig,
		mediaCfg: params.Media,
	}, nil
}

func (s *service) Presign(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error) {
	kind, err := enums.ParseMediaKind(req.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}

	mime := strings.ToLower(strings.TrimSpace(req.MimeType))
	ext, ok := allowedMimeTypes[kind][mime]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported mime type for kind")
	}

	if req.SizeBytes <= 0 || req.SizeBytes > s.maxBytes(kind) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file size out of range")
	}

	objectKey := fmt.Sprintf("%s/%s/%s%s", kind, userID, uuid.NewString(), ext)
	media := &models.Media{
		UserID:    userID,
		Kind:      kind,
		ObjectKey: objectKey,
		FileName:  path.Base(strings.TrimSpace(req.FileName)),
		MimeType:  mime,
		SizeBytes: req.SizeBytes,
	}
	if err := s.repo.Create(ctx, media); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register media")
	}

	uploadURL, err := s.signer.SignedURL(s.signer.DefaultBucket(), objectKey, mime, s.gcsCfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignResponse{
		MediaID:   media.ID,
		ObjectKey: objectKey,
		UploadURL: uploadURL,
		ExpiresIn: int64(s.gcsCfg.UploadURLExpiry.Seconds()),
	}, nil
}

// DownloadURL signs a time-limited GET URL for a registered object.
func (s *service) DownloadURL(ctx context.Context, objectKey string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "object key is required")
	}
	url, err := s.signer.SignedReadURL(s.signer.DefaultBucket(), objectKey, s.gcsCfg.DownloadURLExpiry)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return url, nil
}

func (s *service) maxBytes(kind enums.MediaKind) int64 {
	const mb = int64(1) << 20
	switch kind {
	case enums.MediaKindAudio:
		return int64(s.mediaCfg.MaxAudioMB) * mb
	case enums.MediaKindRoyaltyReport:
		return int64(s.mediaCfg.MaxReportMB) * mb
	default:
		return int64(s.mediaCfg.MaxImageMB) * mb
	}
}
