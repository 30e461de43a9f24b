package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/config"
	pkgerrors "github.com/eduardalidini-ux/multivendor-ecommerce/pkg/errors"
	"github.com/eduardalidini-ux/multivendor-ecommerce/pkg/logger"
)

const maxUploadBytes = 20 * 1024 * 1024

var allowedUploadMimeTypes = []string{
	"image/png", "image/jpeg", "image/webp", "image/gif", "application/pdf",
}

type urlSigner interface {
	SignedURL(bucket, object, method string, expiry time.Duration) (string, error)
}

// PresignUploadInput models a request for a direct-to-bucket upload URL.
type PresignUploadInput struct {
	FileName  string
	MimeType  string
	SizeBytes int64
}

// PresignOutput carries a signed URL back to the client.
type PresignOutput struct {
	Key       string    `json:"key"`
	SignedURL string    `json:"signed_url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service issues presigned object-storage URLs scoped to the caller.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignUploadInput) (*PresignOutput, error)
	PresignDownload(ctx context.Context, userID uuid.UUID, key string) (*PresignOutput, error)
}

type service struct {
	signer urlSigner
	cfg    config.GCSConfig
	logg   *logger.Logger
}

func NewService(signer urlSigner, cfg config.GCSConfig, logg *logger.Logger) (Service, error) {
	if signer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "url signer is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	if cfg.UploadURLExpiry <= 0 || cfg.DownloadURLExpiry <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "signed url expiries must be positive")
	}
	return &service{signer: signer, cfg: cfg, logg: logg}, nil
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignUploadInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > maxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be at most %d", maxUploadBytes))
	}
	mimeType := strings.TrimSpace(input.MimeType)
	if !isAllowedMime(mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed")
	}

	key := objectKey(userID, fileName)
	expiresAt := time.Now().Add(s.cfg.UploadURLExpiry)
	signedURL, err := s.signer.SignedURL(s.cfg.BucketName, key, "PUT", s.cfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID, "key": key})
	s.logg.Info(ctx, "upload url issued")

	return &PresignOutput{Key: key, SignedURL: signedURL, Method: "PUT", ExpiresAt: expiresAt}, nil
}

func (s *service) PresignDownload(ctx context.Context, userID uuid.UUID, key string) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user identity missing")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "key is required")
	}
	// Callers may only read inside their own namespace.
	if !strings.HasPrefix(key, keyPrefix(userID)) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "key outside caller namespace")
	}

	expiresAt := time.Now().Add(s.cfg.DownloadURLExpiry)
	signedURL, err := s.signer.SignedURL(s.cfg.BucketName, key, "GET", s.cfg.DownloadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return &PresignOutput{Key: key, SignedURL: signedURL, Method: "GET", ExpiresAt: expiresAt}, nil
}

func keyPrefix(userID uuid.UUID) string {
	return "user_" + userID.String() + "/"
}

func objectKey(userID uuid.UUID, fileName string) string {
	return keyPrefix(userID) + fileName
}

func isAllowedMime(mimeType string) bool {
	for _, candidate := range allowedUploadMimeTypes {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func sanitizeFileName(name string) string {
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
