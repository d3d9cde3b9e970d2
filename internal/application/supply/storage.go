package supply

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AllowedContentTypes is the whitelist of content types accepted for supply
// document and signature uploads. SVG is excluded: it can carry scripts.
var AllowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
	"text/csv":   true,
}

// ObjectStorageService defines the interface for object storage operations,
// implemented by the infrastructure layer (S3-compatible backends)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// IsAllowedContentType checks the upload whitelist
func IsAllowedContentType(contentType string) bool {
	return AllowedContentTypes[strings.ToLower(strings.TrimSpace(contentType))]
}

// documentStorageKey builds the object key for a supply document upload:
// supplies/{supplyID}/documents/{random}{ext}
func documentStorageKey(supplyID uuid.UUID, fileName string) string {
	return storageKey(supplyID, "documents", fileName)
}

// signatureStorageKey builds the object key for a supplier signature upload:
// supplies/{supplyID}/signatures/{random}{ext}
func signatureStorageKey(supplyID uuid.UUID, fileName string) string {
	return storageKey(supplyID, "signatures", fileName)
}

func storageKey(supplyID uuid.UUID, kind, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("supplies/%s/%s/%s%s", supplyID, kind, uuid.New(), ext)
}
