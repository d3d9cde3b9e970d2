package partner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/agrisupply/backend/internal/domain/partner"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// coaUploadURLExpiry bounds how long a presigned certificate upload URL
// stays usable
const coaUploadURLExpiry = 15 * time.Minute

// allowedCertificateContentTypes whitelists certificate uploads: scanned
// documents and photos only
var allowedCertificateContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
}

// UploadURLSigner is the slice of object storage needed for certificate
// uploads, implemented by the infrastructure layer
type UploadURLSigner interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
}

// COAService manages supplier certificates of analysis. The status lookup is
// advisory: an expired or missing certificate is reported, never enforced.
type COAService struct {
	suppliers partner.SupplierRepository
	coas      partner.COARepository
	storage   UploadURLSigner
	logger    *zap.Logger
}

// NewCOAService creates a new certificate-of-analysis service
func NewCOAService(suppliers partner.SupplierRepository, coas partner.COARepository, storage UploadURLSigner, logger *zap.Logger) *COAService {
	return &COAService{suppliers: suppliers, coas: coas, storage: storage, logger: logger}
}

// CreateCOA registers a certificate for a supplier
func (s *COAService) CreateCOA(ctx context.Context, supplierID uuid.UUID, req *CreateCOARequest) (*COAResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}

	coa, err := partner.NewCertificateOfAnalysis(supplierID, req.CertificateNumber, req.IssuedAt, req.ExpiresAt, req.FilePath, req.Remarks)
	if err != nil {
		return nil, err
	}

	if err := s.coas.Save(ctx, coa); err != nil {
		return nil, err
	}

	s.logger.Info("certificate of analysis registered",
		zap.String("supplier_id", supplierID.String()),
		zap.String("certificate_number", coa.CertificateNumber))

	return ToCOAResponse(coa), nil
}

// ListCOAs lists a supplier's certificates, newest first
func (s *COAService) ListCOAs(ctx context.Context, supplierID uuid.UUID) ([]COAResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}

	coas, err := s.coas.FindBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	items := make([]COAResponse, 0, len(coas))
	for i := range coas {
		items = append(items, *ToCOAResponse(&coas[i]))
	}
	return items, nil
}

// GetCOAStatus returns the supplier's current compliance verdict based on the
// latest certificate: VALID, EXPIRED, or MISSING when none is on file
func (s *COAService) GetCOAStatus(ctx context.Context, supplierID uuid.UUID) (*COAStatusResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}

	latest, err := s.coas.FindLatestBySupplier(ctx, supplierID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &COAStatusResponse{
				SupplierID: supplierID,
				Status:     partner.COAStatusMissing.String(),
			}, nil
		}
		return nil, err
	}

	return &COAStatusResponse{
		SupplierID:  supplierID,
		Status:      latest.StatusAt(time.Now()).String(),
		Certificate: ToCOAResponse(latest),
	}, nil
}

// GenerateCOAUploadURL issues a presigned upload URL for a certificate scan.
// The returned storage key goes into the certificate's file_path on create.
func (s *COAService) GenerateCOAUploadURL(ctx context.Context, supplierID uuid.UUID, req *COAUploadURLRequest) (*COAUploadURLResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}
	if req.FileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if !allowedCertificateContentTypes[strings.ToLower(strings.TrimSpace(req.ContentType))] {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "File type is not allowed for certificate upload")
	}

	key := certificateStorageKey(supplierID, req.FileName)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, coaUploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &COAUploadURLResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// certificateStorageKey builds the object key for a certificate upload:
// suppliers/{supplierID}/coas/{random}{ext}
func certificateStorageKey(supplierID uuid.UUID, fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("suppliers/%s/coas/%s%s", supplierID, uuid.New(), ext)
}

// DeleteCOA removes a certificate
func (s *COAService) DeleteCOA(ctx context.Context, id uuid.UUID) error {
	if _, err := s.coas.FindByID(ctx, id); err != nil {
		return err
	}
	return s.coas.Delete(ctx, id)
}
