package partner

import (
	"strings"
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// COAStatus is the certificate-of-analysis compliance verdict for a supplier
type COAStatus string

const (
	COAStatusValid   COAStatus = "VALID"
	COAStatusExpired COAStatus = "EXPIRED"
	COAStatusMissing COAStatus = "MISSING"
)

// String returns the string representation of COAStatus
func (s COAStatus) String() string {
	return string(s)
}

// CertificateOfAnalysis is a supplier-level compliance document with an
// optional expiry. Intake surfaces the latest certificate's status but never
// blocks on it.
type CertificateOfAnalysis struct {
	shared.BaseAggregateRoot
	SupplierID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CertificateNumber string    `gorm:"type:varchar(100);not null"`
	IssuedAt          time.Time `gorm:"not null"`
	ExpiresAt         *time.Time
	FilePath          string `gorm:"type:varchar(500)"`
	Remarks           string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (CertificateOfAnalysis) TableName() string {
	return "supplier_coas"
}

// NewCertificateOfAnalysis creates a certificate for a supplier
func NewCertificateOfAnalysis(supplierID uuid.UUID, certificateNumber string, issuedAt time.Time, expiresAt *time.Time, filePath, remarks string) (*CertificateOfAnalysis, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if strings.TrimSpace(certificateNumber) == "" {
		return nil, shared.NewDomainError("INVALID_CERTIFICATE", "Certificate number cannot be empty")
	}
	if issuedAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_CERTIFICATE", "Issue date cannot be empty")
	}
	if expiresAt != nil && expiresAt.Before(issuedAt) {
		return nil, shared.NewDomainError("INVALID_CERTIFICATE", "Expiry date cannot precede issue date")
	}

	return &CertificateOfAnalysis{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		CertificateNumber: strings.TrimSpace(certificateNumber),
		IssuedAt:          issuedAt,
		ExpiresAt:         expiresAt,
		FilePath:          filePath,
		Remarks:           remarks,
	}, nil
}

// StatusAt returns the certificate status at a point in time
func (c *CertificateOfAnalysis) StatusAt(t time.Time) COAStatus {
	if c.ExpiresAt != nil && c.ExpiresAt.Before(t) {
		return COAStatusExpired
	}
	return COAStatusValid
}

// IsExpired reports whether the certificate has lapsed
func (c *CertificateOfAnalysis) IsExpired() bool {
	return c.StatusAt(time.Now()) == COAStatusExpired
}
