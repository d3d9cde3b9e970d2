package partner

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// CreateSupplierRequest creates a supplier
type CreateSupplierRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
}

// UpdateSupplierRequest updates the mutable supplier fields
type UpdateSupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
	Active        *bool  `json:"active,omitempty"`
}

// SupplierResponse mirrors a supplier
type SupplierResponse struct {
	ID            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCOARequest registers a certificate of analysis for a supplier
type CreateCOARequest struct {
	CertificateNumber string     `json:"certificate_number"`
	IssuedAt          time.Time  `json:"issued_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	FilePath          string     `json:"file_path,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
}

// COAResponse mirrors a certificate of analysis
type COAResponse struct {
	ID                uuid.UUID  `json:"id"`
	SupplierID        uuid.UUID  `json:"supplier_id"`
	CertificateNumber string     `json:"certificate_number"`
	IssuedAt          time.Time  `json:"issued_at"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
	FilePath          string     `json:"file_path,omitempty"`
	Remarks           string     `json:"remarks,omitempty"`
	Status            string     `json:"status"`
}

// COAUploadURLRequest asks for a presigned upload URL for a certificate scan
type COAUploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// COAUploadURLResponse carries the presigned URL and the storage key to put
// on the certificate's file_path
type COAUploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// COAStatusResponse is the compliance verdict surfaced on the intake form
type COAStatusResponse struct {
	SupplierID  uuid.UUID    `json:"supplier_id"`
	Status      string       `json:"status"`
	Certificate *COAResponse `json:"certificate,omitempty"`
}

// ToSupplierResponse maps a supplier to its response
func ToSupplierResponse(s *partner.Supplier) *SupplierResponse {
	return &SupplierResponse{
		ID:            s.ID,
		Code:          s.Code,
		Name:          s.Name,
		ContactPerson: s.ContactPerson,
		Phone:         s.Phone,
		Email:         s.Email,
		Address:       s.Address,
		Active:        s.Active,
		CreatedAt:     s.CreatedAt,
	}
}

// ToCOAResponse maps a certificate to its response, stamping the status as of now
func ToCOAResponse(c *partner.CertificateOfAnalysis) *COAResponse {
	return &COAResponse{
		ID:                c.ID,
		SupplierID:        c.SupplierID,
		CertificateNumber: c.CertificateNumber,
		IssuedAt:          c.IssuedAt,
		ExpiresAt:         c.ExpiresAt,
		FilePath:          c.FilePath,
		Remarks:           c.Remarks,
		Status:            c.StatusAt(time.Now()).String(),
	}
}
