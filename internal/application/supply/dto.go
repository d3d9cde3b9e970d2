package supply

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IntakeBatchInput is one batch row on an intake submission
type IntakeBatchInput struct {
	ProductID   uuid.UUID        `json:"product_id"`
	UnitID      uuid.UUID        `json:"unit_id"`
	OrderedQty  decimal.Decimal  `json:"ordered_qty"`
	ReceivedQty decimal.Decimal  `json:"received_qty"`
	AcceptedQty decimal.Decimal  `json:"accepted_qty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// IntakeDocumentInput is one delivery paperwork record on an intake
type IntakeDocumentInput struct {
	InvoiceNumber  string     `json:"invoice_number,omitempty"`
	DriverName     string     `json:"driver_name,omitempty"`
	LicenseNumber  string     `json:"license_number,omitempty"`
	BatchNumber    string     `json:"batch_number,omitempty"`
	ProductionDate *time.Time `json:"production_date,omitempty"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	FilePath       string     `json:"file_path,omitempty"`
}

// VehicleInspectionInput carries the fixed vehicle checklist
type VehicleInspectionInput struct {
	Cleanliness        string `json:"cleanliness"`
	PestFree           string `json:"pest_free"`
	TemperatureControl string `json:"temperature_control"`
	Remarks            string `json:"remarks,omitempty"`
}

// PackagingItemInput records one packaging parameter value
type PackagingItemInput struct {
	ParameterID uuid.UUID `json:"parameter_id"`
	Value       string    `json:"value"`
}

// QualityItemInput scores one quality parameter (1-3, or 4 for N/A)
type QualityItemInput struct {
	ParameterID uuid.UUID `json:"parameter_id"`
	Score       int       `json:"score"`
	Remarks     string    `json:"remarks,omitempty"`
	Results     string    `json:"results,omitempty"`
}

// SignOffInput captures the supplier acknowledgement
type SignOffInput struct {
	SignatureType string `json:"signature_type"`
	SignerName    string `json:"signer_name"`
	SignatureData string `json:"signature_data,omitempty"`
	FilePath      string `json:"file_path,omitempty"`
	Remarks       string `json:"remarks,omitempty"`
}

// SubmitIntakeRequest is the full intake payload: every wizard section in
// one request, persisted in one transaction
type SubmitIntakeRequest struct {
	WarehouseID       uuid.UUID               `json:"warehouse_id"`
	SupplierID        uuid.UUID               `json:"supplier_id"`
	ReceivedAt        time.Time               `json:"received_at"`
	Remarks           string                  `json:"remarks,omitempty"`
	Documents         []IntakeDocumentInput   `json:"documents,omitempty"`
	VehicleInspection *VehicleInspectionInput `json:"vehicle_inspection"`
	PackagingRemarks  string                  `json:"packaging_remarks,omitempty"`
	PackagingItems    []PackagingItemInput    `json:"packaging_items"`
	QualityRemarks    string                  `json:"quality_remarks,omitempty"`
	QualityItems      []QualityItemInput      `json:"quality_items"`
	Batches           []IntakeBatchInput      `json:"batches"`
	DocumentStatus    string                  `json:"document_status"`
	SignOff           *SignOffInput           `json:"sign_off"`
}

// UpdateIntakeRequest is the edit-mode payload; Version drives the
// optimistic concurrency check
type UpdateIntakeRequest struct {
	SubmitIntakeRequest
	Version int `json:"version"`
}

// ListSuppliesRequest carries list filters: free-text search, a received-at
// date range, and pagination
type ListSuppliesRequest struct {
	Page         int
	PageSize     int
	Search       string
	ReceivedFrom *time.Time
	ReceivedTo   *time.Time
	OrderBy      string
	OrderDir     string
}

// SupplyLineResponse mirrors one supply line
type SupplyLineResponse struct {
	ID          uuid.UUID        `json:"id"`
	ProductID   uuid.UUID        `json:"product_id"`
	ProductName string           `json:"product_name"`
	UnitID      uuid.UUID        `json:"unit_id"`
	Unit        string           `json:"unit"`
	OrderedQty  decimal.Decimal  `json:"ordered_qty"`
	ReceivedQty decimal.Decimal  `json:"received_qty"`
	AcceptedQty decimal.Decimal  `json:"accepted_qty"`
	RejectedQty decimal.Decimal  `json:"rejected_qty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// SupplyBatchResponse mirrors one supply batch
type SupplyBatchResponse struct {
	ID            uuid.UUID       `json:"id"`
	LineID        uuid.UUID       `json:"line_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	LotNumber     string          `json:"lot_number"`
	CurrentQty    decimal.Decimal `json:"current_qty"`
	ReceivedQty   decimal.Decimal `json:"received_qty"`
	AcceptedQty   decimal.Decimal `json:"accepted_qty"`
	RejectedQty   decimal.Decimal `json:"rejected_qty"`
	QualityStatus string          `json:"quality_status"`
}

// QualityItemResponse mirrors one scored quality parameter
type QualityItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ParameterID   uuid.UUID `json:"parameter_id"`
	ParameterName string    `json:"parameter_name"`
	Score         int       `json:"score"`
	Remarks       string    `json:"remarks,omitempty"`
	Results       string    `json:"results,omitempty"`
}

// QualityCheckResponse mirrors the supply quality check
type QualityCheckResponse struct {
	ID           uuid.UUID             `json:"id"`
	CheckedAt    time.Time             `json:"checked_at"`
	Remarks      string                `json:"remarks,omitempty"`
	AverageScore *decimal.Decimal      `json:"average_score"`
	Items        []QualityItemResponse `json:"items"`
}

// SupplyResponse is the full supply document view
type SupplyResponse struct {
	ID                uuid.UUID             `json:"id"`
	DocumentNumber    string                `json:"document_number"`
	WarehouseID       uuid.UUID             `json:"warehouse_id"`
	SupplierID        uuid.UUID             `json:"supplier_id"`
	SupplierName      string                `json:"supplier_name"`
	ReceivedAt        time.Time             `json:"received_at"`
	ReceiverID        uuid.UUID             `json:"receiver_id"`
	ReceiverName      string                `json:"receiver_name"`
	DocumentStatus    string                `json:"document_status"`
	QualityStatus     string                `json:"quality_status"`
	Remarks           string                `json:"remarks,omitempty"`
	Version           int                   `json:"version"`
	Lines             []SupplyLineResponse  `json:"lines"`
	Batches           []SupplyBatchResponse `json:"batches"`
	QualityCheck      *QualityCheckResponse `json:"quality_check,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// SupplySummaryResponse is the list-page row view
type SupplySummaryResponse struct {
	ID             uuid.UUID `json:"id"`
	DocumentNumber string    `json:"document_number"`
	WarehouseID    uuid.UUID `json:"warehouse_id"`
	SupplierID     uuid.UUID `json:"supplier_id"`
	SupplierName   string    `json:"supplier_name"`
	ReceivedAt     time.Time `json:"received_at"`
	ReceiverName   string    `json:"receiver_name"`
	DocumentStatus string    `json:"document_status"`
	QualityStatus  string    `json:"quality_status"`
	BatchCount     int       `json:"batch_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// UploadURLRequest asks for a presigned upload URL
type UploadURLRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// UploadURLResponse returns the presigned URL and the object key to store
type UploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// PaymentResponse mirrors a supply payment
type PaymentResponse struct {
	ID         uuid.UUID       `json:"id"`
	SupplyID   uuid.UUID       `json:"supply_id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	AmountDue  decimal.Decimal `json:"amount_due"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	Version    int             `json:"version"`
}

// ToSupplyResponse maps a supply aggregate to its full response
func ToSupplyResponse(s *supply.Supply) *SupplyResponse {
	resp := &SupplyResponse{
		ID:             s.ID,
		DocumentNumber: s.DocumentNumber,
		WarehouseID:    s.WarehouseID,
		SupplierID:     s.SupplierID,
		SupplierName:   s.SupplierName,
		ReceivedAt:     s.ReceivedAt,
		ReceiverID:     s.ReceiverID,
		ReceiverName:   s.ReceiverName,
		DocumentStatus: s.DocumentStatus.String(),
		QualityStatus:  s.QualityStatus.String(),
		Remarks:        s.Remarks,
		Version:        s.Version,
		Lines:          make([]SupplyLineResponse, 0, len(s.Lines)),
		Batches:        make([]SupplyBatchResponse, 0, len(s.Batches)),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}

	for i := range s.Lines {
		l := s.Lines[i]
		resp.Lines = append(resp.Lines, SupplyLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitID:      l.UnitID,
			Unit:        l.Unit,
			OrderedQty:  l.OrderedQty,
			ReceivedQty: l.ReceivedQty,
			AcceptedQty: l.AcceptedQty,
			RejectedQty: l.RejectedQty,
			UnitPrice:   l.UnitPrice,
		})
	}

	for i := range s.Batches {
		b := s.Batches[i]
		resp.Batches = append(resp.Batches, SupplyBatchResponse{
			ID:            b.ID,
			LineID:        b.LineID,
			ProductID:     b.ProductID,
			LotNumber:     b.LotNumber,
			CurrentQty:    b.CurrentQty,
			ReceivedQty:   b.ReceivedQty,
			AcceptedQty:   b.AcceptedQty,
			RejectedQty:   b.RejectedQty,
			QualityStatus: b.QualityStatus.String(),
		})
	}

	if s.QualityCheck != nil {
		check := &QualityCheckResponse{
			ID:           s.QualityCheck.ID,
			CheckedAt:    s.QualityCheck.CheckedAt,
			Remarks:      s.QualityCheck.Remarks,
			AverageScore: s.QualityCheck.AverageScore(),
			Items:        make([]QualityItemResponse, 0, len(s.QualityCheck.Items)),
		}
		for i := range s.QualityCheck.Items {
			item := s.QualityCheck.Items[i]
			check.Items = append(check.Items, QualityItemResponse{
				ID:            item.ID,
				ParameterID:   item.ParameterID,
				ParameterName: item.ParameterName,
				Score:         item.Score,
				Remarks:       item.Remarks,
				Results:       item.Results,
			})
		}
		resp.QualityCheck = check
	}

	return resp
}

// ToSupplySummaryResponse maps a supply aggregate to its list row
func ToSupplySummaryResponse(s *supply.Supply) SupplySummaryResponse {
	return SupplySummaryResponse{
		ID:             s.ID,
		DocumentNumber: s.DocumentNumber,
		WarehouseID:    s.WarehouseID,
		SupplierID:     s.SupplierID,
		SupplierName:   s.SupplierName,
		ReceivedAt:     s.ReceivedAt,
		ReceiverName:   s.ReceiverName,
		DocumentStatus: s.DocumentStatus.String(),
		QualityStatus:  s.QualityStatus.String(),
		BatchCount:     len(s.Batches),
		CreatedAt:      s.CreatedAt,
	}
}

// ToPaymentResponse maps a supply payment to its response
func ToPaymentResponse(p *supply.SupplyPayment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID,
		SupplyID:   p.SupplyID,
		SupplierID: p.SupplierID,
		AmountDue:  p.AmountDue,
		Status:     p.Status.String(),
		PaidAt:     p.PaidAt,
		Version:    p.Version,
	}
}
