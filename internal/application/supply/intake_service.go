package supply

import (
	"context"
	"time"

	"github.com/agrisupply/backend/internal/domain/catalog"
	"github.com/agrisupply/backend/internal/domain/identity"
	"github.com/agrisupply/backend/internal/domain/partner"
	"github.com/agrisupply/backend/internal/domain/process"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/agrisupply/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrIncompleteIntake is returned when a submission is missing a required
// section or field. The message is surfaced to the client verbatim.
var ErrIncompleteIntake = shared.NewDomainError("INCOMPLETE_INTAKE", "Complete all required fields before continuing.")

// uploadURLExpiry bounds how long a presigned upload URL stays usable
const uploadURLExpiry = 15 * time.Minute

// SupplyIntakeService handles the supply receiving workflow: submitting and
// editing intake documents, listing and fetching them, and issuing presigned
// upload URLs for attachments. A submission persists the entire intake graph
// in one transaction; lot runs and the payment record are created best-effort
// after the commit.
type SupplyIntakeService struct {
	supplies        supply.SupplyRepository
	payments        supply.SupplyPaymentRepository
	lotRuns         process.LotRunRepository
	products        catalog.ProductRepository
	units           catalog.UnitRepository
	qualityParams   catalog.QualityParameterRepository
	packagingParams catalog.PackagingParameterRepository
	suppliers       partner.SupplierRepository
	users           identity.UserRepository
	storage         ObjectStorageService
	logger          *zap.Logger
}

// NewSupplyIntakeService creates a new supply intake service
func NewSupplyIntakeService(
	supplies supply.SupplyRepository,
	payments supply.SupplyPaymentRepository,
	lotRuns process.LotRunRepository,
	products catalog.ProductRepository,
	units catalog.UnitRepository,
	qualityParams catalog.QualityParameterRepository,
	packagingParams catalog.PackagingParameterRepository,
	suppliers partner.SupplierRepository,
	users identity.UserRepository,
	storage ObjectStorageService,
	logger *zap.Logger,
) *SupplyIntakeService {
	return &SupplyIntakeService{
		supplies:        supplies,
		payments:        payments,
		lotRuns:         lotRuns,
		products:        products,
		units:           units,
		qualityParams:   qualityParams,
		packagingParams: packagingParams,
		suppliers:       suppliers,
		users:           users,
		storage:         storage,
		logger:          logger,
	}
}

// SubmitIntake validates and persists a full intake document. The document
// number is assigned inside the save transaction. After the commit, lot runs
// are started for accepted batches and a pending payment is recorded; a
// failure in either is logged and does not fail the submission.
func (s *SupplyIntakeService) SubmitIntake(ctx context.Context, receiverID uuid.UUID, req *SubmitIntakeRequest) (*SupplyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supply_intake", "submit")
	defer span.End()

	if err := validateIntakeSections(req); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSupplierID, req.SupplierID.String(),
		telemetry.SpanAttrBatchCount, len(req.Batches),
	)

	doc, err := s.buildSupply(ctx, receiverID, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := doc.Finalize(supply.DocumentStatus(req.DocumentStatus)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.supplies.Create(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrSupplyID, doc.ID.String(),
		telemetry.SpanAttrDocumentNumber, doc.DocumentNumber,
	)

	s.logger.Info("supply intake submitted",
		zap.String("supply_id", doc.ID.String()),
		zap.String("document_number", doc.DocumentNumber),
		zap.String("supplier_id", doc.SupplierID.String()),
		zap.Int("batches", len(doc.Batches)))

	s.startLotRuns(ctx, doc)
	s.recordPayment(ctx, doc)

	return ToSupplyResponse(doc), nil
}

// UpdateIntake replaces an existing intake document with the submitted
// sections. The request version must match the stored version; batches,
// documents, and check items are replaced wholesale, one-row children are
// upserted, all inside one transaction.
func (s *SupplyIntakeService) UpdateIntake(ctx context.Context, id, receiverID uuid.UUID, req *UpdateIntakeRequest) (*SupplyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supply_intake", "update",
		telemetry.WithAttribute(telemetry.SpanAttrSupplyID, id.String()))
	defer span.End()

	if err := validateIntakeSections(&req.SubmitIntakeRequest); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	doc, err := s.supplies.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if doc.Version != req.Version {
		telemetry.RecordError(span, shared.ErrConcurrencyConflict)
		return nil, shared.ErrConcurrencyConflict
	}

	doc.WarehouseID = req.WarehouseID
	doc.ReceivedAt = req.ReceivedAt
	doc.SetRemarks(req.Remarks)

	supplier, err := s.resolveSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	doc.SupplierID = supplier.ID
	doc.SupplierName = supplier.Name

	doc.ClearBatches()
	doc.ClearDocuments()
	if err := s.attachSections(ctx, doc, receiverID, &req.SubmitIntakeRequest); err != nil {
		return nil, err
	}

	if err := doc.Finalize(supply.DocumentStatus(req.DocumentStatus)); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	doc.IncrementVersion()

	if err := s.supplies.SaveWithLock(ctx, doc); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("supply intake updated",
		zap.String("supply_id", doc.ID.String()),
		zap.String("document_number", doc.DocumentNumber),
		zap.Int("version", doc.Version))

	s.startLotRuns(ctx, doc)
	s.recordPayment(ctx, doc)

	return ToSupplyResponse(doc), nil
}

// GetSupply fetches one supply with its full graph
func (s *SupplyIntakeService) GetSupply(ctx context.Context, id uuid.UUID) (*SupplyResponse, error) {
	doc, err := s.supplies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToSupplyResponse(doc), nil
}

// GetSupplyByDocumentNumber fetches one supply by its document number
func (s *SupplyIntakeService) GetSupplyByDocumentNumber(ctx context.Context, documentNumber string) (*SupplyResponse, error) {
	doc, err := s.supplies.FindByDocumentNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	return ToSupplyResponse(doc), nil
}

// ListSupplies lists supplies with search, date-range filtering, and pagination
func (s *SupplyIntakeService) ListSupplies(ctx context.Context, req *ListSuppliesRequest) (*shared.Paginated[SupplySummaryResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 && req.PageSize <= 100 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	if req.ReceivedFrom != nil {
		filter.Filters["received_from"] = *req.ReceivedFrom
	}
	if req.ReceivedTo != nil {
		filter.Filters["received_to"] = *req.ReceivedTo
	}

	docs, err := s.supplies.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.supplies.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SupplySummaryResponse, 0, len(docs))
	for i := range docs {
		items = append(items, ToSupplySummaryResponse(&docs[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DeleteSupply removes a supply and its children
func (s *SupplyIntakeService) DeleteSupply(ctx context.Context, id uuid.UUID) error {
	if _, err := s.supplies.FindByID(ctx, id); err != nil {
		return err
	}
	return s.supplies.Delete(ctx, id)
}

// GenerateDocumentUploadURL issues a presigned upload URL for a delivery
// document scan. The supply ID may be a client-minted draft ID; the key is
// stored on the document row at submit time.
func (s *SupplyIntakeService) GenerateDocumentUploadURL(ctx context.Context, supplyID uuid.UUID, req *UploadURLRequest) (*UploadURLResponse, error) {
	return s.generateUploadURL(ctx, documentStorageKey(supplyID, req.FileName), req)
}

// GenerateSignatureUploadURL issues a presigned upload URL for an uploaded
// supplier signature document
func (s *SupplyIntakeService) GenerateSignatureUploadURL(ctx context.Context, supplyID uuid.UUID, req *UploadURLRequest) (*UploadURLResponse, error) {
	return s.generateUploadURL(ctx, signatureStorageKey(supplyID, req.FileName), req)
}

// GenerateDownloadURL issues a presigned download URL for a stored attachment
func (s *SupplyIntakeService) GenerateDownloadURL(ctx context.Context, storageKey string) (*UploadURLResponse, error) {
	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.ErrNotFound
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, storageKey, uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadURLResponse{UploadURL: url, StorageKey: storageKey, ExpiresAt: expiresAt}, nil
}

func (s *SupplyIntakeService) generateUploadURL(ctx context.Context, key string, req *UploadURLRequest) (*UploadURLResponse, error) {
	if req.FileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if !IsAllowedContentType(req.ContentType) {
		return nil, shared.NewDomainError("UNSUPPORTED_FILE_TYPE", "File type is not allowed for upload")
	}

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadURLResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// buildSupply constructs a new supply aggregate from a validated request
func (s *SupplyIntakeService) buildSupply(ctx context.Context, receiverID uuid.UUID, req *SubmitIntakeRequest) (*supply.Supply, error) {
	supplier, err := s.resolveSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}

	receiver, err := s.users.FindByID(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	doc, err := supply.NewSupply(req.WarehouseID, supplier.ID, supplier.Name, req.ReceivedAt, receiver.ID, receiver.FullName)
	if err != nil {
		return nil, err
	}
	doc.SetRemarks(req.Remarks)

	if err := s.attachSections(ctx, doc, receiverID, req); err != nil {
		return nil, err
	}

	return doc, nil
}

// attachSections resolves references and attaches every intake section to
// the aggregate: batches, quality check, documents, vehicle inspection,
// packaging check, and sign-off
func (s *SupplyIntakeService) attachSections(ctx context.Context, doc *supply.Supply, receiverID uuid.UUID, req *SubmitIntakeRequest) error {
	for i := range req.Batches {
		in := req.Batches[i]

		product, err := s.products.FindByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if !product.IsRaw() {
			return shared.NewDomainError("INVALID_PRODUCT_TYPE", "Only raw material products can be received")
		}
		if !product.Active {
			return shared.NewDomainError("INACTIVE_PRODUCT", "Product is no longer available for intake")
		}

		unit, err := s.units.FindByID(ctx, in.UnitID)
		if err != nil {
			return err
		}

		if _, err := doc.AddBatch(product.ID, product.Name, unit.ID, unit.Code, in.OrderedQty, in.ReceivedQty, in.AcceptedQty, in.UnitPrice); err != nil {
			return err
		}
	}

	if len(req.QualityItems) > 0 || req.QualityRemarks != "" {
		check := supply.NewQualityCheck(doc.ID, &receiverID, req.QualityRemarks)
		for i := range req.QualityItems {
			in := req.QualityItems[i]
			param, err := s.qualityParams.FindByID(ctx, in.ParameterID)
			if err != nil {
				return err
			}
			if err := check.AddItem(param.ID, param.Name, in.Score, in.Remarks, in.Results); err != nil {
				return err
			}
		}
		doc.AttachQualityCheck(check)
	}

	for i := range req.Documents {
		in := req.Documents[i]
		record, err := supply.NewSupplyDocument(doc.ID, in.InvoiceNumber, in.DriverName, in.LicenseNumber, in.BatchNumber, in.ProductionDate, in.ExpiryDate, in.FilePath)
		if err != nil {
			return err
		}
		doc.AddDocument(record)
	}

	if req.VehicleInspection != nil {
		inspection, err := supply.NewVehicleInspection(doc.ID,
			supply.InspectionAnswer(req.VehicleInspection.Cleanliness),
			supply.InspectionAnswer(req.VehicleInspection.PestFree),
			supply.InspectionAnswer(req.VehicleInspection.TemperatureControl),
			req.VehicleInspection.Remarks)
		if err != nil {
			return err
		}
		doc.SetVehicleInspection(inspection)
	}

	if len(req.PackagingItems) > 0 || req.PackagingRemarks != "" {
		check := supply.NewPackagingCheck(doc.ID, req.PackagingRemarks)
		for i := range req.PackagingItems {
			in := req.PackagingItems[i]
			param, err := s.packagingParams.FindByID(ctx, in.ParameterID)
			if err != nil {
				return err
			}
			if err := check.AddItem(param.ID, param.Name, in.Value); err != nil {
				return err
			}
		}
		doc.SetPackagingCheck(check)
	}

	if req.SignOff != nil {
		signOff, err := supply.NewSupplierSignOff(doc.ID,
			supply.SignatureType(req.SignOff.SignatureType),
			req.SignOff.SignerName,
			req.SignOff.SignatureData,
			req.SignOff.FilePath,
			req.SignOff.Remarks)
		if err != nil {
			return err
		}
		doc.SetSignOff(signOff)
	}

	return nil
}

func (s *SupplyIntakeService) resolveSupplier(ctx context.Context, id uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !supplier.Active {
		return nil, shared.NewDomainError("INACTIVE_SUPPLIER", "Supplier is no longer active")
	}
	return supplier, nil
}

// startLotRuns starts a pipeline run for every accepted batch without one.
// Existing runs are matched by lot number, not batch row ID: an intake edit
// replaces the batch rows, and the run for an already-started lot must be
// re-pointed at the replacement row rather than duplicated. Runs are
// best-effort: a failure is logged and the intake stands.
func (s *SupplyIntakeService) startLotRuns(ctx context.Context, doc *supply.Supply) {
	for _, batch := range doc.AcceptedBatches() {
		if existing, err := s.lotRuns.FindByLotNumber(ctx, batch.LotNumber); err == nil {
			if existing.BatchID == batch.ID {
				continue
			}
			if err := existing.ReattachBatch(batch.ID, batch.AcceptedQty); err != nil {
				s.logger.Warn("failed to reattach lot run to edited batch",
					zap.String("supply_id", doc.ID.String()),
					zap.String("lot_number", batch.LotNumber),
					zap.Error(err))
				continue
			}
			if err := s.lotRuns.SaveWithLock(ctx, existing); err != nil {
				s.logger.Warn("failed to reattach lot run to edited batch",
					zap.String("supply_id", doc.ID.String()),
					zap.String("lot_number", batch.LotNumber),
					zap.Error(err))
			}
			continue
		}

		run, err := process.NewLotRun(batch.ID, doc.ID, batch.LotNumber, batch.ProductID, batch.AcceptedQty)
		if err != nil {
			s.logger.Warn("failed to build lot run for accepted batch",
				zap.String("supply_id", doc.ID.String()),
				zap.String("lot_number", batch.LotNumber),
				zap.Error(err))
			continue
		}
		if err := s.lotRuns.Save(ctx, run); err != nil {
			s.logger.Warn("failed to start lot run for accepted batch",
				zap.String("supply_id", doc.ID.String()),
				zap.String("lot_number", batch.LotNumber),
				zap.Error(err))
			continue
		}
		telemetry.AddEvent(telemetry.SpanFromContext(ctx), "lot_run_started",
			telemetry.SpanAttrLotNumber, batch.LotNumber,
			telemetry.SpanAttrQuantity, batch.AcceptedQty.String(),
		)
	}
}

// recordPayment creates or refreshes the pending payment for the supply.
// Settled payments are left untouched. Failures are logged, not returned.
func (s *SupplyIntakeService) recordPayment(ctx context.Context, doc *supply.Supply) {
	amount := doc.TotalAcceptedAmount()

	existing, err := s.payments.FindBySupplyID(ctx, doc.ID)
	if err == nil {
		if existing.Status == supply.PaymentStatusPaid {
			return
		}
		existing.AmountDue = amount
		if err := s.payments.Save(ctx, existing); err != nil {
			s.logger.Warn("failed to refresh supply payment",
				zap.String("supply_id", doc.ID.String()),
				zap.Error(err))
		}
		return
	}

	payment, err := supply.NewSupplyPayment(doc.ID, doc.SupplierID, amount)
	if err != nil {
		s.logger.Warn("failed to build supply payment",
			zap.String("supply_id", doc.ID.String()),
			zap.Error(err))
		return
	}
	if err := s.payments.Save(ctx, payment); err != nil {
		s.logger.Warn("failed to record supply payment",
			zap.String("supply_id", doc.ID.String()),
			zap.Error(err))
	}
}

// validateIntakeSections checks the required sections of a submission.
// Any gap returns the same incomplete-intake error; field-level detail is
// the client's concern.
func validateIntakeSections(req *SubmitIntakeRequest) error {
	if req == nil {
		return ErrIncompleteIntake
	}
	if req.WarehouseID == uuid.Nil || req.SupplierID == uuid.Nil || req.ReceivedAt.IsZero() {
		return ErrIncompleteIntake
	}
	if !supply.DocumentStatus(req.DocumentStatus).IsValid() {
		return ErrIncompleteIntake
	}
	if len(req.Batches) == 0 {
		return ErrIncompleteIntake
	}
	for i := range req.Batches {
		if req.Batches[i].ProductID == uuid.Nil || req.Batches[i].UnitID == uuid.Nil {
			return ErrIncompleteIntake
		}
	}
	if req.VehicleInspection == nil {
		return ErrIncompleteIntake
	}
	if req.SignOff == nil || req.SignOff.SignerName == "" {
		return ErrIncompleteIntake
	}
	return nil
}
