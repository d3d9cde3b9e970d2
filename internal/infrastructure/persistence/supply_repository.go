package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/domain/supply"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// supplyPreloads are the associations loaded with a full supply graph
var supplyPreloads = []string{
	"Lines",
	"Batches",
	"QualityCheck",
	"QualityCheck.Items",
	"Documents",
	"VehicleInspection",
	"PackagingCheck",
	"PackagingCheck.Items",
	"SignOff",
}

// GormSupplyRepository implements supply.SupplyRepository using GORM
type GormSupplyRepository struct {
	db *gorm.DB
}

// NewGormSupplyRepository creates a new GORM supply repository
func NewGormSupplyRepository(db *gorm.DB) *GormSupplyRepository {
	return &GormSupplyRepository{db: db}
}

// FindByID finds a supply by ID with the full graph preloaded
func (r *GormSupplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*supply.Supply, error) {
	var doc supply.Supply
	query := r.db.WithContext(ctx)
	for _, preload := range supplyPreloads {
		query = query.Preload(preload)
	}
	if err := query.First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supply: %w", err)
	}
	return &doc, nil
}

// FindByDocumentNumber finds a supply by its document number
func (r *GormSupplyRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*supply.Supply, error) {
	var doc supply.Supply
	query := r.db.WithContext(ctx)
	for _, preload := range supplyPreloads {
		query = query.Preload(preload)
	}
	if err := query.First(&doc, "document_number = ?", documentNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find supply: %w", err)
	}
	return &doc, nil
}

// FindAll finds supplies with filtering; lines and batches are preloaded for
// list summaries, the one-row children are not
func (r *GormSupplyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]supply.Supply, error) {
	var docs []supply.Supply
	query := r.applyFilter(r.db.WithContext(ctx), filter)
	if err := query.Preload("Lines").Preload("Batches").Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to find supplies: %w", err)
	}
	return docs, nil
}

// Create inserts a new supply graph. The document number is generated inside
// the transaction; a concurrent intake can still mint the same candidate
// because its uncommitted row is invisible to the max-scan, so the unique
// index on document_number is the real guard and a conflict retries the
// whole transaction with a fresh number.
func (r *GormSupplyRepository) Create(ctx context.Context, s *supply.Supply) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, genErr := r.generateDocumentNumber(tx, time.Now())
			if genErr != nil {
				return genErr
			}
			if setErr := s.SetDocumentNumber(number); setErr != nil {
				return setErr
			}
			if createErr := tx.Create(s).Error; createErr != nil {
				return fmt.Errorf("failed to create supply: %w", createErr)
			}
			return nil
		})
		if err == nil || !isDocumentNumberConflict(err) {
			return err
		}
	}
	return fmt.Errorf("document number contention: %w", err)
}

// isDocumentNumberConflict reports whether the insert lost the race on the
// document_number unique index
func isDocumentNumberConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "idx_supplies_document_number") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// SaveWithLock updates a supply graph with an optimistic version check. The
// replaceable child collections (lines, batches, quality check items,
// documents, packaging items) are deleted and reinserted; the one-row
// children are upserted keyed on supply_id.
func (r *GormSupplyRepository) SaveWithLock(ctx context.Context, s *supply.Supply) error {
	currentVersion := s.Version - 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&supply.Supply{}).
			Where("id = ? AND version = ?", s.ID, currentVersion).
			Updates(map[string]interface{}{
				"warehouse_id":    s.WarehouseID,
				"supplier_id":     s.SupplierID,
				"supplier_name":   s.SupplierName,
				"received_at":     s.ReceivedAt,
				"receiver_id":     s.ReceiverID,
				"receiver_name":   s.ReceiverName,
				"document_status": s.DocumentStatus,
				"quality_status":  s.QualityStatus,
				"remarks":         s.Remarks,
				"version":         s.Version,
				"updated_at":      s.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update supply: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "Supply was modified by another process")
		}

		if err := r.replaceChildren(tx, s); err != nil {
			return err
		}
		return nil
	})
}

func (r *GormSupplyRepository) replaceChildren(tx *gorm.DB, s *supply.Supply) error {
	if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.SupplyLine{}).Error; err != nil {
		return fmt.Errorf("failed to delete supply lines: %w", err)
	}
	if len(s.Lines) > 0 {
		if err := tx.Create(&s.Lines).Error; err != nil {
			return fmt.Errorf("failed to save supply lines: %w", err)
		}
	}

	if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.SupplyBatch{}).Error; err != nil {
		return fmt.Errorf("failed to delete supply batches: %w", err)
	}
	if len(s.Batches) > 0 {
		if err := tx.Create(&s.Batches).Error; err != nil {
			return fmt.Errorf("failed to save supply batches: %w", err)
		}
	}

	if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.SupplyDocument{}).Error; err != nil {
		return fmt.Errorf("failed to delete supply documents: %w", err)
	}
	if len(s.Documents) > 0 {
		if err := tx.Create(&s.Documents).Error; err != nil {
			return fmt.Errorf("failed to save supply documents: %w", err)
		}
	}

	if err := r.replaceQualityCheck(tx, s); err != nil {
		return err
	}
	if err := r.replacePackagingCheck(tx, s); err != nil {
		return err
	}

	if s.VehicleInspection != nil {
		if err := upsertBySupply(tx, s.VehicleInspection); err != nil {
			return fmt.Errorf("failed to save vehicle inspection: %w", err)
		}
	} else if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.VehicleInspection{}).Error; err != nil {
		return fmt.Errorf("failed to delete vehicle inspection: %w", err)
	}

	if s.SignOff != nil {
		if err := upsertBySupply(tx, s.SignOff); err != nil {
			return fmt.Errorf("failed to save sign-off: %w", err)
		}
	} else if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.SupplierSignOff{}).Error; err != nil {
		return fmt.Errorf("failed to delete sign-off: %w", err)
	}

	return nil
}

func (r *GormSupplyRepository) replaceQualityCheck(tx *gorm.DB, s *supply.Supply) error {
	// items hang off the check id, not the supply id
	err := tx.Where("check_id IN (?)",
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&supply.QualityCheck{}).
			Select("id").
			Where("supply_id = ?", s.ID),
	).Delete(&supply.QualityCheckItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete quality check items: %w", err)
	}

	if s.QualityCheck == nil {
		if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.QualityCheck{}).Error; err != nil {
			return fmt.Errorf("failed to delete quality check: %w", err)
		}
		return nil
	}

	check := s.QualityCheck
	items := check.Items
	check.Items = nil
	if err := upsertBySupply(tx, check); err != nil {
		return fmt.Errorf("failed to save quality check: %w", err)
	}
	check.Items = items
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to save quality check items: %w", err)
		}
	}
	return nil
}

func (r *GormSupplyRepository) replacePackagingCheck(tx *gorm.DB, s *supply.Supply) error {
	err := tx.Where("check_id IN (?)",
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&supply.PackagingCheck{}).
			Select("id").
			Where("supply_id = ?", s.ID),
	).Delete(&supply.PackagingCheckItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete packaging check items: %w", err)
	}

	if s.PackagingCheck == nil {
		if err := tx.Where("supply_id = ?", s.ID).Delete(&supply.PackagingCheck{}).Error; err != nil {
			return fmt.Errorf("failed to delete packaging check: %w", err)
		}
		return nil
	}

	check := s.PackagingCheck
	items := check.Items
	check.Items = nil
	if err := upsertBySupply(tx, check); err != nil {
		return fmt.Errorf("failed to save packaging check: %w", err)
	}
	check.Items = items
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to save packaging check items: %w", err)
		}
	}
	return nil
}

// upsertBySupply inserts a one-row child, updating the existing row in place
// when the supply already has one
func upsertBySupply(tx *gorm.DB, value interface{}) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "supply_id"}},
		UpdateAll: true,
	}).Omit(clause.Associations).Create(value).Error
}

// Delete removes a supply and its children
func (r *GormSupplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("check_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&supply.QualityCheck{}).
				Select("id").
				Where("supply_id = ?", id),
		).Delete(&supply.QualityCheckItem{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete quality check items: %w", err)
		}
		err = tx.Where("check_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).
				Model(&supply.PackagingCheck{}).
				Select("id").
				Where("supply_id = ?", id),
		).Delete(&supply.PackagingCheckItem{}).Error
		if err != nil {
			return fmt.Errorf("failed to delete packaging check items: %w", err)
		}

		children := []interface{}{
			&supply.SupplyLine{},
			&supply.SupplyBatch{},
			&supply.QualityCheck{},
			&supply.SupplyDocument{},
			&supply.VehicleInspection{},
			&supply.PackagingCheck{},
			&supply.SupplierSignOff{},
		}
		for _, child := range children {
			if err := tx.Where("supply_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("failed to delete supply children: %w", err)
			}
		}

		if err := tx.Delete(&supply.Supply{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete supply: %w", err)
		}
		return nil
	})
}

// Count counts supplies matching the filter
func (r *GormSupplyRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&supply.Supply{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count supplies: %w", err)
	}
	return count, nil
}

// ExistsByDocumentNumber checks if a document number is taken
func (r *GormSupplyRepository) ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&supply.Supply{}).
		Where("document_number = ?", documentNumber).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check document number: %w", err)
	}
	return count > 0, nil
}

// generateDocumentNumber scans the highest document number for the day and
// assigns the next sequence, verifying uniqueness before committing to it
func (r *GormSupplyRepository) generateDocumentNumber(tx *gorm.DB, day time.Time) (string, error) {
	prefix := supply.DocumentNumberPrefix(day)

	var lastNumber string
	err := tx.Model(&supply.Supply{}).
		Select("document_number").
		Where("document_number LIKE ?", prefix+"%").
		Order("document_number DESC").
		Limit(1).
		Scan(&lastNumber).Error
	if err != nil {
		return "", fmt.Errorf("failed to query last document number: %w", err)
	}

	sequence := 1
	if lastNumber != "" {
		if seq, ok := supply.ParseDocumentSequence(lastNumber, prefix); ok {
			sequence = seq + 1
		}
	}

	for attempt := 0; attempt < 100; attempt++ {
		candidate := supply.FormatDocumentNumber(day, sequence)
		var count int64
		if err := tx.Model(&supply.Supply{}).Where("document_number = ?", candidate).Count(&count).Error; err != nil {
			return "", fmt.Errorf("failed to verify document number: %w", err)
		}
		if count == 0 {
			return candidate, nil
		}
		sequence++
	}

	return "", fmt.Errorf("failed to generate unique document number after 100 attempts")
}

func (r *GormSupplyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SupplySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	return query
}

func (r *GormSupplyRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("document_number ILIKE ? OR supplier_name ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "document_status":
			query = query.Where("document_status = ?", value)
		case "quality_status":
			query = query.Where("quality_status = ?", value)
		case "received_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("received_at >= ?", t)
			}
		case "received_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("received_at <= ?", t)
			}
		}
	}

	return query
}
