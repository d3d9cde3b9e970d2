package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrisupply/backend/internal/domain/process"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLotRunRepository implements process.LotRunRepository using GORM
type GormLotRunRepository struct {
	db *gorm.DB
}

// NewGormLotRunRepository creates a new GORM lot run repository
func NewGormLotRunRepository(db *gorm.DB) *GormLotRunRepository {
	return &GormLotRunRepository{db: db}
}

// FindByID finds a lot run by ID with transitions preloaded
func (r *GormLotRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*process.LotRun, error) {
	var run process.LotRun
	err := r.db.WithContext(ctx).
		Preload("Transitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("moved_at ASC")
		}).
		First(&run, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lot run: %w", err)
	}
	return &run, nil
}

// FindByBatchID finds the run created for a supply batch
func (r *GormLotRunRepository) FindByBatchID(ctx context.Context, batchID uuid.UUID) (*process.LotRun, error) {
	var run process.LotRun
	err := r.db.WithContext(ctx).
		Preload("Transitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("moved_at ASC")
		}).
		First(&run, "batch_id = ?", batchID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lot run: %w", err)
	}
	return &run, nil
}

// FindByLotNumber finds the run for a lot number
func (r *GormLotRunRepository) FindByLotNumber(ctx context.Context, lotNumber string) (*process.LotRun, error) {
	var run process.LotRun
	err := r.db.WithContext(ctx).
		Preload("Transitions", func(db *gorm.DB) *gorm.DB {
			return db.Order("moved_at ASC")
		}).
		First(&run, "lot_number = ?", lotNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lot run: %w", err)
	}
	return &run, nil
}

// FindAll finds lot runs with filtering
func (r *GormLotRunRepository) FindAll(ctx context.Context, filter shared.Filter) ([]process.LotRun, error) {
	var runs []process.LotRun
	query := r.applyFilter(r.db.WithContext(ctx), filter)
	if err := query.Preload("Transitions").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to find lot runs: %w", err)
	}
	return runs, nil
}

// Save creates or updates a lot run and its transitions
func (r *GormLotRunRepository) Save(ctx context.Context, run *process.LotRun) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Transitions").Save(run).Error; err != nil {
			return fmt.Errorf("failed to save lot run: %w", err)
		}
		return r.saveTransitions(tx, run)
	})
}

// SaveWithLock saves a lot run with an optimistic version check
func (r *GormLotRunRepository) SaveWithLock(ctx context.Context, run *process.LotRun) error {
	currentVersion := run.Version - 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&process.LotRun{}).
			Where("id = ? AND version = ?", run.ID, currentVersion).
			Updates(map[string]interface{}{
				"batch_id":     run.BatchID,
				"stage":        run.Stage,
				"status":       run.Status,
				"quantity":     run.Quantity,
				"completed_at": run.CompletedAt,
				"version":      run.Version,
				"updated_at":   run.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update lot run: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "Lot run was modified by another process")
		}
		return r.saveTransitions(tx, run)
	})
}

// saveTransitions appends new transitions; existing rows are never rewritten,
// the transition log is append-only
func (r *GormLotRunRepository) saveTransitions(tx *gorm.DB, run *process.LotRun) error {
	if len(run.Transitions) == 0 {
		return nil
	}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&run.Transitions).Error
	if err != nil {
		return fmt.Errorf("failed to save stage transitions: %w", err)
	}
	return nil
}

// Count counts lot runs matching the filter
func (r *GormLotRunRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&process.LotRun{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count lot runs: %w", err)
	}
	return count, nil
}

func (r *GormLotRunRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, LotRunSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	return query
}

func (r *GormLotRunRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("lot_number ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "supply_id":
			query = query.Where("supply_id = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "stage":
			query = query.Where("stage = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}
