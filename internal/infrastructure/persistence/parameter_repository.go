package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrisupply/backend/internal/domain/catalog"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQualityParameterRepository implements catalog.QualityParameterRepository using GORM
type GormQualityParameterRepository struct {
	db *gorm.DB
}

// NewGormQualityParameterRepository creates a new GORM quality parameter repository
func NewGormQualityParameterRepository(db *gorm.DB) *GormQualityParameterRepository {
	return &GormQualityParameterRepository{db: db}
}

// FindByID finds a quality parameter by ID
func (r *GormQualityParameterRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.QualityParameter, error) {
	var parameter catalog.QualityParameter
	if err := r.db.WithContext(ctx).First(&parameter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find quality parameter: %w", err)
	}
	return &parameter, nil
}

// FindAllActive finds active quality parameters in checklist order
func (r *GormQualityParameterRepository) FindAllActive(ctx context.Context) ([]catalog.QualityParameter, error) {
	var parameters []catalog.QualityParameter
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&parameters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find quality parameters: %w", err)
	}
	return parameters, nil
}

// FindAll finds quality parameters with filtering
func (r *GormQualityParameterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.QualityParameter, error) {
	var parameters []catalog.QualityParameter
	query := applyParameterFilter(r.db.WithContext(ctx), filter)
	if err := query.Find(&parameters).Error; err != nil {
		return nil, fmt.Errorf("failed to find quality parameters: %w", err)
	}
	return parameters, nil
}

// Save creates or updates a quality parameter
func (r *GormQualityParameterRepository) Save(ctx context.Context, parameter *catalog.QualityParameter) error {
	if err := r.db.WithContext(ctx).Save(parameter).Error; err != nil {
		return fmt.Errorf("failed to save quality parameter: %w", err)
	}
	return nil
}

// Delete removes a quality parameter
func (r *GormQualityParameterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&catalog.QualityParameter{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete quality parameter: %w", err)
	}
	return nil
}

// Count counts quality parameters matching the filter
func (r *GormQualityParameterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyParameterFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.QualityParameter{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count quality parameters: %w", err)
	}
	return count, nil
}

// GormPackagingParameterRepository implements catalog.PackagingParameterRepository using GORM
type GormPackagingParameterRepository struct {
	db *gorm.DB
}

// NewGormPackagingParameterRepository creates a new GORM packaging parameter repository
func NewGormPackagingParameterRepository(db *gorm.DB) *GormPackagingParameterRepository {
	return &GormPackagingParameterRepository{db: db}
}

// FindByID finds a packaging parameter by ID
func (r *GormPackagingParameterRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.PackagingParameter, error) {
	var parameter catalog.PackagingParameter
	if err := r.db.WithContext(ctx).First(&parameter, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find packaging parameter: %w", err)
	}
	return &parameter, nil
}

// FindAllActive finds active packaging parameters in checklist order
func (r *GormPackagingParameterRepository) FindAllActive(ctx context.Context) ([]catalog.PackagingParameter, error) {
	var parameters []catalog.PackagingParameter
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&parameters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find packaging parameters: %w", err)
	}
	return parameters, nil
}

// FindAll finds packaging parameters with filtering
func (r *GormPackagingParameterRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.PackagingParameter, error) {
	var parameters []catalog.PackagingParameter
	query := applyParameterFilter(r.db.WithContext(ctx), filter)
	if err := query.Find(&parameters).Error; err != nil {
		return nil, fmt.Errorf("failed to find packaging parameters: %w", err)
	}
	return parameters, nil
}

// Save creates or updates a packaging parameter
func (r *GormPackagingParameterRepository) Save(ctx context.Context, parameter *catalog.PackagingParameter) error {
	if err := r.db.WithContext(ctx).Save(parameter).Error; err != nil {
		return fmt.Errorf("failed to save packaging parameter: %w", err)
	}
	return nil
}

// Delete removes a packaging parameter
func (r *GormPackagingParameterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Delete(&catalog.PackagingParameter{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete packaging parameter: %w", err)
	}
	return nil
}

// Count counts packaging parameters matching the filter
func (r *GormPackagingParameterRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyParameterFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.PackagingParameter{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count packaging parameters: %w", err)
	}
	return count, nil
}

func applyParameterFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applyParameterFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ParameterSortFields, "sort_order")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "sort_order" {
		orderDir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	return query
}

func applyParameterFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if value, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", value)
	}

	return query
}
