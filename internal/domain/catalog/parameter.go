package catalog

import (
	"strings"
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
)

// QualityParameter is a named inspection criterion scored on intake
// (e.g. moisture, foreign matter)
type QualityParameter struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null;default:true"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (QualityParameter) TableName() string {
	return "quality_parameters"
}

// NewQualityParameter creates a new quality parameter
func NewQualityParameter(name, description string) (*QualityParameter, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Quality parameter name cannot be empty")
	}

	return &QualityParameter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		Active:            true,
	}, nil
}

// Deactivate removes the parameter from new quality checks
func (p *QualityParameter) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// ParameterKind distinguishes categorical packaging answers from numeric ones
type ParameterKind string

const (
	ParameterKindCategorical ParameterKind = "CATEGORICAL"
	ParameterKindNumeric     ParameterKind = "NUMERIC"
)

// IsValid checks if the value is a valid ParameterKind
func (k ParameterKind) IsValid() bool {
	return k == ParameterKindCategorical || k == ParameterKindNumeric
}

// PackagingParameter is a packaging checklist field recorded on intake
type PackagingParameter struct {
	shared.BaseAggregateRoot
	Name      string        `gorm:"type:varchar(200);not null;uniqueIndex"`
	Kind      ParameterKind `gorm:"type:varchar(20);not null"`
	Options   string        `gorm:"type:varchar(500)"` // comma-separated choices for categorical fields
	Active    bool          `gorm:"not null;default:true"`
	SortOrder int           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PackagingParameter) TableName() string {
	return "packaging_quality_parameters"
}

// NewPackagingParameter creates a new packaging parameter
func NewPackagingParameter(name string, kind ParameterKind, options string) (*PackagingParameter, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Packaging parameter name cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Parameter kind must be CATEGORICAL or NUMERIC")
	}
	if kind == ParameterKindCategorical && strings.TrimSpace(options) == "" {
		return nil, shared.NewDomainError("INVALID_OPTIONS", "Categorical parameters require options")
	}

	return &PackagingParameter{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Kind:              kind,
		Options:           options,
		Active:            true,
	}, nil
}
