package supply

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Score bounds for quality check items. ScoreNA is a sentinel meaning the
// parameter was not applicable; it is excluded from the average.
const (
	ScoreMin = 1
	ScoreMax = 3
	ScoreNA  = 4
)

// QualityCheckItem is one scored quality parameter on a check
type QualityCheckItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	CheckID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ParameterID   uuid.UUID `gorm:"type:uuid;not null"`
	ParameterName string    `gorm:"type:varchar(200);not null"`
	Score         int       `gorm:"not null"`
	Remarks       string    `gorm:"type:varchar(500)"`
	Results       string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QualityCheckItem) TableName() string {
	return "supply_quality_check_items"
}

// NewQualityCheckItem creates a scored item for a quality parameter
func NewQualityCheckItem(checkID, parameterID uuid.UUID, parameterName string, score int, remarks, results string) (*QualityCheckItem, error) {
	if parameterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARAMETER", "Quality parameter ID cannot be empty")
	}
	if score < ScoreMin || score > ScoreNA {
		return nil, shared.NewDomainError("INVALID_SCORE", "Score must be between 1 and 3, or 4 for N/A")
	}

	now := time.Now()
	return &QualityCheckItem{
		ID:            uuid.New(),
		CheckID:       checkID,
		ParameterID:   parameterID,
		ParameterName: parameterName,
		Score:         score,
		Remarks:       remarks,
		Results:       results,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsApplicable reports whether the item carries a real score
func (i *QualityCheckItem) IsApplicable() bool {
	return i.Score != ScoreNA
}

// IsFailing reports whether the item scored below passing (N/A never fails)
func (i *QualityCheckItem) IsFailing() bool {
	return i.IsApplicable() && i.Score < ScoreMax
}

// QualityCheck is the inspection record for one supply; exactly one is kept
// per supply, replaced wholesale on edit
type QualityCheck struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key"`
	SupplyID  uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex"`
	CheckedBy *uuid.UUID         `gorm:"type:uuid"`
	CheckedAt time.Time          `gorm:"not null"`
	Remarks   string             `gorm:"type:varchar(500)"`
	Items     []QualityCheckItem `gorm:"foreignKey:CheckID;references:ID"`
	CreatedAt time.Time          `gorm:"not null"`
	UpdatedAt time.Time          `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QualityCheck) TableName() string {
	return "supply_quality_checks"
}

// NewQualityCheck creates an empty quality check for a supply
func NewQualityCheck(supplyID uuid.UUID, checkedBy *uuid.UUID, remarks string) *QualityCheck {
	now := time.Now()
	return &QualityCheck{
		ID:        uuid.New(),
		SupplyID:  supplyID,
		CheckedBy: checkedBy,
		CheckedAt: now,
		Remarks:   remarks,
		Items:     make([]QualityCheckItem, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddItem scores one quality parameter on this check
func (c *QualityCheck) AddItem(parameterID uuid.UUID, parameterName string, score int, remarks, results string) error {
	item, err := NewQualityCheckItem(c.ID, parameterID, parameterName, score, remarks, results)
	if err != nil {
		return err
	}
	c.Items = append(c.Items, *item)
	c.UpdatedAt = time.Now()
	return nil
}

// AverageScore averages the applicable scores, rounded to 2 decimals.
// Returns nil when no item carries a real score.
func (c *QualityCheck) AverageScore() *decimal.Decimal {
	sum := decimal.Zero
	count := 0
	for i := range c.Items {
		if c.Items[i].IsApplicable() {
			sum = sum.Add(decimal.NewFromInt(int64(c.Items[i].Score)))
			count++
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum.Div(decimal.NewFromInt(int64(count))).Round(2)
	return &avg
}

// HasFailingScore reports whether any applicable item scored below passing
func (c *QualityCheck) HasFailingScore() bool {
	for i := range c.Items {
		if c.Items[i].IsFailing() {
			return true
		}
	}
	return false
}
