package process

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is one step of the fixed production pipeline
type Stage string

const (
	StageReceiving      Stage = "RECEIVING"
	StageCleaning       Stage = "CLEANING"
	StageDrying         Stage = "DRYING"
	StageCooling        Stage = "COOLING"
	StageMetalDetection Stage = "METAL_DETECTION"
	StagePacking        Stage = "PACKING"
	StageAllocation     Stage = "ALLOCATION"
)

// Pipeline is the fixed stage order; lots advance through it one stage at a
// time with no branching
var Pipeline = []Stage{
	StageReceiving,
	StageCleaning,
	StageDrying,
	StageCooling,
	StageMetalDetection,
	StagePacking,
	StageAllocation,
}

// IsValid checks if the value is a valid Stage
func (s Stage) IsValid() bool {
	for _, stage := range Pipeline {
		if s == stage {
			return true
		}
	}
	return false
}

// String returns the string representation of Stage
func (s Stage) String() string {
	return string(s)
}

// Next returns the following pipeline stage, or false at the end
func (s Stage) Next() (Stage, bool) {
	for i, stage := range Pipeline {
		if s == stage {
			if i+1 < len(Pipeline) {
				return Pipeline[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// RunStatus represents the lifecycle state of a lot run
type RunStatus string

const (
	RunStatusActive    RunStatus = "ACTIVE"
	RunStatusOnHold    RunStatus = "ON_HOLD"
	RunStatusCompleted RunStatus = "COMPLETED"
)

// String returns the string representation of RunStatus
func (s RunStatus) String() string {
	return string(s)
}

// StageTransition records one advance through the pipeline for audit
type StageTransition struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	LotRunID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStage Stage     `gorm:"type:varchar(30);not null"`
	ToStage   Stage     `gorm:"type:varchar(30);not null"`
	MovedAt   time.Time `gorm:"not null"`
	MovedBy   *uuid.UUID `gorm:"type:uuid"`
	Remarks   string    `gorm:"type:varchar(500)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StageTransition) TableName() string {
	return "process_stage_transitions"
}

// LotRun tracks one accepted supply batch through the production pipeline.
// Runs are created best-effort when an intake commits; a failed creation
// never fails the intake.
type LotRun struct {
	shared.BaseAggregateRoot
	BatchID     uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	SupplyID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	LotNumber   string            `gorm:"type:varchar(100);not null;uniqueIndex"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	Quantity    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Stage       Stage             `gorm:"type:varchar(30);not null;default:'RECEIVING'"`
	Status      RunStatus         `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
	StartedAt   time.Time         `gorm:"not null"`
	CompletedAt *time.Time
	Transitions []StageTransition `gorm:"foreignKey:LotRunID;references:ID"`
}

// TableName returns the table name for GORM
func (LotRun) TableName() string {
	return "process_lot_runs"
}

// NewLotRun starts a run at the RECEIVING stage for an accepted batch
func NewLotRun(batchID, supplyID uuid.UUID, lotNumber string, productID uuid.UUID, quantity decimal.Decimal) (*LotRun, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if lotNumber == "" {
		return nil, shared.NewDomainError("INVALID_LOT", "Lot number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Run quantity must be positive")
	}

	return &LotRun{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		SupplyID:          supplyID,
		LotNumber:         lotNumber,
		ProductID:         productID,
		Quantity:          quantity,
		Stage:             StageReceiving,
		Status:            RunStatusActive,
		StartedAt:         time.Now(),
		Transitions:       make([]StageTransition, 0),
	}, nil
}

// ReattachBatch re-points the run at a replacement supply batch. Editing an
// intake replaces its batch rows wholesale, so the run for a lot must follow
// the new row ID (and any corrected quantity) or it would reference a deleted
// batch.
func (r *LotRun) ReattachBatch(batchID uuid.UUID, quantity decimal.Decimal) error {
	if batchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Run quantity must be positive")
	}

	r.BatchID = batchID
	r.Quantity = quantity
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Advance moves the run to the next pipeline stage. Reaching ALLOCATION
// completes the run. Held and completed runs cannot advance.
func (r *LotRun) Advance(movedBy *uuid.UUID, remarks string) error {
	if r.Status == RunStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Run has already completed the pipeline")
	}
	if r.Status == RunStatusOnHold {
		return shared.NewDomainError("INVALID_STATE", "Run is on hold; resume it before advancing")
	}

	next, ok := r.Stage.Next()
	if !ok {
		return shared.NewDomainError("INVALID_STATE", "Run is already at the final stage")
	}

	now := time.Now()
	r.Transitions = append(r.Transitions, StageTransition{
		ID:        uuid.New(),
		LotRunID:  r.ID,
		FromStage: r.Stage,
		ToStage:   next,
		MovedAt:   now,
		MovedBy:   movedBy,
		Remarks:   remarks,
		CreatedAt: now,
	})
	r.Stage = next
	if next == StageAllocation {
		r.Status = RunStatusCompleted
		r.CompletedAt = &now
	}
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// Hold pauses an active run
func (r *LotRun) Hold() error {
	if r.Status != RunStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active runs can be put on hold")
	}

	r.Status = RunStatusOnHold
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Resume reactivates a held run
func (r *LotRun) Resume() error {
	if r.Status != RunStatusOnHold {
		return shared.NewDomainError("INVALID_STATE", "Only held runs can be resumed")
	}

	r.Status = RunStatusActive
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}
