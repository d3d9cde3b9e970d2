package process

import (
	"time"

	"github.com/agrisupply/backend/internal/domain/process"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdvanceRequest moves a lot run to the next pipeline stage
type AdvanceRequest struct {
	Remarks string `json:"remarks,omitempty"`
	Version int    `json:"version"`
}

// ListRunsRequest carries lot run list filters
type ListRunsRequest struct {
	Page     int
	PageSize int
	Search   string
	Stage    string
	Status   string
}

// StageTransitionResponse mirrors one pipeline transition
type StageTransitionResponse struct {
	ID        uuid.UUID  `json:"id"`
	FromStage string     `json:"from_stage"`
	ToStage   string     `json:"to_stage"`
	MovedAt   time.Time  `json:"moved_at"`
	MovedBy   *uuid.UUID `json:"moved_by,omitempty"`
	Remarks   string     `json:"remarks,omitempty"`
}

// LotRunResponse mirrors a lot run with its transition history
type LotRunResponse struct {
	ID          uuid.UUID                 `json:"id"`
	BatchID     uuid.UUID                 `json:"batch_id"`
	SupplyID    uuid.UUID                 `json:"supply_id"`
	LotNumber   string                    `json:"lot_number"`
	ProductID   uuid.UUID                 `json:"product_id"`
	Quantity    decimal.Decimal           `json:"quantity"`
	Stage       string                    `json:"stage"`
	Status      string                    `json:"status"`
	StartedAt   time.Time                 `json:"started_at"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	Version     int                       `json:"version"`
	Transitions []StageTransitionResponse `json:"transitions"`
}

// PipelineResponse lists the fixed stage order
type PipelineResponse struct {
	Stages []string `json:"stages"`
}

// ToLotRunResponse maps a lot run to its response
func ToLotRunResponse(r *process.LotRun) *LotRunResponse {
	resp := &LotRunResponse{
		ID:          r.ID,
		BatchID:     r.BatchID,
		SupplyID:    r.SupplyID,
		LotNumber:   r.LotNumber,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		Stage:       r.Stage.String(),
		Status:      r.Status.String(),
		StartedAt:   r.StartedAt,
		CompletedAt: r.CompletedAt,
		Version:     r.Version,
		Transitions: make([]StageTransitionResponse, 0, len(r.Transitions)),
	}
	for i := range r.Transitions {
		t := r.Transitions[i]
		resp.Transitions = append(resp.Transitions, StageTransitionResponse{
			ID:        t.ID,
			FromStage: t.FromStage.String(),
			ToStage:   t.ToStage.String(),
			MovedAt:   t.MovedAt,
			MovedBy:   t.MovedBy,
			Remarks:   t.Remarks,
		})
	}
	return resp
}
