package process

import (
	"context"

	"github.com/agrisupply/backend/internal/domain/process"
	"github.com/agrisupply/backend/internal/domain/shared"
	"github.com/agrisupply/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LotRunService tracks accepted supply batches through the fixed production
// pipeline: one stage at a time, with hold and resume
type LotRunService struct {
	runs   process.LotRunRepository
	logger *zap.Logger
}

// NewLotRunService creates a new lot run service
func NewLotRunService(runs process.LotRunRepository, logger *zap.Logger) *LotRunService {
	return &LotRunService{runs: runs, logger: logger}
}

// GetPipeline returns the fixed stage order
func (s *LotRunService) GetPipeline() *PipelineResponse {
	stages := make([]string, 0, len(process.Pipeline))
	for _, stage := range process.Pipeline {
		stages = append(stages, stage.String())
	}
	return &PipelineResponse{Stages: stages}
}

// GetRun fetches one lot run with its transition history
func (s *LotRunService) GetRun(ctx context.Context, id uuid.UUID) (*LotRunResponse, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToLotRunResponse(run), nil
}

// GetRunByBatch fetches the run created for a supply batch
func (s *LotRunService) GetRunByBatch(ctx context.Context, batchID uuid.UUID) (*LotRunResponse, error) {
	run, err := s.runs.FindByBatchID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return ToLotRunResponse(run), nil
}

// ListRuns lists lot runs with stage and status filters
func (s *LotRunService) ListRuns(ctx context.Context, req *ListRunsRequest) (*shared.Paginated[LotRunResponse], error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 && req.PageSize <= 100 {
		filter.PageSize = req.PageSize
	}
	filter.Search = req.Search
	if req.Stage != "" {
		if !process.Stage(req.Stage).IsValid() {
			return nil, shared.NewDomainError("INVALID_STAGE", "Unknown pipeline stage")
		}
		filter.Filters["stage"] = req.Stage
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	runs, err := s.runs.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.runs.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]LotRunResponse, 0, len(runs))
	for i := range runs {
		items = append(items, *ToLotRunResponse(&runs[i]))
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AdvanceRun moves a run to the next pipeline stage with an optimistic
// version check; reaching the final stage completes the run
func (s *LotRunService) AdvanceRun(ctx context.Context, id uuid.UUID, movedBy uuid.UUID, req *AdvanceRequest) (*LotRunResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lot_run", "advance")
	defer span.End()

	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if run.Version != req.Version {
		telemetry.RecordError(span, shared.ErrConcurrencyConflict)
		return nil, shared.ErrConcurrencyConflict
	}

	if err := run.Advance(&movedBy, req.Remarks); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.runs.SaveWithLock(ctx, run); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrLotNumber, run.LotNumber)
	telemetry.SetAttribute(span, telemetry.SpanAttrStage, run.Stage.String())

	s.logger.Info("lot run advanced",
		zap.String("run_id", run.ID.String()),
		zap.String("lot_number", run.LotNumber),
		zap.String("stage", run.Stage.String()))

	return ToLotRunResponse(run), nil
}

// HoldRun pauses an active run
func (s *LotRunService) HoldRun(ctx context.Context, id uuid.UUID) (*LotRunResponse, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := run.Hold(); err != nil {
		return nil, err
	}
	if err := s.runs.SaveWithLock(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("lot run held",
		zap.String("run_id", run.ID.String()),
		zap.String("lot_number", run.LotNumber))

	return ToLotRunResponse(run), nil
}

// ResumeRun reactivates a held run
func (s *LotRunService) ResumeRun(ctx context.Context, id uuid.UUID) (*LotRunResponse, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := run.Resume(); err != nil {
		return nil, err
	}
	if err := s.runs.SaveWithLock(ctx, run); err != nil {
		return nil, err
	}

	s.logger.Info("lot run resumed",
		zap.String("run_id", run.ID.String()),
		zap.String("lot_number", run.LotNumber))

	return ToLotRunResponse(run), nil
}
