package handler

import (
	"strings"

	processapp "github.com/agrisupply/backend/internal/application/process"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LotRunHandler handles production pipeline lot run endpoints
type LotRunHandler struct {
	BaseHandler
	lotRunService *processapp.LotRunService
}

// NewLotRunHandler creates a new LotRunHandler
func NewLotRunHandler(lotRunService *processapp.LotRunService) *LotRunHandler {
	return &LotRunHandler{
		lotRunService: lotRunService,
	}
}

// listRunsQuery carries the lot run list query parameters
type listRunsQuery struct {
	Search   string `form:"search"`
	Stage    string `form:"stage"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE ON_HOLD COMPLETED active on_hold completed"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// AdvanceRunRequest moves a lot run to the next pipeline stage
// @Description Request body for advancing a lot run
type AdvanceRunRequest struct {
	Remarks string `json:"remarks" example:"Drying complete, moisture at 12%"`
	Version int    `json:"version" binding:"min=0" example:"2"`
}

// Pipeline godoc
// @ID           getProcessPipeline
// @Summary      Get the production pipeline
// @Description  Retrieve the fixed ordered list of production stages
// @Tags         process
// @Produce      json
// @Success      200 {object} APIResponse[processapp.PipelineResponse]
// @Failure      401 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/pipeline [get]
func (h *LotRunHandler) Pipeline(c *gin.Context) {
	h.Success(c, h.lotRunService.GetPipeline())
}

// List godoc
// @ID           listLotRuns
// @Summary      List lot runs
// @Description  Retrieve a paginated list of lot runs with optional stage and status filtering
// @Tags         process
// @Produce      json
// @Param        search query string false "Search term (lot number)"
// @Param        stage query string false "Pipeline stage"
// @Param        status query string false "Run status" Enums(ACTIVE, ON_HOLD, COMPLETED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]processapp.LotRunResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/runs [get]
func (h *LotRunHandler) List(c *gin.Context) {
	var query listRunsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = 20
	}

	result, err := h.lotRunService.ListRuns(c.Request.Context(), &processapp.ListRunsRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
		Search:   query.Search,
		Stage:    strings.ToUpper(query.Stage),
		Status:   strings.ToUpper(query.Status),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID godoc
// @ID           getLotRunById
// @Summary      Get lot run by ID
// @Description  Retrieve a lot run with its stage transition history
// @Tags         process
// @Produce      json
// @Param        id path string true "Lot run ID" format(uuid)
// @Success      200 {object} APIResponse[processapp.LotRunResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/runs/{id} [get]
func (h *LotRunHandler) GetByID(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID format")
		return
	}

	run, err := h.lotRunService.GetRun(c.Request.Context(), runID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, run)
}

// GetByBatch godoc
// @ID           getLotRunByBatch
// @Summary      Get lot run by batch
// @Description  Retrieve the lot run started from a supply batch
// @Tags         process
// @Produce      json
// @Param        batch_id path string true "Supply batch ID" format(uuid)
// @Success      200 {object} APIResponse[processapp.LotRunResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/runs/batch/{batch_id} [get]
func (h *LotRunHandler) GetByBatch(c *gin.Context) {
	batchID, err := uuid.Parse(c.Param("batch_id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	run, err := h.lotRunService.GetRunByBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, run)
}

// Advance godoc
// @ID           advanceLotRun
// @Summary      Advance a lot run
// @Description  Move a lot run to the next pipeline stage. The request version must match the stored version.
// @Tags         process
// @Accept       json
// @Produce      json
// @Param        id path string true "Lot run ID" format(uuid)
// @Param        request body AdvanceRunRequest true "Advance request"
// @Success      200 {object} APIResponse[processapp.LotRunResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/runs/{id}/advance [post]
func (h *LotRunHandler) Advance(c *gin.Context) {
	movedBy, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID format")
		return
	}

	var req AdvanceRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	run, err := h.lotRunService.AdvanceRun(c.Request.Context(), runID, movedBy, &processapp.AdvanceRequest{
		Remarks: req.Remarks,
		Version: req.Version,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, run)
}

// Hold godoc
// @ID           holdLotRun
// @Summary      Put a lot run on hold
// @Description  Pause an active lot run
// @Tags         process
// @Produce      json
// @Param        id path string true "Lot run ID" format(uuid)
// @Success      200 {object} APIResponse[processapp.LotRunResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/runs/{id}/hold [post]
func (h *LotRunHandler) Hold(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID format")
		return
	}

	run, err := h.lotRunService.HoldRun(c.Request.Context(), runID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, run)
}

// Resume godoc
// @ID           resumeLotRun
// @Summary      Resume a lot run
// @Description  Resume a lot run that is on hold
// @Tags         process
// @Produce      json
// @Param        id path string true "Lot run ID" format(uuid)
// @Success      200 {object} APIResponse[processapp.LotRunResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /process/runs/{id}/resume [post]
func (h *LotRunHandler) Resume(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID format")
		return
	}

	run, err := h.lotRunService.ResumeRun(c.Request.Context(), runID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, run)
}
