package handler

import (
	"strings"

	catalogapp "github.com/agrisupply/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParameterHandler handles quality and packaging parameter endpoints
type ParameterHandler struct {
	BaseHandler
	referenceService *catalogapp.ReferenceService
}

// NewParameterHandler creates a new ParameterHandler
func NewParameterHandler(referenceService *catalogapp.ReferenceService) *ParameterHandler {
	return &ParameterHandler{
		referenceService: referenceService,
	}
}

// CreateQualityParameterRequest represents a request to create a quality parameter
// @Description Request body for creating a quality inspection parameter
type CreateQualityParameterRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200" example:"Moisture content"`
	Description string `json:"description" example:"Visual and instrumental moisture assessment"`
	SortOrder   int    `json:"sort_order" example:"10"`
}

// CreatePackagingParameterRequest represents a request to create a packaging parameter
// @Description Request body for creating a packaging quality parameter
type CreatePackagingParameterRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200" example:"Bag integrity"`
	Kind      string `json:"kind" binding:"required,oneof=CATEGORICAL NUMERIC categorical numeric" example:"CATEGORICAL"`
	Options   string `json:"options" example:"intact,torn"` // comma-separated choices for categorical parameters
	SortOrder int    `json:"sort_order" example:"10"`
}

// CreateQuality godoc
// @ID           createQualityParameter
// @Summary      Create a quality parameter
// @Description  Register a quality inspection parameter used on the intake checklist
// @Tags         parameters
// @Accept       json
// @Produce      json
// @Param        request body CreateQualityParameterRequest true "Quality parameter creation request"
// @Success      201 {object} APIResponse[catalogapp.QualityParameterResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/quality-parameters [post]
func (h *ParameterHandler) CreateQuality(c *gin.Context) {
	var req CreateQualityParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	param, err := h.referenceService.CreateQualityParameter(c.Request.Context(), &catalogapp.CreateQualityParameterRequest{
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, param)
}

// ListQuality godoc
// @ID           listQualityParameters
// @Summary      List quality parameters
// @Description  Retrieve the active quality inspection parameters in display order
// @Tags         parameters
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.QualityParameterResponse]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/quality-parameters [get]
func (h *ParameterHandler) ListQuality(c *gin.Context) {
	params, err := h.referenceService.ListQualityParameters(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, params)
}

// DeactivateQuality godoc
// @ID           deactivateQualityParameter
// @Summary      Deactivate a quality parameter
// @Description  Remove a quality parameter from the intake checklist without deleting historic scores
// @Tags         parameters
// @Produce      json
// @Param        id path string true "Parameter ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/quality-parameters/{id}/deactivate [post]
func (h *ParameterHandler) DeactivateQuality(c *gin.Context) {
	paramID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid parameter ID format")
		return
	}

	if err := h.referenceService.DeactivateQualityParameter(c.Request.Context(), paramID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CreatePackaging godoc
// @ID           createPackagingParameter
// @Summary      Create a packaging parameter
// @Description  Register a packaging quality parameter used on the intake checklist
// @Tags         parameters
// @Accept       json
// @Produce      json
// @Param        request body CreatePackagingParameterRequest true "Packaging parameter creation request"
// @Success      201 {object} APIResponse[catalogapp.PackagingParameterResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/packaging-parameters [post]
func (h *ParameterHandler) CreatePackaging(c *gin.Context) {
	var req CreatePackagingParameterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	param, err := h.referenceService.CreatePackagingParameter(c.Request.Context(), &catalogapp.CreatePackagingParameterRequest{
		Name:      req.Name,
		Kind:      strings.ToUpper(req.Kind),
		Options:   req.Options,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, param)
}

// ListPackaging godoc
// @ID           listPackagingParameters
// @Summary      List packaging parameters
// @Description  Retrieve the active packaging quality parameters in display order
// @Tags         parameters
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.PackagingParameterResponse]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/packaging-parameters [get]
func (h *ParameterHandler) ListPackaging(c *gin.Context) {
	params, err := h.referenceService.ListPackagingParameters(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, params)
}
