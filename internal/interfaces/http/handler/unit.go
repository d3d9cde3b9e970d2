package handler

import (
	catalogapp "github.com/agrisupply/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// UnitHandler handles measurement unit catalog endpoints
type UnitHandler struct {
	BaseHandler
	referenceService *catalogapp.ReferenceService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(referenceService *catalogapp.ReferenceService) *UnitHandler {
	return &UnitHandler{
		referenceService: referenceService,
	}
}

// CreateUnitRequest represents a request to create a measurement unit
// @Description Request body for creating a unit
type CreateUnitRequest struct {
	Code string `json:"code" binding:"required,min=1,max=20" example:"kg"`
	Name string `json:"name" binding:"required,min=1,max=100" example:"Kilogram"`
}

// Create godoc
// @ID           createUnit
// @Summary      Create a new unit
// @Description  Register a measurement unit
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body CreateUnitRequest true "Unit creation request"
// @Success      201 {object} APIResponse[catalogapp.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/units [post]
func (h *UnitHandler) Create(c *gin.Context) {
	var req CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.referenceService.CreateUnit(c.Request.Context(), &catalogapp.CreateUnitRequest{
		Code: req.Code,
		Name: req.Name,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, unit)
}

// List godoc
// @ID           listUnits
// @Summary      List units
// @Description  Retrieve a paginated list of measurement units with optional search
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Search term (code, name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.UnitResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/units [get]
func (h *UnitHandler) List(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.setDefaults()

	result, err := h.referenceService.ListUnits(c.Request.Context(), query.Page, query.PageSize, query.Search)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
