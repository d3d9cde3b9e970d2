package handler

import (
	catalogapp "github.com/agrisupply/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WarehouseHandler handles warehouse catalog endpoints
type WarehouseHandler struct {
	BaseHandler
	referenceService *catalogapp.ReferenceService
}

// NewWarehouseHandler creates a new WarehouseHandler
func NewWarehouseHandler(referenceService *catalogapp.ReferenceService) *WarehouseHandler {
	return &WarehouseHandler{
		referenceService: referenceService,
	}
}

// CreateWarehouseRequest represents a request to create a warehouse
// @Description Request body for creating a warehouse
type CreateWarehouseRequest struct {
	Code     string `json:"code" binding:"required,min=1,max=50" example:"WH-MAIN"`
	Name     string `json:"name" binding:"required,min=1,max=200" example:"Main warehouse"`
	Location string `json:"location" example:"North site"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
// @Description Request body for updating a warehouse
type UpdateWarehouseRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200" example:"Main warehouse"`
	Location string `json:"location" example:"North site"`
	Active   *bool  `json:"active" example:"true"`
}

// Create godoc
// @ID           createWarehouse
// @Summary      Create a new warehouse
// @Description  Register a receiving warehouse
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body CreateWarehouseRequest true "Warehouse creation request"
// @Success      201 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.referenceService.CreateWarehouse(c.Request.Context(), &catalogapp.CreateWarehouseRequest{
		Code:     req.Code,
		Name:     req.Name,
		Location: req.Location,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, warehouse)
}

// List godoc
// @ID           listWarehouses
// @Summary      List warehouses
// @Description  Retrieve a paginated list of warehouses with optional search
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Search term (code, name)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.WarehouseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.setDefaults()

	result, err := h.referenceService.ListWarehouses(c.Request.Context(), query.Page, query.PageSize, query.Search)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateWarehouse
// @Summary      Update a warehouse
// @Description  Update a warehouse's mutable fields
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Warehouse ID" format(uuid)
// @Param        request body UpdateWarehouseRequest true "Warehouse update request"
// @Success      200 {object} APIResponse[catalogapp.WarehouseResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	warehouseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	var req UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	warehouse, err := h.referenceService.UpdateWarehouse(c.Request.Context(), warehouseID, &catalogapp.UpdateWarehouseRequest{
		Name:     req.Name,
		Location: req.Location,
		Active:   req.Active,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, warehouse)
}
