package handler

import (
	"strings"

	catalogapp "github.com/agrisupply/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	referenceService *catalogapp.ReferenceService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(referenceService *catalogapp.ReferenceService) *ProductHandler {
	return &ProductHandler{
		referenceService: referenceService,
	}
}

// CreateProductRequest represents a request to create a product
// @Description Request body for creating a product
type CreateProductRequest struct {
	Code        string  `json:"code" binding:"required,min=1,max=50" example:"RAW-WHEAT"`
	Name        string  `json:"name" binding:"required,min=1,max=200" example:"Raw wheat"`
	Description string  `json:"description" example:"Unprocessed wheat grain"`
	ProductType string  `json:"product_type" binding:"required,oneof=RAW PROCESSED PACKAGED raw processed packaged" example:"RAW"`
	UnitID      *string `json:"unit_id" example:"550e8400-e29b-41d4-a716-446655440001"`
}

// UpdateProductRequest represents a request to update a product
// @Description Request body for updating a product
type UpdateProductRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=200" example:"Raw wheat"`
	Description string  `json:"description" example:"Unprocessed wheat grain"`
	UnitID      *string `json:"unit_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Active      *bool   `json:"active" example:"true"`
}

// listProductsQuery carries the product list query parameters
type listProductsQuery struct {
	Search      string `form:"search"`
	ProductType string `form:"product_type" binding:"omitempty,oneof=RAW PROCESSED PACKAGED raw processed packaged"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size" binding:"omitempty,max=100"`
}

// Create godoc
// @ID           createProduct
// @Summary      Create a new product
// @Description  Register a product in the catalog
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product creation request"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.CreateProductRequest{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		ProductType: strings.ToUpper(req.ProductType),
	}
	if req.UnitID != nil && *req.UnitID != "" {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID format")
			return
		}
		appReq.UnitID = &unitID
	}

	product, err := h.referenceService.CreateProduct(c.Request.Context(), &appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// GetByID godoc
// @ID           getProductById
// @Summary      Get product by ID
// @Description  Retrieve a product by its ID
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.referenceService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Retrieve a paginated list of products with optional search and type filtering
// @Tags         catalog
// @Produce      json
// @Param        search query string false "Search term (code, name)"
// @Param        product_type query string false "Product type" Enums(RAW, PROCESSED, PACKAGED)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query listProductsQuery
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

	result, err := h.referenceService.ListProducts(c.Request.Context(), query.Page, query.PageSize, query.Search, strings.ToUpper(query.ProductType))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Description  Update a product's mutable fields
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body UpdateProductRequest true "Product update request"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := catalogapp.UpdateProductRequest{
		Name:        req.Name,
		Description: req.Description,
		Active:      req.Active,
	}
	if req.UnitID != nil && *req.UnitID != "" {
		unitID, err := uuid.Parse(*req.UnitID)
		if err != nil {
			h.BadRequest(c, "Invalid unit ID format")
			return
		}
		appReq.UnitID = &unitID
	}

	product, err := h.referenceService.UpdateProduct(c.Request.Context(), productID, &appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Remove a product from the catalog
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /catalog/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	if err := h.referenceService.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
