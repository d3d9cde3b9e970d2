package handler

import (
	"time"

	partnerapp "github.com/agrisupply/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplierHandler handles supplier management endpoints
type SupplierHandler struct {
	BaseHandler
	supplierService *partnerapp.SupplierService
	coaService      *partnerapp.COAService
}

// NewSupplierHandler creates a new SupplierHandler
func NewSupplierHandler(supplierService *partnerapp.SupplierService, coaService *partnerapp.COAService) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		coaService:      coaService,
	}
}

// CreateSupplierRequest represents a request to create a supplier
// @Description Request body for creating a supplier
type CreateSupplierRequest struct {
	Code          string `json:"code" binding:"required,min=1,max=50" example:"SUPP-001"`
	Name          string `json:"name" binding:"required,min=1,max=200" example:"Green Fields Co."`
	ContactPerson string `json:"contact_person" example:"John Smith"`
	Phone         string `json:"phone" example:"+1-555-0100"`
	Email         string `json:"email" binding:"omitempty,email" example:"sales@greenfields.example"`
	Address       string `json:"address" example:"12 Farm Road"`
}

// UpdateSupplierRequest represents a request to update a supplier
// @Description Request body for updating a supplier
type UpdateSupplierRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200" example:"Green Fields Co."`
	ContactPerson string `json:"contact_person" example:"John Smith"`
	Phone         string `json:"phone" example:"+1-555-0100"`
	Email         string `json:"email" binding:"omitempty,email" example:"sales@greenfields.example"`
	Address       string `json:"address" example:"12 Farm Road"`
	Active        *bool  `json:"active" example:"true"`
}

// CreateCOARequest represents a request to register a certificate of analysis
// @Description Request body for registering a supplier certificate of analysis
type CreateCOARequest struct {
	CertificateNumber string     `json:"certificate_number" binding:"required,min=1,max=100" example:"COA-2026-0042"`
	IssuedAt          time.Time  `json:"issued_at" binding:"required" example:"2026-01-10T00:00:00Z"`
	ExpiresAt         *time.Time `json:"expires_at" example:"2027-01-10T00:00:00Z"`
	FilePath          string     `json:"file_path" example:"suppliers/coa/certificate.pdf"`
	Remarks           string     `json:"remarks" example:"Annual certificate"`
}

// COAUploadURLRequest represents a request for a certificate upload URL
// @Description Request body for generating a presigned certificate upload URL
type COAUploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255" example:"coa-2026.pdf"`
	ContentType string `json:"content_type" example:"application/pdf"`
}

// Create godoc
// @ID           createSupplier
// @Summary      Create a new supplier
// @Description  Register a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body CreateSupplierRequest true "Supplier creation request"
// @Success      201 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers [post]
func (h *SupplierHandler) Create(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &partnerapp.CreateSupplierRequest{
		Code:          req.Code,
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, supplier)
}

// GetByID godoc
// @ID           getSupplierById
// @Summary      Get supplier by ID
// @Description  Retrieve a supplier by its ID
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// List godoc
// @ID           listSuppliers
// @Summary      List suppliers
// @Description  Retrieve a paginated list of suppliers with optional search
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Search term (code, name, contact person)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]partnerapp.SupplierResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers [get]
func (h *SupplierHandler) List(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	query.setDefaults()

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), query.Page, query.PageSize, query.Search)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateSupplier
// @Summary      Update a supplier
// @Description  Update a supplier's mutable fields
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body UpdateSupplierRequest true "Supplier update request"
// @Success      200 {object} APIResponse[partnerapp.SupplierResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), supplierID, &partnerapp.UpdateSupplierRequest{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		Active:        req.Active,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, supplier)
}

// Delete godoc
// @ID           deleteSupplier
// @Summary      Delete a supplier
// @Description  Remove a supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), supplierID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateCOA godoc
// @ID           createSupplierCoa
// @Summary      Register a certificate of analysis
// @Description  Attach a certificate of analysis to a supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body CreateCOARequest true "Certificate registration request"
// @Success      201 {object} APIResponse[partnerapp.COAResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id}/coas [post]
func (h *SupplierHandler) CreateCOA(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req CreateCOARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	coa, err := h.coaService.CreateCOA(c.Request.Context(), supplierID, &partnerapp.CreateCOARequest{
		CertificateNumber: req.CertificateNumber,
		IssuedAt:          req.IssuedAt,
		ExpiresAt:         req.ExpiresAt,
		FilePath:          req.FilePath,
		Remarks:           req.Remarks,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, coa)
}

// COAUploadURL godoc
// @ID           generateCoaUploadUrl
// @Summary      Generate a certificate upload URL
// @Description  Issue a presigned PUT URL for uploading a certificate scan; the returned storage key goes into the certificate's file_path
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body COAUploadURLRequest true "Upload URL request"
// @Success      200 {object} APIResponse[partnerapp.COAUploadURLResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id}/coas/upload-url [post]
func (h *SupplierHandler) COAUploadURL(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	var req COAUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.coaService.GenerateCOAUploadURL(c.Request.Context(), supplierID, &partnerapp.COAUploadURLRequest{
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListCOAs godoc
// @ID           listSupplierCoas
// @Summary      List certificates of analysis
// @Description  Retrieve a supplier's certificates, newest first
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[[]partnerapp.COAResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id}/coas [get]
func (h *SupplierHandler) ListCOAs(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	coas, err := h.coaService.ListCOAs(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, coas)
}

// COAStatus godoc
// @ID           getSupplierCoaStatus
// @Summary      Get certificate compliance status
// @Description  Retrieve the supplier's current certificate verdict as shown on the intake form
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} APIResponse[partnerapp.COAStatusResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id}/coas/status [get]
func (h *SupplierHandler) COAStatus(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	status, err := h.coaService.GetCOAStatus(c.Request.Context(), supplierID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, status)
}

// DeleteCOA godoc
// @ID           deleteSupplierCoa
// @Summary      Delete a certificate of analysis
// @Description  Remove a certificate of analysis
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        coa_id path string true "Certificate ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /partner/suppliers/{id}/coas/{coa_id} [delete]
func (h *SupplierHandler) DeleteCOA(c *gin.Context) {
	coaID, err := uuid.Parse(c.Param("coa_id"))
	if err != nil {
		h.BadRequest(c, "Invalid certificate ID format")
		return
	}

	if err := h.coaService.DeleteCOA(c.Request.Context(), coaID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
