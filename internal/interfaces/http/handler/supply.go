package handler

import (
	"time"

	supplyapp "github.com/agrisupply/backend/internal/application/supply"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SupplyHandler handles supply receiving intake endpoints
type SupplyHandler struct {
	BaseHandler
	intakeService *supplyapp.SupplyIntakeService
}

// NewSupplyHandler creates a new SupplyHandler
func NewSupplyHandler(intakeService *supplyapp.SupplyIntakeService) *SupplyHandler {
	return &SupplyHandler{
		intakeService: intakeService,
	}
}

// listSuppliesQuery carries the supply list query parameters
type listSuppliesQuery struct {
	Search       string     `form:"search"`
	ReceivedFrom *time.Time `form:"received_from" time_format:"2006-01-02T15:04:05Z07:00"`
	ReceivedTo   *time.Time `form:"received_to" time_format:"2006-01-02T15:04:05Z07:00"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page         int        `form:"page"`
	PageSize     int        `form:"page_size" binding:"omitempty,max=100"`
}

// UploadURLRequest asks for a presigned upload URL for an attachment
// @Description Request body for generating a presigned upload URL
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255" example:"delivery-note.pdf"`
	ContentType string `json:"content_type" example:"application/pdf"`
}

// DownloadURLQuery asks for a presigned download URL for a stored object
type DownloadURLQuery struct {
	StorageKey string `form:"storage_key" binding:"required"`
}

// Submit godoc
// @ID           submitSupplyIntake
// @Summary      Submit a supply intake
// @Description  Persist a complete receiving intake (lines, batches, documents, inspections, quality checks, sign-off) in one transaction. The document number is assigned server-side.
// @Tags         supplies
// @Accept       json
// @Produce      json
// @Param        request body supplyapp.SubmitIntakeRequest true "Intake submission"
// @Success      201 {object} APIResponse[supplyapp.SupplyResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies [post]
func (h *SupplyHandler) Submit(c *gin.Context) {
	receiverID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req supplyapp.SubmitIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.intakeService.SubmitIntake(c.Request.Context(), receiverID, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, doc)
}

// Update godoc
// @ID           updateSupplyIntake
// @Summary      Update a supply intake
// @Description  Replace an existing intake with the submitted payload. The request version must match the stored version.
// @Tags         supplies
// @Accept       json
// @Produce      json
// @Param        id path string true "Supply ID" format(uuid)
// @Param        request body supplyapp.UpdateIntakeRequest true "Intake update"
// @Success      200 {object} APIResponse[supplyapp.SupplyResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/{id} [put]
func (h *SupplyHandler) Update(c *gin.Context) {
	receiverID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	var req supplyapp.UpdateIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.intakeService.UpdateIntake(c.Request.Context(), supplyID, receiverID, &req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetByID godoc
// @ID           getSupplyById
// @Summary      Get supply by ID
// @Description  Retrieve a supply with its full intake detail
// @Tags         supplies
// @Produce      json
// @Param        id path string true "Supply ID" format(uuid)
// @Success      200 {object} APIResponse[supplyapp.SupplyResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/{id} [get]
func (h *SupplyHandler) GetByID(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	doc, err := h.intakeService.GetSupply(c.Request.Context(), supplyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// GetByDocumentNumber godoc
// @ID           getSupplyByDocumentNumber
// @Summary      Get supply by document number
// @Description  Retrieve a supply by its server-assigned document number
// @Tags         supplies
// @Produce      json
// @Param        document_number path string true "Document number" example:"SUP-20260115-001"
// @Success      200 {object} APIResponse[supplyapp.SupplyResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/number/{document_number} [get]
func (h *SupplyHandler) GetByDocumentNumber(c *gin.Context) {
	documentNumber := c.Param("document_number")
	if documentNumber == "" {
		h.BadRequest(c, "Document number is required")
		return
	}

	doc, err := h.intakeService.GetSupplyByDocumentNumber(c.Request.Context(), documentNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, doc)
}

// List godoc
// @ID           listSupplies
// @Summary      List supplies
// @Description  Retrieve a paginated list of supplies with optional search and received-at date range
// @Tags         supplies
// @Produce      json
// @Param        search query string false "Search term (document number, supplier name)"
// @Param        received_from query string false "Received from (ISO 8601)" format(date-time)
// @Param        received_to query string false "Received to (ISO 8601)" format(date-time)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]supplyapp.SupplySummaryResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies [get]
func (h *SupplyHandler) List(c *gin.Context) {
	var query listSuppliesQuery
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

	result, err := h.intakeService.ListSupplies(c.Request.Context(), &supplyapp.ListSuppliesRequest{
		Page:         query.Page,
		PageSize:     query.PageSize,
		Search:       query.Search,
		ReceivedFrom: query.ReceivedFrom,
		ReceivedTo:   query.ReceivedTo,
		OrderBy:      query.OrderBy,
		OrderDir:     query.OrderDir,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Delete godoc
// @ID           deleteSupply
// @Summary      Delete a supply
// @Description  Remove a supply and all its intake children
// @Tags         supplies
// @Produce      json
// @Param        id path string true "Supply ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/{id} [delete]
func (h *SupplyHandler) Delete(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	if err := h.intakeService.DeleteSupply(c.Request.Context(), supplyID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// DocumentUploadURL godoc
// @ID           generateSupplyDocumentUploadUrl
// @Summary      Generate a document upload URL
// @Description  Issue a presigned URL for uploading a delivery document scan
// @Tags         supplies
// @Accept       json
// @Produce      json
// @Param        id path string true "Supply ID" format(uuid)
// @Param        request body UploadURLRequest true "Upload URL request"
// @Success      200 {object} APIResponse[supplyapp.UploadURLResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/{id}/documents/upload-url [post]
func (h *SupplyHandler) DocumentUploadURL(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.intakeService.GenerateDocumentUploadURL(c.Request.Context(), supplyID, &supplyapp.UploadURLRequest{
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SignatureUploadURL godoc
// @ID           generateSupplySignatureUploadUrl
// @Summary      Generate a signature upload URL
// @Description  Issue a presigned URL for uploading a supplier signature document
// @Tags         supplies
// @Accept       json
// @Produce      json
// @Param        id path string true "Supply ID" format(uuid)
// @Param        request body UploadURLRequest true "Upload URL request"
// @Success      200 {object} APIResponse[supplyapp.UploadURLResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/{id}/signature/upload-url [post]
func (h *SupplyHandler) SignatureUploadURL(c *gin.Context) {
	supplyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supply ID format")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.intakeService.GenerateSignatureUploadURL(c.Request.Context(), supplyID, &supplyapp.UploadURLRequest{
		FileName:    req.FileName,
		ContentType: req.ContentType,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// DownloadURL godoc
// @ID           generateSupplyDownloadUrl
// @Summary      Generate an attachment download URL
// @Description  Issue a presigned URL for downloading a stored attachment by its storage key
// @Tags         supplies
// @Produce      json
// @Param        storage_key query string true "Object storage key"
// @Success      200 {object} APIResponse[supplyapp.UploadURLResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /supplies/attachments/download-url [get]
func (h *SupplyHandler) DownloadURL(c *gin.Context) {
	var query DownloadURLQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, "Storage key is required")
		return
	}

	result, err := h.intakeService.GenerateDownloadURL(c.Request.Context(), query.StorageKey)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
