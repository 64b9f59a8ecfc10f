package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsigning "github.com/signly/backend/internal/application/signing"
	"github.com/signly/backend/internal/domain/shared"
)

// maxUploadSize caps a single uploaded document file
const maxUploadSize = 15 << 20 // 15MB

// DocumentHandler handles the owner-facing document lifecycle endpoints
type DocumentHandler struct {
	BaseHandler
	documents *appsigning.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents *appsigning.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// RegisterRoutes registers document routes on the API group
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	docs := rg.Group("/documents")
	{
		docs.POST("", h.Create)
		docs.GET("", h.List)
		docs.GET("/:id", h.Get)
		docs.GET("/:id/download", h.DownloadURL)
		docs.PUT("/:id/alias", h.UpdateAlias)
		docs.PUT("/:id/areas", h.UpdateAreas)
		docs.DELETE("/:id", h.Delete)
	}
}

// UpdateAliasRequest sets or clears a document's display name
type UpdateAliasRequest struct {
	Alias string `json:"alias" binding:"max=255"`
}

// UpdateAreasRequest replaces a draft document's signature areas
type UpdateAreasRequest struct {
	Areas []AreaRequest `json:"areas" binding:"required,dive"`
}

// AreaRequest places one signature area in page-relative percentages
type AreaRequest struct {
	X      float64 `json:"x" binding:"min=0,max=100"`
	Y      float64 `json:"y" binding:"min=0,max=100"`
	Width  float64 `json:"width" binding:"required,gt=0,max=100"`
	Height float64 `json:"height" binding:"required,gt=0,max=100"`
}

// Create uploads a file (multipart field "file", optional "alias") and
// creates a draft document
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return
	}
	if fileHeader.Size > maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > maxUploadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Uploaded file exceeds the size limit")
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), userID, appsigning.CreateDocumentInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
		Alias:       c.PostForm("alias"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ToDocumentResponse(doc))
}

// List returns the caller's documents, paginated
func (h *DocumentHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := parseListFilter(c)
	docs, total, err := h.documents.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]DocumentResponse, 0, len(docs))
	for i := range docs {
		items = append(items, ToDocumentResponse(&docs[i]))
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get returns one document with its signature areas
func (h *DocumentHandler) Get(c *gin.Context) {
	userID, documentID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	bundle, err := h.documents.GetWithAreas(c.Request.Context(), userID, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDocumentWithAreasResponse(*bundle))
}

// DownloadURL returns a presigned URL for the original or signed file
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	userID, documentID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	url, expiresAt, err := h.documents.DownloadURL(c.Request.Context(), userID, documentID, 15*time.Minute)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DownloadURLResponse{URL: url, ExpiresAt: expiresAt})
}

// UpdateAlias sets or clears the document's display name
func (h *DocumentHandler) UpdateAlias(c *gin.Context) {
	userID, documentID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req UpdateAliasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documents.Rename(c.Request.Context(), userID, documentID, req.Alias)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToDocumentResponse(doc))
}

// UpdateAreas replaces the draft document's signature areas
func (h *DocumentHandler) UpdateAreas(c *gin.Context) {
	userID, documentID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req UpdateAreasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	inputs := make([]appsigning.AreaInput, 0, len(req.Areas))
	for _, a := range req.Areas {
		inputs = append(inputs, appsigning.AreaInput{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height})
	}

	areas, err := h.documents.UpdateAreas(c.Request.Context(), userID, documentID, inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resp := make([]AreaResponse, 0, len(areas))
	for _, a := range areas {
		resp = append(resp, ToAreaResponse(a))
	}
	h.Success(c, resp)
}

// Delete removes a document per its lifecycle rules
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, documentID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), userID, documentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ownerAndID extracts the authenticated user and the :id path parameter
func (h *DocumentHandler) ownerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

// parseListFilter reads pagination query parameters into a shared.Filter
func parseListFilter(c *gin.Context) shared.Filter {
	filter := shared.DefaultFilter()
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 && size <= 100 {
		filter.PageSize = size
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	return filter
}
