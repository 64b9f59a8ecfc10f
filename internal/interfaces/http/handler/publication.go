package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsigning "github.com/signly/backend/internal/application/signing"
)

// PublicationHandler handles the owner-facing publication lifecycle endpoints
type PublicationHandler struct {
	BaseHandler
	publications *appsigning.PublicationService
}

// NewPublicationHandler creates a new PublicationHandler
func NewPublicationHandler(publications *appsigning.PublicationService) *PublicationHandler {
	return &PublicationHandler{publications: publications}
}

// RegisterRoutes registers publication routes on the API group
func (h *PublicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pubs := rg.Group("/publications")
	{
		pubs.POST("", h.Create)
		pubs.GET("", h.List)
		pubs.GET("/:id", h.Get)
		pubs.PUT("/:id", h.Update)
		pubs.DELETE("/:id", h.Delete)
	}
}

// CreatePublicationRequest publishes a batch of draft documents
type CreatePublicationRequest struct {
	Name        string     `json:"name" binding:"required,max=255"`
	Password    string     `json:"password" binding:"max=128"`
	ExpiresAt   *time.Time `json:"expires_at"`
	DocumentIDs []string   `json:"document_ids" binding:"required,min=1,dive,uuid"`
}

// UpdatePublicationRequest edits a publication. Omitted fields keep their
// current value; password "" removes protection, clear_expiry removes the
// deadline.
type UpdatePublicationRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=255"`
	Password    *string    `json:"password" binding:"omitempty,max=128"`
	ExpiresAt   *time.Time `json:"expires_at"`
	ClearExpiry bool       `json:"clear_expiry"`
}

// Create publishes the given draft documents behind a new short URL
func (h *PublicationHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	documentIDs := make([]uuid.UUID, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid document ID: "+raw)
			return
		}
		documentIDs = append(documentIDs, id)
	}

	detail, err := h.publications.Create(c.Request.Context(), userID, req.Name, req.Password, req.ExpiresAt, documentIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ToPublicationDetailResponse(detail))
}

// List returns the caller's publications, paginated
func (h *PublicationHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := parseListFilter(c)
	pubs, total, err := h.publications.List(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PublicationResponse, 0, len(pubs))
	for i := range pubs {
		items = append(items, ToPublicationResponse(&pubs[i]))
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// Get returns one publication with its documents
func (h *PublicationHandler) Get(c *gin.Context) {
	userID, publicationID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	detail, err := h.publications.GetByID(c.Request.Context(), userID, publicationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToPublicationDetailResponse(detail))
}

// Update edits a publication's name, password, or expiry
func (h *PublicationHandler) Update(c *gin.Context) {
	userID, publicationID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req UpdatePublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	pub, err := h.publications.Update(c.Request.Context(), userID, publicationID, appsigning.UpdatePublicationInput{
		Name:        req.Name,
		Password:    req.Password,
		ExpiresAt:   req.ExpiresAt,
		ClearExpiry: req.ClearExpiry,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToPublicationResponse(pub))
}

// Delete tears down a publication
func (h *PublicationHandler) Delete(c *gin.Context) {
	userID, publicationID, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if err := h.publications.Delete(c.Request.Context(), userID, publicationID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *PublicationHandler) ownerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid publication ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}
