package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appsigning "github.com/signly/backend/internal/application/signing"
)

// SignHandler serves the public signing surface behind short URLs. No
// authentication; access control is the short URL itself plus an optional
// publication password.
type SignHandler struct {
	BaseHandler
	publications *appsigning.PublicationService
	documents    *appsigning.DocumentService
}

// NewSignHandler creates a new SignHandler
func NewSignHandler(publications *appsigning.PublicationService, documents *appsigning.DocumentService) *SignHandler {
	return &SignHandler{publications: publications, documents: documents}
}

// RegisterRoutes registers public signing routes on the API group
func (h *SignHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sign := rg.Group("/sign")
	{
		sign.GET("/:short_url", h.Access)
		sign.POST("/:short_url/verify", h.VerifyPassword)
		sign.POST("/:short_url/documents/:document_id/areas/:area_index", h.SignArea)
		sign.POST("/:short_url/documents/:document_id/signed-file", h.UploadSignedFile)
	}
}

// VerifyPasswordRequest carries a visitor's password attempt
type VerifyPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// SignAreaRequest carries the drawn signature for one area. Password is
// required only for protected publications.
type SignAreaRequest struct {
	SignatureData string `json:"signature_data" binding:"required"`
	Password      string `json:"password"`
}

// Access returns the publication behind a short URL. Protected publications
// reveal only their metadata until the caller supplies the password via the
// X-Publication-Password header.
func (h *SignHandler) Access(c *gin.Context) {
	shortURL := c.Param("short_url")

	access, err := h.publications.ResolveByShortURL(c.Request.Context(), shortURL)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if access.Publication.HasPassword() {
		password := c.GetHeader("X-Publication-Password")
		ok := false
		if password != "" {
			ok, err = h.publications.VerifyPassword(c.Request.Context(), shortURL, password)
			if err != nil {
				h.HandleError(c, err)
				return
			}
		}
		if !ok {
			h.Success(c, PublicationAccessResponse{
				Name:              access.Publication.Name,
				Status:            access.Publication.Status.String(),
				PasswordProtected: true,
				ExpiresAt:         access.Publication.ExpiresAt,
			})
			return
		}
	}

	h.Success(c, ToPublicationAccessResponse(access))
}

// VerifyPassword checks a visitor's password for a protected link
func (h *SignHandler) VerifyPassword(c *gin.Context) {
	var req VerifyPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Password is required")
		return
	}

	valid, err := h.publications.VerifyPassword(c.Request.Context(), c.Param("short_url"), req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"valid": valid})
}

// SignArea records signature data on one area of a published document
func (h *SignHandler) SignArea(c *gin.Context) {
	var req SignAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Signature data is required")
		return
	}

	documentID, areaIndex, ok := h.authorizeDocument(c, req.Password)
	if !ok {
		return
	}

	area, err := h.documents.SignArea(c.Request.Context(), documentID, areaIndex, req.SignatureData)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ToAreaResponse(area))
}

// UploadSignedFile stores the composited signed output for a document
// (multipart field "file", optional "password" form field)
func (h *SignHandler) UploadSignedFile(c *gin.Context) {
	documentID, _, ok := h.authorizeDocument(c, c.PostForm("password"))
	if !ok {
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

	if err := h.documents.StoreSignedFile(c.Request.Context(), documentID, data, fileHeader.Header.Get("Content-Type")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// authorizeDocument resolves the short URL, enforces the publication
// password, and confirms the target document belongs to the publication. The
// area index is parsed when present in the path.
func (h *SignHandler) authorizeDocument(c *gin.Context, password string) (uuid.UUID, int, bool) {
	shortURL := c.Param("short_url")

	documentID, err := uuid.Parse(c.Param("document_id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return uuid.Nil, 0, false
	}

	areaIndex := 0
	if raw := c.Param("area_index"); raw != "" {
		areaIndex, err = strconv.Atoi(raw)
		if err != nil || areaIndex < 0 {
			h.BadRequest(c, "Invalid area index")
			return uuid.Nil, 0, false
		}
	}

	access, err := h.publications.ResolveByShortURL(c.Request.Context(), shortURL)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, 0, false
	}

	if access.Publication.HasPassword() {
		valid, err := h.publications.VerifyPassword(c.Request.Context(), shortURL, password)
		if err != nil {
			h.HandleError(c, err)
			return uuid.Nil, 0, false
		}
		if !valid {
			h.Error(c, http.StatusForbidden, "INVALID_PASSWORD", "Publication password is incorrect")
			return uuid.Nil, 0, false
		}
	}

	for _, doc := range access.Documents {
		if doc.Document.ID == documentID {
			return documentID, areaIndex, true
		}
	}
	h.NotFound(c, "Document not found in this publication")
	return uuid.Nil, 0, false
}
