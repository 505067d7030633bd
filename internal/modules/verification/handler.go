package verification

import (
	"errors"
	"mime/multipart"
	"net/http"

	"investhub/internal/modules/upload"
	"investhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the intake endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/verification", h.SubmitPersonal)
	rg.POST("/verification/documents", h.SubmitPersonalDocuments)
	rg.GET("/verification/status", h.Status)
	rg.POST("/verification/corporate", h.SubmitCorporate)
	rg.POST("/verification/corporate/documents", h.SubmitCorporateDocuments)
}

func (h *Handler) SubmitPersonal(c *gin.Context) {
	var req SubmitPersonalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.SubmitPersonal(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to submit verification details")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) SubmitPersonalDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart form")
		return
	}

	if countFiles(form) > upload.MaxPersonalFiles {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Too many files in one request")
		return
	}

	single := make(map[string]*multipart.FileHeader, len(form.File))
	for field, headers := range form.File {
		if len(headers) > 0 {
			single[field] = headers[0]
		}
	}

	resp, err := h.service.SubmitPersonalDocuments(c.Request.Context(), currentUserID(c), single)
	if err != nil {
		h.writeError(c, err, "Failed to store verification documents")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) SubmitCorporate(c *gin.Context) {
	var req SubmitCorporateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.SubmitCorporate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to submit corporate verification details")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) SubmitCorporateDocuments(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid multipart form")
		return
	}

	if countFiles(form) > upload.MaxCorporateFiles {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Too many files in one request")
		return
	}

	resp, err := h.service.SubmitCorporateDocuments(c.Request.Context(), currentUserID(c), form)
	if err != nil {
		h.writeError(c, err, "Failed to store corporate documents")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) Status(c *gin.Context) {
	resp, err := h.service.Status(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.writeError(c, err, "Failed to load verification status")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid submission", ve.Fields)
		return
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrMissingDocuments),
		errors.Is(err, ErrNoFiles),
		errors.Is(err, ErrTooManyFiles),
		errors.Is(err, ErrCompanyRequired),
		errors.Is(err, ErrBankDetailsRequired),
		errors.Is(err, ErrSignatoriesRequired),
		errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, upload.ErrFileTooLarge),
		errors.Is(err, upload.ErrInvalidMimeType):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}

func countFiles(form *multipart.Form) int {
	n := 0
	for _, headers := range form.File {
		n += len(headers)
	}
	return n
}
