package admin

import (
	"errors"
	"net/http"
	"strconv"

	"investhub/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the back-office endpoints. The group is expected to
// carry JWT auth plus the admin role requirement.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.GET("/users/:id/verification-status", h.GetVerificationStatus)
	rg.PATCH("/users/:id/verification-status", h.SetVerificationStatus)
	rg.PATCH("/users/:id/role", h.UpdateRole)
	rg.DELETE("/users/:id", h.DeleteUser)
	rg.GET("/stats", h.Stats)
}

func (h *Handler) ListUsers(c *gin.Context) {
	var filter UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	resp, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err, "Failed to list users")
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load user")
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *Handler) GetVerificationStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	summary, err := h.service.GetUserVerificationStatus(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "Failed to load verification status")
		return
	}

	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) SetVerificationStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetVerificationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	summary, err := h.service.SetVerificationStatus(c.Request.Context(), id, currentUserID(c), req)
	if err != nil {
		h.writeError(c, err, "Failed to update verification status")
		return
	}

	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	item, err := h.service.UpdateRole(c.Request.Context(), id, currentUserID(c), req.Role)
	if err != nil {
		h.writeError(c, err, "Failed to update role")
		return
	}

	response.Success(c, http.StatusOK, item)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id, currentUserID(c)); err != nil {
		h.writeError(c, err, "Failed to delete user")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Failed to load stats")
		return
	}

	response.Success(c, http.StatusOK, stats)
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrInvalidRole):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrSelfDemotion),
		errors.Is(err, ErrLastAdmin),
		errors.Is(err, ErrSelfDeletion):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) int64 {
	v, _ := c.Get("user_id")
	id, _ := v.(int64)
	return id
}
