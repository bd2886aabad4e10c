package configuration

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/homerportes/RealStateRD/internal/pkg/response"
	"github.com/homerportes/RealStateRD/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the configuration endpoints. The group is expected
// to be guarded by the admin middleware.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	cfgGroup := admin.Group("/configurations")
	{
		cfgGroup.GET("", h.List)
		cfgGroup.GET("/:id", h.Get)
		cfgGroup.POST("", h.Create)
		cfgGroup.PUT("/:id", h.Update)
		cfgGroup.DELETE("/:id", h.Delete)
		cfgGroup.POST("/:id/generate-slots", h.GenerateSlots)
	}
}

func (h *Handler) List(c *gin.Context) {
	cfgs, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load configurations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"configurations": cfgs})
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cfg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "CONFIGURATION_NOT_FOUND", "Configuration not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load configuration")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"configuration": cfg})
}

func (h *Handler) Create(c *gin.Context) {
	var req SaveConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	cfg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err, "Failed to create configuration")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"configuration": cfg})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req SaveConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if details := validator.Validate(&req); details != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body", details)
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		h.writeError(c, err, "Failed to update configuration")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Configuration updated"})
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to delete configuration")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Configuration deleted"})
}

func (h *Handler) GenerateSlots(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.GenerateSlots(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Failed to generate time slots")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Time slots generated"})
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrOverlap):
		response.Error(c, http.StatusConflict, "CONFIGURATION_OVERLAP", err.Error())
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "CONFIGURATION_NOT_FOUND", "Configuration not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", fallback)
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid configuration id")
		return 0, false
	}
	return id, true
}
