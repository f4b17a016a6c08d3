package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/heraerp/txn-ledger/internal/apperrors"
	portssvc "github.com/heraerp/txn-ledger/internal/core/ports/services"
	"github.com/heraerp/txn-ledger/internal/dto"
	"github.com/heraerp/txn-ledger/internal/middleware"
)

// entityHandler handles HTTP requests for ledger entities.
type entityHandler struct {
	entityService portssvc.EntitySvcFacade
}

func newEntityHandler(entityService portssvc.EntitySvcFacade) *entityHandler {
	return &entityHandler{
		entityService: entityService,
	}
}

// createEntity godoc
// @Summary Create an entity
// @Description Registers an entity that transactions may reference as source, target or line entity
// @Tags entities
// @Accept  json
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   entity body dto.CreateEntityRequest true "Entity details"
// @Success 201 {object} dto.EntityResponse
// @Failure 400 {object} map[string]string "Validation failure"
// @Router /organizations/{organization_id}/entities [post]
func (h *entityHandler) createEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")

	req := dto.CreateEntityRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createEntity", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entity, err := h.entityService.CreateEntity(c.Request.Context(), organizationID, req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating entity", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create entity in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create entity"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntityResponse(entity))
}

// getEntity godoc
// @Summary Get an entity
// @Description Retrieves a single entity registered within the organization
// @Tags entities
// @Produce  json
// @Param   organization_id path string true "Organization ID"
// @Param   entity_id path string true "Entity ID"
// @Success 200 {object} dto.EntityResponse
// @Failure 404 {object} map[string]string "Entity not found"
// @Router /organizations/{organization_id}/entities/{entity_id} [get]
func (h *entityHandler) getEntity(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	organizationID := c.Param("organization_id")
	entityID := c.Param("entity_id")

	entity, err := h.entityService.GetEntityByID(c.Request.Context(), organizationID, entityID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get entity from service", slog.String("error", err.Error()), slog.String("entity_id", entityID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entity"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntityResponse(entity))
}

// RegisterEntityRoutes registers entity specific routes nested under a
// specific organization.
func RegisterEntityRoutes(group *gin.RouterGroup, entityService portssvc.EntitySvcFacade) {
	h := newEntityHandler(entityService)

	entities := group.Group("/entities")
	{
		entities.POST("", h.createEntity)
		entities.GET("/:entity_id", h.getEntity)
	}
}
