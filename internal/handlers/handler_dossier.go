package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geoman-app/geoman/internal/apperrors"
	portssvc "github.com/geoman-app/geoman/internal/core/ports/services"
	"github.com/geoman-app/geoman/internal/dto"
	"github.com/geoman-app/geoman/internal/middleware"
)

// dossierHandler handles HTTP requests related to dossiers.
type dossierHandler struct {
	dossierService portssvc.DossierSvcFacade
}

// newDossierHandler creates a new dossierHandler.
func newDossierHandler(ds portssvc.DossierSvcFacade) *dossierHandler {
	return &dossierHandler{
		dossierService: ds,
	}
}

// registerDossierRoutes registers routes related to dossiers.
func registerDossierRoutes(rg *gin.RouterGroup, dossierService portssvc.DossierSvcFacade) {
	h := newDossierHandler(dossierService)

	// Registered outside the /dossiers group so the static segment does not
	// collide with the :id parameter.
	rg.GET("/stats", h.stats)

	dossiers := rg.Group("/dossiers")
	{
		dossiers.GET("", h.listDossiers)
		dossiers.GET("/:id", h.getDossier)
		dossiers.PUT("", h.upsertDossier)
		dossiers.PATCH("/:id", h.patchDossier)
		dossiers.POST("/:id/trash", h.trashDossier)
		dossiers.POST("/:id/restore", h.restoreDossier)
		dossiers.POST("/:id/archive", h.toggleArchive)
		dossiers.DELETE("/:id", h.purgeDossier)
	}
}

func (h *dossierHandler) listDossiers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	view := c.Query("view")
	dossiers, err := h.dossierService.ListDossiers(c.Request.Context(), view)
	if err != nil {
		logger.Error("Failed to list dossiers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dossiers"})
		return
	}
	c.JSON(http.StatusOK, dto.ListDossiersResponse{Dossiers: dossiers, Total: len(dossiers)})
}

func (h *dossierHandler) stats(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	count, err := h.dossierService.CountDossiers(c.Request.Context())
	if err != nil {
		logger.Error("Failed to count dossiers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count dossiers"})
		return
	}
	c.JSON(http.StatusOK, dto.StatsResponse{Dossiers: count})
}

func (h *dossierHandler) getDossier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")
	dossier, err := h.dossierService.GetDossier(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dossier not found"})
			return
		}
		logger.Error("Failed to get dossier", slog.String("dossier_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dossier"})
		return
	}
	c.JSON(http.StatusOK, dossier)
}

func (h *dossierHandler) upsertDossier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		logger.Warn("Failed to bind JSON for UpsertDossier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	dossier, err := h.dossierService.UpsertDossier(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dossier has no identifier"})
			return
		}
		logger.Error("Failed to upsert dossier", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save dossier"})
		return
	}
	c.JSON(http.StatusOK, dossier)
}

func (h *dossierHandler) patchDossier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		logger.Warn("Failed to bind JSON for PatchDossier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	dossier, err := h.dossierService.UpdateDossier(c.Request.Context(), id, patch)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dossier update"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Dossier not found"})
		default:
			logger.Error("Failed to update dossier", slog.String("dossier_id", id), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dossier"})
		}
		return
	}
	c.JSON(http.StatusOK, dossier)
}

func (h *dossierHandler) trashDossier(c *gin.Context) {
	h.lifecycle(c, h.dossierService.MoveToTrash, "Failed to move dossier to trash")
}

func (h *dossierHandler) restoreDossier(c *gin.Context) {
	h.lifecycle(c, h.dossierService.RestoreFromTrash, "Failed to restore dossier")
}

func (h *dossierHandler) toggleArchive(c *gin.Context) {
	h.lifecycle(c, h.dossierService.ToggleArchive, "Failed to toggle archive")
}

func (h *dossierHandler) purgeDossier(c *gin.Context) {
	h.lifecycle(c, h.dossierService.PurgeDossier, "Failed to purge dossier")
}

// lifecycle factors the id-only state transitions that all answer 204.
func (h *dossierHandler) lifecycle(c *gin.Context, op func(ctx context.Context, id string) error, failMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")
	if err := op(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dossier not found"})
			return
		}
		logger.Error(failMsg, slog.String("dossier_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": failMsg})
		return
	}
	c.Status(http.StatusNoContent)
}
