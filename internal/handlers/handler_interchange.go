package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geoman-app/geoman/internal/compat"
	portssvc "github.com/geoman-app/geoman/internal/core/ports/services"
	"github.com/geoman-app/geoman/internal/dto"
	"github.com/geoman-app/geoman/internal/middleware"
)

// interchangeHandler handles desktop-format export and best-effort import.
type interchangeHandler struct {
	dossierService portssvc.DossierSvcFacade
}

// registerInterchangeRoutes registers export and import routes.
func registerInterchangeRoutes(rg *gin.RouterGroup, dossierService portssvc.DossierSvcFacade) {
	h := &interchangeHandler{dossierService: dossierService}

	export := rg.Group("/export")
	{
		export.GET("/bundle", h.exportBundle)
		export.GET("/csv", h.exportCSV)
	}
	importGroup := rg.Group("/import")
	{
		importGroup.POST("/bundle", h.importBundle)
		importGroup.POST("/csv", h.importCSV)
	}
}

func (h *interchangeHandler) exportBundle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rows, err := h.dossierService.ListDossiers(c.Request.Context(), "")
	if err != nil {
		logger.Error("Failed to export bundle", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export bundle"})
		return
	}
	c.JSON(http.StatusOK, compat.RowsToDesktopBundle(rows))
}

func (h *interchangeHandler) exportCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	rows, err := h.dossierService.ListDossiers(c.Request.Context(), "")
	if err != nil {
		logger.Error("Failed to export CSV", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export CSV"})
		return
	}
	filename := fmt.Sprintf("geoman-export-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(compat.CSVBOM+compat.BuildDesktopCSV(rows)))
}

func (h *interchangeHandler) importBundle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var payload any
	if err := c.ShouldBindJSON(&payload); err != nil {
		logger.Warn("Failed to bind JSON for ImportBundle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	rows := compat.BundleToRows(payload)
	imported, err := h.dossierService.ImportDossiers(c.Request.Context(), rows)
	if err != nil {
		logger.Error("Bundle import failed", slog.Int("imported", imported), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ImportResultResponse{Received: len(rows), Imported: imported})
}

func (h *interchangeHandler) importCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	rows := compat.ParseDesktopCSV(string(body))
	imported, err := h.dossierService.ImportDossiers(c.Request.Context(), rows)
	if err != nil {
		logger.Error("CSV import failed", slog.Int("imported", imported), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}
	c.JSON(http.StatusOK, dto.ImportResultResponse{Received: len(rows), Imported: imported})
}
