package handlers

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/geoman-app/geoman/internal/core/ports/services"
	"github.com/geoman-app/geoman/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")

	registerDossierRoutes(v1, services.Dossier)
	registerInterchangeRoutes(v1, services.Dossier)
}
