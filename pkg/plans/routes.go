package plans

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers plan routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		planService: NewService(db),
	}

	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.PUT("/:id/estado", h.updateStatus)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/detalles", h.details)
	g.POST("/:id/detalles/:detailId/completar", h.completeDetail)
	g.GET("/:id/progreso", h.progressHistory)
	g.POST("/:id/progreso", h.registerProgress)
}
