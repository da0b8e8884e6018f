package reports

import (
	"github.com/labstack/echo/v4"
	"github.com/lectioapp/lectio/pkg/plans"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers report routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		reportService: NewService(db),
		planService:   plans.NewService(db),
	}

	g.GET("/planes/:id", h.planStatistics)
	g.GET("/historial", h.historyStatistics)
	g.GET("/dashboard", h.dashboard)
}
