package http

import (
	"net/http"

	dashboardService "anoa.com/playstats/internal/modules/dashboard/service"
	"anoa.com/playstats/pkg/response"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	fetcher dashboardService.Fetcher
}

func NewDashboardHandler(fetcher dashboardService.Fetcher) *DashboardHandler {
	return &DashboardHandler{fetcher: fetcher}
}

// GetDashboard renders a fresh copy of the dashboard page. A failed load is
// still a 200: the error is shown in the page itself.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	page, err := dashboardService.DefaultPage()
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	renderer := dashboardService.NewRenderer(page, h.fetcher)
	renderer.Load(c.Request.Context())

	markup, err := page.HTML()
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Dashboard-State", renderer.State().String())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(markup))
}
