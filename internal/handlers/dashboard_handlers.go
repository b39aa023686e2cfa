package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/services"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

func (h *DashboardHandlers) Summary(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	summary, err := h.dashboardService.Summary(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}
