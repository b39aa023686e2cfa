package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/services"
)

type AuditHandlers struct {
	auditService services.AuditService
}

func NewAuditHandlers(auditService services.AuditService) *AuditHandlers {
	return &AuditHandlers{auditService: auditService}
}

func (h *AuditHandlers) Recent(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.auditService.Recent(c.Request().Context(), societyID, limit)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs": logs,
	})
}

func (h *AuditHandlers) ForResource(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	resourceType := c.Param("resourceType")
	resourceID := c.Param("resourceId")
	if resourceType == "" || resourceID == "" {
		return common.SendClientError(c, "resourceType and resourceId are required")
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.auditService.ForResource(c.Request().Context(), societyID, resourceType, resourceID, limit)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"logs": logs,
	})
}
