package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/services"
)

type ArchiveHandlers struct {
	archiveService services.ArchiveService
}

func NewArchiveHandlers(archiveService services.ArchiveService) *ArchiveHandlers {
	return &ArchiveHandlers{archiveService: archiveService}
}

func (h *ArchiveHandlers) Create(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.ArchiveRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	archive, err := h.archiveService.Create(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, archive)
}

func (h *ArchiveHandlers) List(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	filters := &models.ArchiveFilters{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		IssueNo:  c.QueryParam("issue_no"),
	}
	archives, err := h.archiveService.List(c.Request().Context(), societyID, filters)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"archives": archives,
	})
}
