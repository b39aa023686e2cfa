package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/services"
)

// AdminHandlers serves the operator console: societies, staff assignments
// and platform user accounts.
type AdminHandlers struct {
	adminService services.SocietyAdminService
}

func NewAdminHandlers(adminService services.SocietyAdminService) *AdminHandlers {
	return &AdminHandlers{adminService: adminService}
}

type ListQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *AdminHandlers) ListSocieties(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	societies, err := h.adminService.ListSocieties(c.Request().Context(), q.Limit, q.Offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"societies": societies,
	})
}

func (h *AdminHandlers) CreateSociety(c echo.Context) error {
	var req services.CreateSocietyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	society, err := h.adminService.CreateSociety(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, society)
}

func (h *AdminHandlers) GetSociety(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	society, err := h.adminService.GetSociety(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, society)
}

func (h *AdminHandlers) UpdateSociety(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.UpdateSocietyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	req.ID = id
	society, err := h.adminService.UpdateSociety(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, society)
}

func (h *AdminHandlers) DeleteSociety(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.adminService.DeleteSociety(c.Request().Context(), id); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type AssignStaffRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func (h *AdminHandlers) AssignStaff(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req AssignStaffRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	userID, err := common.ValidateUUID(req.UserID, "user_id")
	if err != nil {
		return common.SendError(c, err)
	}
	membership, err := h.adminService.AssignStaff(c.Request().Context(), societyID, userID, req.Role)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, membership)
}

func (h *AdminHandlers) RemoveStaff(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	userID, err := common.ValidateUUID(c.Param("userId"), "userId")
	if err != nil {
		return common.SendError(c, err)
	}
	if err := h.adminService.RemoveStaff(c.Request().Context(), societyID, userID); err != nil {
		return common.SendError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandlers) ListStaff(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	staff, err := h.adminService.ListStaff(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"staff": staff,
	})
}

func (h *AdminHandlers) CreateUser(c echo.Context) error {
	var req services.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	user, err := h.adminService.CreateUser(c.Request().Context(), &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AdminHandlers) ListUsers(c echo.Context) error {
	var q ListQuery
	if err := c.Bind(&q); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	users, err := h.adminService.ListUsers(c.Request().Context(), q.Limit, q.Offset)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"users": users,
	})
}
