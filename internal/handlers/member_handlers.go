package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/services"
)

// MemberHandlers serves the society roster.
type MemberHandlers struct {
	memberService services.MemberService
}

func NewMemberHandlers(memberService services.MemberService) *MemberHandlers {
	return &MemberHandlers{memberService: memberService}
}

type MemberListQuery struct {
	Query  string `query:"q"`
	Status string `query:"status"`
}

func (h *MemberHandlers) List(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var q MemberListQuery
	if err := c.Bind(&q); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	members, err := h.memberService.List(c.Request().Context(), societyID, &models.MemberFilters{
		Query:  q.Query,
		Status: q.Status,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"members": members,
	})
}

func (h *MemberHandlers) Get(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	memberID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	member, err := h.memberService.Get(c.Request().Context(), societyID, memberID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *MemberHandlers) Create(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.MemberRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	member, err := h.memberService.Create(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *MemberHandlers) Update(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	memberID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.MemberRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	member, err := h.memberService.Update(c.Request().Context(), societyID, memberID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

// ExportCSV streams the filtered roster as CSV.
func (h *MemberHandlers) ExportCSV(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var q MemberListQuery
	if err := c.Bind(&q); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}
	csv, err := h.memberService.ExportCSV(c.Request().Context(), societyID, &models.MemberFilters{
		Query:  q.Query,
		Status: q.Status,
	})
	if err != nil {
		return common.SendError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="members.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
