package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/services"
)

// EmailHandlers serves templates, previews and the approval pipeline.
type EmailHandlers struct {
	emailService services.EmailService
}

func NewEmailHandlers(emailService services.EmailService) *EmailHandlers {
	return &EmailHandlers{emailService: emailService}
}

func (h *EmailHandlers) UpsertTemplate(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.TemplateRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	template, err := h.emailService.UpsertTemplate(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

func (h *EmailHandlers) GetTemplate(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	template, err := h.emailService.GetTemplate(c.Request().Context(), societyID, c.Param("key"))
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, template)
}

func (h *EmailHandlers) ListTemplates(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	templates, err := h.emailService.ListTemplates(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"templates": templates,
	})
}

type PreviewRequest struct {
	TemplateKey string                   `json:"template_key"`
	Filter      models.EmailTargetFilter `json:"filter"`
}

func (h *EmailHandlers) Preview(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req PreviewRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	previews, err := h.emailService.Preview(c.Request().Context(), societyID, req.TemplateKey, req.Filter)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"previews": previews,
		"count":    len(previews),
	})
}

func (h *EmailHandlers) CreateApproval(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.CreateApprovalRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	approval, err := h.emailService.CreateApproval(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, approval)
}

func (h *EmailHandlers) GetApproval(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	approvalID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	approval, err := h.emailService.GetApproval(c.Request().Context(), societyID, approvalID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, approval)
}

func (h *EmailHandlers) ListApprovals(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	approvals, err := h.emailService.ListApprovals(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"approvals": approvals,
	})
}

func (h *EmailHandlers) ListSendLogs(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	approvalID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	logs, err := h.emailService.ListSendLogs(c.Request().Context(), societyID, approvalID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"send_logs": logs,
	})
}

func (h *EmailHandlers) EnqueueRecipients(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	approvalID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	created, err := h.emailService.EnqueueRecipients(c.Request().Context(), societyID, approvalID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"created": created,
	})
}

func (h *EmailHandlers) Approve(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	approvalID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	approval, err := h.emailService.Approve(c.Request().Context(), societyID, approvalID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, approval)
}

func (h *EmailHandlers) Send(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	approvalID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	result, err := h.emailService.Send(c.Request().Context(), societyID, approvalID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
