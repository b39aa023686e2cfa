package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/services"
)

// MeetingHandlers serves meetings and their child records.
type MeetingHandlers struct {
	meetingService services.MeetingService
}

func NewMeetingHandlers(meetingService services.MeetingService) *MeetingHandlers {
	return &MeetingHandlers{meetingService: meetingService}
}

func (h *MeetingHandlers) List(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetings, err := h.meetingService.List(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"meetings": meetings,
	})
}

func (h *MeetingHandlers) Get(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	meeting, err := h.meetingService.Get(c.Request().Context(), societyID, meetingID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandlers) Create(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.MeetingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	meeting, err := h.meetingService.Create(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, meeting)
}

func (h *MeetingHandlers) Update(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.MeetingRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	meeting, err := h.meetingService.Update(c.Request().Context(), societyID, meetingID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, meeting)
}

func (h *MeetingHandlers) AddAttendance(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.AttendanceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	attendance, err := h.meetingService.AddAttendance(c.Request().Context(), societyID, meetingID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, attendance)
}

func (h *MeetingHandlers) ListAttendance(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	attendance, err := h.meetingService.ListAttendance(c.Request().Context(), societyID, meetingID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"attendance": attendance,
	})
}

func (h *MeetingHandlers) AddDocument(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.MeetingDocumentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	doc, err := h.meetingService.AddDocument(c.Request().Context(), societyID, meetingID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func (h *MeetingHandlers) ListDocuments(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	docs, err := h.meetingService.ListDocuments(c.Request().Context(), societyID, meetingID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"documents": docs,
	})
}

type MinutesRequest struct {
	MinutesText string `json:"minutes_text"`
}

func (h *MeetingHandlers) UpsertMinutes(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req MinutesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	minutes, err := h.meetingService.UpsertMinutes(c.Request().Context(), societyID, meetingID, req.MinutesText)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, minutes)
}

func (h *MeetingHandlers) GetMinutes(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	minutes, err := h.meetingService.GetMinutes(c.Request().Context(), societyID, meetingID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, minutes)
}

func (h *MeetingHandlers) AddTask(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.TaskRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	task, err := h.meetingService.AddTask(c.Request().Context(), societyID, meetingID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, task)
}

type TaskStatusRequest struct {
	Status string `json:"status"`
}

func (h *MeetingHandlers) UpdateTaskStatus(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	taskID, err := common.ValidateUUID(c.Param("taskId"), "taskId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req TaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	task, err := h.meetingService.UpdateTaskStatus(c.Request().Context(), societyID, taskID, req.Status)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, task)
}

func (h *MeetingHandlers) ListTasks(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	tasks, err := h.meetingService.ListTasks(c.Request().Context(), societyID, meetingID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}

func (h *MeetingHandlers) AddDecision(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.DecisionRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	decision, err := h.meetingService.AddDecision(c.Request().Context(), societyID, meetingID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, decision)
}

func (h *MeetingHandlers) ListDecisions(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	meetingID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	decisions, err := h.meetingService.ListDecisions(c.Request().Context(), societyID, meetingID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"decisions": decisions,
	})
}
