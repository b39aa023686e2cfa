package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/services"
)

type ShipmentHandlers struct {
	shipmentService services.ShipmentService
}

func NewShipmentHandlers(shipmentService services.ShipmentService) *ShipmentHandlers {
	return &ShipmentHandlers{shipmentService: shipmentService}
}

func (h *ShipmentHandlers) CreateBatch(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.CreateBatchRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	batch, err := h.shipmentService.CreateBatch(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, batch)
}

func (h *ShipmentHandlers) GetBatch(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	batchID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	batch, err := h.shipmentService.GetBatch(c.Request().Context(), societyID, batchID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, batch)
}

func (h *ShipmentHandlers) ListBatches(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	batches, err := h.shipmentService.ListBatches(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"batches": batches,
	})
}

func (h *ShipmentHandlers) ListRecipients(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	batchID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	recipients, err := h.shipmentService.ListRecipients(c.Request().Context(), societyID, batchID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"recipients": recipients,
	})
}

type RecipientStatusRequest struct {
	Status string `json:"status"`
}

func (h *ShipmentHandlers) UpdateRecipientStatus(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	batchID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	recipientID, err := common.ValidateUUID(c.Param("recipientId"), "recipientId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req RecipientStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	recipient, err := h.shipmentService.UpdateRecipientStatus(c.Request().Context(), societyID, batchID, recipientID, req.Status)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, recipient)
}
