package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"gakkaihub/internal/common"
	"gakkaihub/internal/models"
	"gakkaihub/internal/services"
)

// InvoiceHandlers serves the dues lifecycle endpoints.
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
}

func NewInvoiceHandlers(invoiceService services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

func (h *InvoiceHandlers) Generate(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.GenerateInvoicesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	result, err := h.invoiceService.GenerateAnnual(c.Request().Context(), societyID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *InvoiceHandlers) List(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	filters := &models.InvoiceFilters{Status: c.QueryParam("status")}
	if yearStr := c.QueryParam("fiscal_year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return common.SendClientError(c, "fiscal_year must be an integer")
		}
		filters.FiscalYear = year
	}
	invoices, err := h.invoiceService.List(c.Request().Context(), societyID, filters)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
	})
}

func (h *InvoiceHandlers) Get(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	invoice, err := h.invoiceService.Get(c.Request().Context(), societyID, invoiceID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandlers) Update(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	var req services.UpdateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request payload")
	}
	invoice, err := h.invoiceService.Update(c.Request().Context(), societyID, invoiceID, &req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, invoice)
}

// MarkOverdue triggers the overdue sweep for one society.
func (h *InvoiceHandlers) MarkOverdue(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	marked, err := h.invoiceService.MarkOverdue(c.Request().Context(), societyID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"marked": marked,
	})
}

func (h *InvoiceHandlers) IssueReceipt(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	receipt, err := h.invoiceService.IssueReceipt(c.Request().Context(), societyID, invoiceID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusCreated, receipt)
}

func (h *InvoiceHandlers) GetReceipt(c echo.Context) error {
	societyID, err := common.ValidateUUID(c.Param("societyId"), "societyId")
	if err != nil {
		return common.SendError(c, err)
	}
	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendError(c, err)
	}
	receipt, err := h.invoiceService.GetReceipt(c.Request().Context(), societyID, invoiceID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, receipt)
}
