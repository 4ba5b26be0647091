package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/canteen/internal/mykafka"
	"github.com/Skotchmaster/canteen/internal/service"
)

type AdminHandler struct {
	Svc      *service.AdminService
	Producer *mykafka.Producer
}

func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.Svc.Stats(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	orders, err := h.Svc.ListOrders(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateOrderStatus(c.Request().Context(), orderID, req.Status); err != nil {
		return serviceError(c, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(orderID), map[string]any{
		"type":    "order_status_changed",
		"orderID": orderID,
		"status":  req.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"order_id": orderID,
		"status":   req.Status,
	})
}
