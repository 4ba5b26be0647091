package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	auth "github.com/Skotchmaster/canteen/internal/middleware/auth"
	"github.com/Skotchmaster/canteen/internal/mykafka"
	"github.com/Skotchmaster/canteen/internal/service"
)

type OrderHandler struct {
	Svc      *service.OrderService
	Producer *mykafka.Producer
}

func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req struct {
		DeliveryAddress string `json:"delivery_address"`
		PaymentMethod   string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(c.Request().Context(), userID, req.DeliveryAddress, req.PaymentMethod)
	if err != nil {
		return serviceError(c, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":    "order_placed",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.TotalAmount.String(),
	})

	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetHistory(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	orders, err := h.Svc.GetOrderHistory(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHandler) GetDetail(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	orderID, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	isAdmin := auth.CurrentRole(c) == "admin"
	detail, err := h.Svc.GetOrderDetail(c.Request().Context(), orderID, userID, isAdmin)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}
