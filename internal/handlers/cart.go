package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	auth "github.com/Skotchmaster/canteen/internal/middleware/auth"
	"github.com/Skotchmaster/canteen/internal/mykafka"
	"github.com/Skotchmaster/canteen/internal/service"
)

type CartHandler struct {
	Svc      *service.CartService
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	lines, err := h.Svc.ListItems(c.Request().Context(), userID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": lines})
}

func (h *CartHandler) AddItem(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	var req struct {
		FoodItemID uint `json:"food_item_id"`
		Quantity   int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.Svc.AddItem(c.Request().Context(), userID, req.FoodItemID, req.Quantity)
	if err != nil {
		return serviceError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_added",
		"userID":     userID,
		"foodItemID": item.FoodItemID,
		"quantity":   item.Quantity,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) AdjustItem(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	foodItemID, err := uintParam(c, "food_item_id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Delta == 0 {
		return errorResponse(c, http.StatusBadRequest, fmt.Errorf("delta must not be zero"))
	}

	removed, item, err := h.Svc.AdjustQuantity(c.Request().Context(), userID, foodItemID, req.Delta)
	if err != nil {
		return serviceError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_adjusted",
		"userID":     userID,
		"foodItemID": foodItemID,
		"removed":    removed,
	})

	if removed {
		return c.JSON(http.StatusOK, echo.Map{"removed": true})
	}
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	foodItemID, err := uintParam(c, "food_item_id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.Svc.RemoveItem(c.Request().Context(), userID, foodItemID); err != nil {
		return serviceError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":       "cart_item_removed",
		"userID":     userID,
		"foodItemID": foodItemID,
	})

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) Clear(c echo.Context) error {
	userID, ok := auth.CurrentUserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}

	if err := h.Svc.Clear(c.Request().Context(), userID); err != nil {
		return serviceError(c, err)
	}

	publish(c, h.Producer, "cart_events", fmt.Sprint(userID), map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})

	return c.NoContent(http.StatusNoContent)
}
