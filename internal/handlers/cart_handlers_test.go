package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/mykafka"
	"github.com/Skotchmaster/canteen/internal/service"
)

func newCartHandler(t *testing.T) *CartHandler {
	return &CartHandler{
		Svc:      &service.CartService{Repo: initTestRepo(t), Locks: service.NewUserLocks()},
		Producer: &mykafka.Producer{},
	}
}

func TestCartAddAndList(t *testing.T) {
	h := newCartHandler(t)
	e := echo.New()
	user := seedTestUser(t, h.Svc.Repo, "alice")
	food := seedTestFood(t, h.Svc.Repo, "Plov", "5.50")

	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"food_item_id": food.ID,
		"quantity":     2,
	})
	asUser(c, user.ID, "user")

	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	require.Equal(t, uint(2), item.Quantity)

	cList, recList := newJSONContext(t, e, http.MethodGet, "/api/v1/cart", nil)
	asUser(cList, user.ID, "user")
	require.NoError(t, h.GetCart(cList))
	require.Equal(t, http.StatusOK, recList.Code)
	require.Contains(t, recList.Body.String(), "Plov")
	require.Contains(t, recList.Body.String(), "5.5")
}

func TestCartAddUnknownFood(t *testing.T) {
	h := newCartHandler(t)
	e := echo.New()
	user := seedTestUser(t, h.Svc.Repo, "alice")

	c, rec := newJSONContext(t, e, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"food_item_id": 9999,
		"quantity":     1,
	})
	asUser(c, user.ID, "user")

	require.NoError(t, h.AddItem(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAdjustAndRemove(t *testing.T) {
	h := newCartHandler(t)
	e := echo.New()
	user := seedTestUser(t, h.Svc.Repo, "alice")
	food := seedTestFood(t, h.Svc.Repo, "Plov", "5.50")

	cAdd, _ := newJSONContext(t, e, http.MethodPost, "/api/v1/cart/items", map[string]any{
		"food_item_id": food.ID,
		"quantity":     2,
	})
	asUser(cAdd, user.ID, "user")
	require.NoError(t, h.AddItem(cAdd))

	cAdj, recAdj := newJSONContext(t, e, http.MethodPatch, "/", map[string]any{"delta": -1})
	cAdj.SetParamNames("food_item_id")
	cAdj.SetParamValues(fmt.Sprint(food.ID))
	asUser(cAdj, user.ID, "user")
	require.NoError(t, h.AdjustItem(cAdj))
	require.Equal(t, http.StatusOK, recAdj.Code)

	var item models.CartItem
	require.NoError(t, json.Unmarshal(recAdj.Body.Bytes(), &item))
	require.Equal(t, uint(1), item.Quantity)

	cDrop, recDrop := newJSONContext(t, e, http.MethodPatch, "/", map[string]any{"delta": -5})
	cDrop.SetParamNames("food_item_id")
	cDrop.SetParamValues(fmt.Sprint(food.ID))
	asUser(cDrop, user.ID, "user")
	require.NoError(t, h.AdjustItem(cDrop))
	require.Equal(t, http.StatusOK, recDrop.Code)
	require.Contains(t, recDrop.Body.String(), "removed")

	cRm, recRm := newJSONContext(t, e, http.MethodDelete, "/", nil)
	cRm.SetParamNames("food_item_id")
	cRm.SetParamValues(fmt.Sprint(food.ID))
	asUser(cRm, user.ID, "user")
	require.NoError(t, h.RemoveItem(cRm))
	require.Equal(t, http.StatusNoContent, recRm.Code)
}

func TestCartRequiresAuthContext(t *testing.T) {
	h := newCartHandler(t)
	e := echo.New()

	c, _ := newJSONContext(t, e, http.MethodGet, "/api/v1/cart", nil)
	err := h.GetCart(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he.Code)
}
