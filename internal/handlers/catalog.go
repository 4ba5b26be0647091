package handlers

import (
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/canteen/internal/logging"
	"github.com/Skotchmaster/canteen/internal/models"
	"github.com/Skotchmaster/canteen/internal/mykafka"
	"github.com/Skotchmaster/canteen/internal/service"
	"github.com/Skotchmaster/canteen/internal/service/search"
	"github.com/Skotchmaster/canteen/internal/util"
)

type CatalogHandler struct {
	Svc      *service.CatalogService
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	categories, err := h.Svc.ListCategories(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *CatalogHandler) ListFoodItems(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)

	var categoryID *uint
	if raw := c.QueryParam("category_id"); raw != "" {
		id := uint(parseIntDefault(raw, 0))
		if id == 0 {
			return errorResponse(c, http.StatusBadRequest, fmt.Errorf("invalid category_id"))
		}
		categoryID = &id
	}

	result, err := h.Svc.ListFoodItems(c.Request().Context(), categoryID, page, size)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": result.Items,
		"meta": map[string]any{
			"page":        result.Page,
			"size":        result.Size,
			"total":       result.Total,
			"total_pages": (result.Total + int64(result.Size) - 1) / int64(result.Size),
		},
	})
}

func (h *CatalogHandler) GetFoodItem(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	detail, err := h.Svc.GetFoodItem(c.Request().Context(), id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(c.Request().Context(), req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.UpdateCategory(c.Request().Context(), id, req.Name, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.Svc.DeleteCategory(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHandler) CreateFoodItem(c echo.Context) error {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Price       decimal.Decimal `json:"price"`
		CategoryID  uint            `json:"category_id"`
		ImagePath   string          `json:"image_path"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.CreateFoodItem(c.Request().Context(), service.FoodItemInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImagePath:   req.ImagePath,
	})
	if err != nil {
		return serviceError(c, err)
	}

	h.indexFoodItem(c, item)
	publish(c, h.Producer, "food_events", fmt.Sprint(item.ID), map[string]any{
		"type":       "food_item_created",
		"foodItemID": item.ID,
		"name":       item.Name,
	})

	return c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) PatchFoodItem(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req struct {
		Name        *string          `json:"name"`
		Description *string          `json:"description"`
		Price       *decimal.Decimal `json:"price"`
		CategoryID  *uint            `json:"category_id"`
		ImagePath   *string          `json:"image_path"`
		Available   *bool            `json:"available"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateFoodItem(c.Request().Context(), id, service.FoodItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		CategoryID:  req.CategoryID,
		ImagePath:   req.ImagePath,
		Available:   req.Available,
	})
	if err != nil {
		return serviceError(c, err)
	}

	h.indexFoodItem(c, item)
	publish(c, h.Producer, "food_events", fmt.Sprint(item.ID), map[string]any{
		"type":       "food_item_updated",
		"foodItemID": item.ID,
	})

	return c.JSON(http.StatusOK, item)
}

func (h *CatalogHandler) DeleteFoodItem(c echo.Context) error {
	id, err := uintParam(c, "id")
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.Svc.DisableFoodItem(c.Request().Context(), id); err != nil {
		return serviceError(c, err)
	}

	if h.ES != nil {
		if err := search.DeleteFoodItem(c.Request().Context(), h.ES, h.Index, id); err != nil {
			logging.FromContext(c.Request().Context()).Error("es_delete_failed", "food_item_id", id, "error", err)
		}
	}
	publish(c, h.Producer, "food_events", fmt.Sprint(id), map[string]any{
		"type":       "food_item_disabled",
		"foodItemID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// indexFoodItem mirrors the item into the search index, best effort.
func (h *CatalogHandler) indexFoodItem(c echo.Context, item *models.FoodItem) {
	if h.ES == nil {
		return
	}
	if err := search.IndexFoodItem(c.Request().Context(), h.ES, h.Index, item); err != nil {
		logging.FromContext(c.Request().Context()).Error("es_index_failed", "food_item_id", item.ID, "error", err)
	}
}
