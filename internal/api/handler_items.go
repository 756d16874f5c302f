package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"itemseek-backend/internal/metrics"
	"itemseek-backend/internal/model"
	"itemseek-backend/internal/notification"
	"itemseek-backend/internal/store"
)

// errStatusMismatch is returned when a client names an item status that
// differs from the one its quantity implies.
var errStatusMismatch = errors.New("status does not match quantity")

type createItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0,max=1000000000000"`
	Unit     string `json:"unit"`
	Category string `json:"category"`
	Location string `json:"location"`
}

type patchItemRequest struct {
	Status   *model.ItemStatus `json:"status"`
	Delta    *int              `json:"delta"`
	Reason   string            `json:"reason"`
	Name     *string           `json:"name"`
	Unit     *string           `json:"unit"`
	Category *string           `json:"category"`
	Location *string           `json:"location"`
}

type transactRequest struct {
	Type     string `json:"type" binding:"required,oneof=in out"`
	Quantity int    `json:"quantity" binding:"required,gt=0,lte=1000000000"`
	Reason   string `json:"reason"`
}

// ListItems handles GET /api/items.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.store.ListItems(c.Request.Context(), store.ItemFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetItem handles GET /api/items/:id.
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.store.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem handles POST /api/items. The status is derived, never taken
// from the body.
func (h *Handler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	item := &model.Item{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
		Location: req.Location,
	}
	item.Status = h.policy.Status(item.Quantity)

	err := h.store.CreateItem(c.Request.Context(), item)
	mutationResult("item", "create", err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// PatchItem handles PATCH /api/items/:id. A delta goes through the quantity
// rule and is audited; a status, if given, must agree with the result.
func (h *Handler) PatchItem(c *gin.Context) {
	var req patchItemRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Status != nil && *req.Status != model.ItemAvailable && *req.Status != model.ItemLow && *req.Status != model.ItemOutOfStock {
		h.respondError(c, fmt.Errorf("%w: unknown item status %q", errStatusMismatch, *req.Status))
		return
	}

	h.mutateItem(c, "update", func(item *model.Item) (*model.StockTransaction, error) {
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Location != nil {
			item.Location = *req.Location
		}

		var entry *model.StockTransaction
		if req.Delta != nil {
			var err error
			if entry, err = h.applyDelta(item, *req.Delta, req.Reason, actor(c)); err != nil {
				return nil, err
			}
		}

		if req.Status != nil && *req.Status != item.Status {
			return nil, fmt.Errorf("%w: quantity %d is %q", errStatusMismatch, item.Quantity, item.Status)
		}
		return entry, nil
	})
}

// TransactItem handles POST /api/items/:id/transact.
func (h *Handler) TransactItem(c *gin.Context) {
	var req transactRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	delta := req.Quantity
	if req.Type == model.MovementOut {
		delta = -delta
	}

	h.mutateItem(c, "transact", func(item *model.Item) (*model.StockTransaction, error) {
		return h.applyDelta(item, delta, req.Reason, actor(c))
	})
}

// ListItemTransactions handles GET /api/items/:id/transactions.
func (h *Handler) ListItemTransactions(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	if _, err := h.store.GetItem(ctx, id); err != nil {
		h.respondError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.store.ListStockTransactions(ctx, id, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) applyDelta(item *model.Item, delta int, reason, who string) (*model.StockTransaction, error) {
	change, err := h.policy.ApplyToItem(item, delta)
	if err != nil {
		return nil, err
	}
	movement := change.Transaction()
	movement.Reason = reason
	movement.Actor = who
	return movement, nil
}

// mutateItem persists mutate and raises a stock alert when the item drops
// into low or out of stock.
func (h *Handler) mutateItem(c *gin.Context, action string, mutate store.ItemMutation) {
	var before model.ItemStatus
	var entry *model.StockTransaction
	item, err := h.store.UpdateItem(c.Request.Context(), c.Param("id"), func(item *model.Item) (*model.StockTransaction, error) {
		before = item.Status
		var err error
		entry, err = mutate(item)
		return entry, err
	})
	mutationResult("item", action, err)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if entry != nil {
		metrics.StockMovements.WithLabelValues(entry.Type).Add(float64(entry.Quantity))
	}
	if item.Status != before && item.Status != model.ItemAvailable {
		h.alert(notification.Alert{
			Kind:     model.TopicItem,
			RecordID: item.ID,
			Title:    stockAlertTitle(item.Status),
			Body:     fmt.Sprintf("%s: %d %s left", item.Name, item.Quantity, item.Unit),
		})
	}
	c.JSON(http.StatusOK, item)
}

func stockAlertTitle(s model.ItemStatus) string {
	if s == model.ItemOutOfStock {
		return "Out of stock"
	}
	return "Running low"
}

func (h *Handler) alert(a notification.Alert) {
	if h.alerts.Dispatch(a) {
		metrics.AlertsDispatched.WithLabelValues(a.Kind).Inc()
	}
}
