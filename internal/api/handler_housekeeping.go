package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"itemseek-backend/internal/model"
	"itemseek-backend/internal/notification"
	"itemseek-backend/internal/store"
	"itemseek-backend/internal/transition"
)

// --- Rooms ---

type createRoomRequest struct {
	Number string           `json:"number" binding:"required"`
	Status model.RoomStatus `json:"status"`
}

type patchRoomRequest struct {
	Status      model.RoomStatus `json:"status" binding:"required"`
	LastCleaned *time.Time       `json:"lastCleaned"`
}

// floorQuery parses ?floor=; anything unparseable means no filter.
func floorQuery(c *gin.Context) int {
	floor, err := strconv.Atoi(c.Query("floor"))
	if err != nil || floor < 0 {
		return 0
	}
	return floor
}

// roomID resolves the :id path segment, which may be a record id or a room
// number.
func (h *Handler) roomID(c *gin.Context) (string, error) {
	ref := c.Param("id")
	ctx := c.Request.Context()
	r, err := h.store.GetRoom(ctx, ref)
	if errors.Is(err, store.ErrNotFound) {
		r, err = h.store.GetRoomByNumber(ctx, ref)
	}
	if err != nil {
		return "", err
	}
	return r.ID, nil
}

func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context(), store.RoomFilter{Floor: floorQuery(c)})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *Handler) GetRoom(c *gin.Context) {
	id, err := h.roomID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	r, err := h.store.GetRoom(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *Handler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Status == "" {
		req.Status = model.RoomClean
	}

	r := &model.Room{Number: req.Number}
	if err := transition.SetRoomStatus(r, req.Status, nil, h.now()); err != nil {
		h.respondError(c, err)
		return
	}
	err := h.store.CreateRoom(c.Request.Context(), r)
	respondCreated(h, c, "room", r, err)
}

// PatchRoom sets the status directly. Entering clean stamps lastCleaned with
// the supplied time, or now.
func (h *Handler) PatchRoom(c *gin.Context) {
	var req patchRoomRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	id, err := h.roomID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	r, err := h.store.UpdateRoom(c.Request.Context(), id, func(r *model.Room) error {
		return transition.SetRoomStatus(r, req.Status, req.LastCleaned, h.now())
	})
	respondMutation(h, c, "room", "update", r, err)
}

func (h *Handler) AdvanceRoom(c *gin.Context) {
	id, err := h.roomID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	r, err := h.store.UpdateRoom(c.Request.Context(), id, func(r *model.Room) error {
		return transition.AdvanceRoomStatus(r, h.now())
	})
	respondMutation(h, c, "room", "advance", r, err)
}

// --- Laundry ---

type createLaundryRequest struct {
	Type     string                `json:"type" binding:"required"`
	RoomID   string                `json:"roomId"`
	Weight   *int                  `json:"weight" binding:"omitempty,min=0"`
	Priority model.LaundryPriority `json:"priority" binding:"omitempty,oneof=normal rush express"`
}

type patchLaundryRequest struct {
	Status   *model.LaundryStatus   `json:"status"`
	Weight   *int                   `json:"weight" binding:"omitempty,min=0"`
	Priority *model.LaundryPriority `json:"priority" binding:"omitempty,oneof=normal rush express"`
}

func (h *Handler) ListLaundry(c *gin.Context) {
	loads, err := h.store.ListLaundry(c.Request.Context(), store.LaundryFilter{Status: model.LaundryStatus(c.Query("status"))})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loads)
}

func (h *Handler) GetLaundry(c *gin.Context) {
	l, err := h.store.GetLaundry(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// CreateLaundry always starts a load as dirty.
func (h *Handler) CreateLaundry(c *gin.Context) {
	var req createLaundryRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Priority == "" {
		req.Priority = model.LaundryNormal
	}

	l := &model.LaundryItem{
		Type:     req.Type,
		RoomID:   req.RoomID,
		Status:   model.LaundryDirty,
		Weight:   req.Weight,
		Priority: req.Priority,
	}
	err := h.store.CreateLaundry(c.Request.Context(), l)
	respondCreated(h, c, "laundry", l, err)
}

// PatchLaundry accepts the current status or the next one in the chain.
func (h *Handler) PatchLaundry(c *gin.Context) {
	var req patchLaundryRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	h.mutateLaundry(c, "update", func(l *model.LaundryItem) error {
		if req.Weight != nil {
			l.Weight = req.Weight
		}
		if req.Priority != nil {
			l.Priority = *req.Priority
		}
		if req.Status != nil {
			return transition.SetLaundryStatus(l, *req.Status)
		}
		return nil
	})
}

func (h *Handler) AdvanceLaundry(c *gin.Context) {
	h.mutateLaundry(c, "advance", transition.AdvanceLaundryStatus)
}

// mutateLaundry persists mutate and tells subscribers once a load is clean.
func (h *Handler) mutateLaundry(c *gin.Context, action string, mutate func(*model.LaundryItem) error) {
	var before model.LaundryStatus
	l, err := h.store.UpdateLaundry(c.Request.Context(), c.Param("id"), func(l *model.LaundryItem) error {
		before = l.Status
		return mutate(l)
	})
	respondMutation(h, c, "laundry", action, l, err)
	if err != nil {
		return
	}

	if before != model.LaundryClean && l.Status == model.LaundryClean {
		h.alert(notification.Alert{
			Kind:     model.TopicLaundry,
			RecordID: l.ID,
			Title:    "Laundry ready",
			Body:     fmt.Sprintf("%s is clean and ready for delivery", l.Type),
		})
	}
}
