package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"itemseek-backend/internal/model"
	"itemseek-backend/internal/store"
	"itemseek-backend/internal/transition"
)

// respondMutation records the outcome of a write and answers with the
// updated record.
func respondMutation[T any](h *Handler, c *gin.Context, kind, action string, rec *T, err error) {
	mutationResult(kind, action, err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// respondCreated is respondMutation for inserts.
func respondCreated[T any](h *Handler, c *gin.Context, kind string, rec *T, err error) {
	mutationResult(kind, "create", err)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// --- Locations ---

type createLocationRequest struct {
	Name   string               `json:"name" binding:"required"`
	Type   string               `json:"type"`
	Status model.LocationStatus `json:"status"`
}

type patchLocationRequest struct {
	Status *model.LocationStatus `json:"status"`
	Name   *string               `json:"name"`
	Type   *string               `json:"type"`
}

func (h *Handler) ListLocations(c *gin.Context) {
	locations, err := h.store.ListLocations(c.Request.Context(), store.LocationFilter{Type: c.Query("type")})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (h *Handler) GetLocation(c *gin.Context) {
	l, err := h.store.GetLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (h *Handler) CreateLocation(c *gin.Context) {
	var req createLocationRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Status == "" {
		req.Status = model.LocationAvailable
	}
	if err := transition.SetLocation(req.Status); err != nil {
		h.respondError(c, err)
		return
	}

	l := &model.Location{Name: req.Name, Type: req.Type, Status: req.Status}
	err := h.store.CreateLocation(c.Request.Context(), l)
	respondCreated(h, c, "location", l, err)
}

// PatchLocation sets any known status directly.
func (h *Handler) PatchLocation(c *gin.Context) {
	var req patchLocationRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	l, err := h.store.UpdateLocation(c.Request.Context(), c.Param("id"), func(l *model.Location) error {
		if req.Name != nil {
			l.Name = *req.Name
		}
		if req.Type != nil {
			l.Type = *req.Type
		}
		if req.Status != nil {
			return transition.SetLocationStatus(l, *req.Status)
		}
		return nil
	})
	respondMutation(h, c, "location", "update", l, err)
}

// AdvanceLocation toggles between available and occupied.
func (h *Handler) AdvanceLocation(c *gin.Context) {
	l, err := h.store.UpdateLocation(c.Request.Context(), c.Param("id"), transition.AdvanceLocationStatus)
	respondMutation(h, c, "location", "advance", l, err)
}

// --- Tasks ---

type createTaskRequest struct {
	Type        string             `json:"type" binding:"required"`
	TargetID    string             `json:"targetId"`
	Description string             `json:"description"`
	Assignee    string             `json:"assignee"`
	Priority    model.TaskPriority `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueDate     *time.Time         `json:"dueDate"`
}

type patchTaskRequest struct {
	Status   *model.TaskStatus   `json:"status"`
	Assignee *string             `json:"assignee"`
	Priority *model.TaskPriority `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueDate  *time.Time          `json:"dueDate"`
}

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.store.ListTasks(c.Request.Context(), store.TaskFilter{Status: model.TaskStatus(c.Query("status"))})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c *gin.Context) {
	t, err := h.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	if req.Priority == "" {
		req.Priority = model.PriorityNormal
	}

	t := &model.Task{
		Type:        req.Type,
		TargetID:    req.TargetID,
		Description: req.Description,
		Assignee:    req.Assignee,
		Priority:    req.Priority,
		Status:      model.TaskPending,
		DueDate:     req.DueDate,
	}
	err := h.store.CreateTask(c.Request.Context(), t)
	respondCreated(h, c, "task", t, err)
}

// PatchTask never moves a task backwards.
func (h *Handler) PatchTask(c *gin.Context) {
	var req patchTaskRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}
	t, err := h.store.UpdateTask(c.Request.Context(), c.Param("id"), func(t *model.Task) error {
		if req.Assignee != nil {
			t.Assignee = *req.Assignee
		}
		if req.Priority != nil {
			t.Priority = *req.Priority
		}
		if req.DueDate != nil {
			t.DueDate = req.DueDate
		}
		if req.Status != nil {
			return transition.SetTaskStatus(t, *req.Status, h.now())
		}
		return nil
	})
	respondMutation(h, c, "task", "update", t, err)
}

func (h *Handler) AdvanceTask(c *gin.Context) {
	t, err := h.store.UpdateTask(c.Request.Context(), c.Param("id"), func(t *model.Task) error {
		return transition.AdvanceTaskStatus(t, h.now())
	})
	respondMutation(h, c, "task", "advance", t, err)
}
