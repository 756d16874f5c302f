package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"itemseek-backend/config"
	"itemseek-backend/internal/model"
	"itemseek-backend/internal/transition"
)

type configResponse struct {
	config.BusinessConfig
	ItemStatuses     []model.ItemStatus     `json:"itemStatuses"`
	LocationStatuses []model.LocationStatus `json:"locationStatuses"`
	TaskStatuses     []model.TaskStatus     `json:"taskStatuses"`
	LaundryStatuses  []model.LaundryStatus  `json:"laundryStatuses"`
	RoomStatuses     []model.RoomStatus     `json:"roomStatuses"`
	LowThreshold     int                    `json:"lowThreshold"`
}

// GetConfig handles GET /api/config.
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, configResponse{
		BusinessConfig:   h.cfg.Business,
		ItemStatuses:     []model.ItemStatus{model.ItemAvailable, model.ItemLow, model.ItemOutOfStock},
		LocationStatuses: model.LocationStatuses,
		TaskStatuses:     transition.TaskChain.Steps(),
		LaundryStatuses:  transition.LaundryChain.Steps(),
		RoomStatuses:     model.RoomStatuses,
		LowThreshold:     h.policy.LowThreshold,
	})
}

// Healthz reports whether the database answers.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
