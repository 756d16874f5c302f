package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"itemseek-backend/internal/model"
)

type topicRequest struct {
	Kind string `json:"kind" binding:"required,oneof=item laundry"`
	ID   string `json:"id" binding:"required"`
}

type putSubscriptionRequest struct {
	Endpoint string         `json:"endpoint" binding:"required,url"`
	P256DH   string         `json:"p256dh" binding:"required"`
	Auth     string         `json:"auth" binding:"required"`
	Topics   []topicRequest `json:"topics" binding:"dive"`
}

// PutSubscription creates or replaces a subscription and the records it follows.
func (h *Handler) PutSubscription(c *gin.Context) {
	var req putSubscriptionRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	subscription := &model.PushSubscription{
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
	}
	for _, t := range req.Topics {
		subscription.Topics = append(subscription.Topics, model.SubscriptionTopic{Kind: t.Kind, RecordID: t.ID})
	}

	if err := h.store.PutSubscription(c.Request.Context(), subscription); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

type deleteSubscriptionRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// DeleteSubscription handles the deletion of a subscription.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var req deleteSubscriptionRequest
	if err := bindJSON(c, &req); err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.store.DeleteSubscription(c.Request.Context(), req.Endpoint); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// rawQueryParam reads key without URL-decoding it; push endpoints are
// stored exactly as the browser reported them.
func rawQueryParam(rawQuery, key string) (string, bool) {
	for _, kv := range strings.Split(rawQuery, "&") {
		if strings.HasPrefix(kv, key+"=") {
			return kv[len(key)+1:], true
		}
	}
	return "", false
}

// GetSubscription returns the topics an endpoint follows.
func (h *Handler) GetSubscription(c *gin.Context) {
	raw, ok := rawQueryParam(c.Request.URL.RawQuery, "endpoint")
	if !ok || raw == "" {
		h.respondError(c, badRequest("endpoint is required"))
		return
	}

	subscription, err := h.store.GetSubscription(c.Request.Context(), raw)
	if err != nil {
		h.respondError(c, err)
		return
	}

	topics := subscription.Topics
	if topics == nil {
		topics = []model.SubscriptionTopic{}
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
