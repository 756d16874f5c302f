package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"

	"itemseek-backend/config"
	"itemseek-backend/internal/auth"
	"itemseek-backend/internal/notification"
	"itemseek-backend/internal/store"
	"itemseek-backend/internal/transition"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	cfg         *config.Config
	policy      transition.QuantityPolicy
	issuer      *auth.TokenIssuer
	revocations auth.RevocationStore
	alerts      *notification.WorkerPool
	webpush     *webpush.Options
	log         *logrus.Logger
	now         func() time.Time
}

// Deps bundles what NewHandler needs. Alerts and Webpush may be nil when
// push notifications are not configured.
type Deps struct {
	Store       store.Store
	Config      *config.Config
	Issuer      *auth.TokenIssuer
	Revocations auth.RevocationStore
	Alerts      *notification.WorkerPool
	Webpush     *webpush.Options
	Log         *logrus.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		store:       d.Store,
		cfg:         d.Config,
		policy:      policyFor(d.Config),
		issuer:      d.Issuer,
		revocations: d.Revocations,
		alerts:      d.Alerts,
		webpush:     d.Webpush,
		log:         d.Log,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func policyFor(cfg *config.Config) transition.QuantityPolicy {
	if cfg == nil {
		return transition.QuantityPolicy{LowThreshold: 50}
	}
	return transition.QuantityPolicy{
		LowThreshold: cfg.Inventory.LowThreshold,
		Strict:       cfg.Inventory.StrictWithdrawals,
	}
}
