package view

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Refreshable is anything that can reload itself from the gateway.
type Refreshable interface {
	Refresh(ctx context.Context) error
}

// Refresher reloads a set of views on a fixed interval.
type Refresher struct {
	interval time.Duration
	views    []Refreshable
	log      *logrus.Logger
}

func NewRefresher(interval time.Duration, log *logrus.Logger, views ...Refreshable) *Refresher {
	return &Refresher{interval: interval, views: views, log: log}
}

// Run refreshes every view once, then again after each interval until ctx
// is cancelled. A non-positive interval refreshes once and returns.
func (r *Refresher) Run(ctx context.Context) {
	r.RefreshOnce(ctx)
	if r.interval <= 0 {
		return
	}

	timer := time.NewTimer(r.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("View refresher shutting down")
			return
		case <-timer.C:
			r.RefreshOnce(ctx)
			timer.Reset(r.interval)
		}
	}
}

// RefreshOnce refreshes each view. A failing view is logged and skipped.
func (r *Refresher) RefreshOnce(ctx context.Context) {
	for _, v := range r.views {
		if err := v.Refresh(ctx); err != nil {
			r.log.WithError(err).Warn("View refresh failed")
		}
	}
}
