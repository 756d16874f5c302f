package notification

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/sirupsen/logrus"

	"itemseek-backend/internal/model"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// SubscriptionSource is the part of the store the workers need.
type SubscriptionSource interface {
	SubscriptionsForTopic(ctx context.Context, kind, recordID string) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// Alert is one notification about a record, fanned out to everyone
// subscribed to that record.
type Alert struct {
	Kind     string `json:"kind"`
	RecordID string `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// WorkerPool manages a pool of workers for sending notifications.
// A nil *WorkerPool accepts and drops every alert.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	subs    SubscriptionSource
	webpush *webpush.Options
	sender  NotificationSender
	log     *logrus.Logger
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, subs SubscriptionSource, webpushOptions *webpush.Options, log *logrus.Logger) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size*16),
		subs:    subs,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
		log:     log,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	if wp == nil {
		return
	}
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	wp.log.Debugf("Notification worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			wp.deliver(ctx, alert)
		case <-ctx.Done():
			wp.log.Debugf("Notification worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert without blocking the caller. Alerts are dropped
// when the queue is full.
func (wp *WorkerPool) Dispatch(alert Alert) bool {
	if wp == nil {
		return false
	}
	select {
	case wp.jobs <- alert:
		return true
	default:
		wp.log.WithFields(logrus.Fields{"kind": alert.Kind, "id": alert.RecordID}).
			Warn("Notification queue full, dropping alert")
		return false
	}
}

// deliver fetches subscribers of the alert's record and pushes to each.
func (wp *WorkerPool) deliver(ctx context.Context, alert Alert) {
	entry := wp.log.WithFields(logrus.Fields{"kind": alert.Kind, "id": alert.RecordID})

	subscriptions, err := wp.subs.SubscriptionsForTopic(ctx, alert.Kind, alert.RecordID)
	if err != nil {
		entry.WithError(err).Error("Error fetching subscriptions")
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		entry.WithError(err).Error("Error encoding alert")
		return
	}

	entry.Infof("Sending %d notifications", len(subscriptions))
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

// sendNotification sends a single web push notification.
func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		wp.log.WithError(err).Warnf("Error sending notification to %s", sub.Endpoint)
		return
	}
	defer resp.Body.Close()

	// Handle expired subscriptions
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		wp.log.Infof("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.subs.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			wp.log.WithError(err).Errorf("Failed to delete expired subscription %s", sub.Endpoint)
		}
	}
}
