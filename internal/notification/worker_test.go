package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"itemseek-backend/internal/logging"
	"itemseek-backend/internal/model"
	"itemseek-backend/internal/store"
)

// mockSender is a mock implementation of the NotificationSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// Send calls the mock SendFunc.
func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func newTestPool(t *testing.T) (*WorkerPool, sqlmock.Sqlmock) {
	gormDB, mock := newTestDB(t)
	log := logging.Discard()
	return NewWorkerPool(1, store.NewGormStore(gormDB, log), &webpush.Options{}, log), mock
}

const topicQuery = `SELECT .* FROM "push_subscriptions".*JOIN subscription_topics st .*WHERE st\.kind = \$1 AND st\.record_id = \$2`

func TestWorkerPool_Dispatch(t *testing.T) {
	wp, _ := newTestPool(t)

	assert.True(t, wp.Dispatch(Alert{Kind: model.TopicItem, RecordID: "item-1"}))

	select {
	case job := <-wp.jobs:
		assert.Equal(t, "item-1", job.RecordID)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for job to be dispatched")
	}
}

func TestWorkerPool_DispatchFullQueue(t *testing.T) {
	wp, _ := newTestPool(t)
	for i := 0; i < cap(wp.jobs); i++ {
		require.True(t, wp.Dispatch(Alert{Kind: model.TopicItem, RecordID: "item-1"}))
	}
	assert.False(t, wp.Dispatch(Alert{Kind: model.TopicItem, RecordID: "item-2"}))
}

func TestWorkerPool_NilIsNoop(t *testing.T) {
	var wp *WorkerPool
	wp.Start(context.Background())
	assert.False(t, wp.Dispatch(Alert{Kind: model.TopicLaundry, RecordID: "load-1"}))
}

func TestWorkerPool_WorkerLogic(t *testing.T) {
	wp, mock := newTestPool(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	t.Run("sends notification for one subscription", func(t *testing.T) {
		var wg sync.WaitGroup
		wg.Add(1)

		alert := Alert{Kind: model.TopicItem, RecordID: "item-1", Title: "Low stock", Body: "Bath Towels is running low (12 left)"}

		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				defer wg.Done()
				assert.Equal(t, "https://example.com/push", sub.Endpoint)
				var got Alert
				assert.NoError(t, json.Unmarshal(payload, &got))
				assert.Equal(t, alert, got)
				return &http.Response{
					StatusCode: http.StatusCreated,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(topicQuery).
			WithArgs(model.TopicItem, "item-1").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

		wp.Dispatch(alert)
		wg.Wait()
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deletes expired subscription", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGone,
					Body:       io.NopCloser(bytes.NewBufferString("")),
				}, nil
			},
		}

		mock.ExpectQuery(topicQuery).
			WithArgs(model.TopicLaundry, "load-1").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
				AddRow("https://example.com/expired", "p", "a", time.Now()))

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM "subscription_topics" WHERE endpoint = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
			WithArgs("https://example.com/expired").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		wp.Dispatch(Alert{Kind: model.TopicLaundry, RecordID: "load-1", Title: "Laundry ready"})

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("no subscribers sends nothing", func(t *testing.T) {
		wp.sender = &mockSender{
			SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
				t.Error("sender must not be called")
				return nil, nil
			},
		}

		mock.ExpectQuery(topicQuery).
			WithArgs(model.TopicItem, "item-9").
			WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}))

		wp.Dispatch(Alert{Kind: model.TopicItem, RecordID: "item-9"})

		assert.Eventually(t, func() bool {
			return mock.ExpectationsWereMet() == nil
		}, time.Second, 10*time.Millisecond)
	})
}
