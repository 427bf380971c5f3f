package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"servicehub/internal/logger"
	"servicehub/internal/metrics"
)

const (
	queueKey  = "notifications"
	failedKey = "notifications:failed"

	maxTries = 3
)

type Dispatcher struct {
	redis       *redis.Client
	writer      MessageWriter
	socketTopic string
	pushTopic   string
	retryDelay  time.Duration
}

func NewDispatcher(rdb *redis.Client, w MessageWriter, socketTopic, pushTopic string) *Dispatcher {
	return &Dispatcher{
		redis:       rdb,
		writer:      w,
		socketTopic: socketTopic,
		pushTopic:   pushTopic,
		retryDelay:  5 * time.Second,
	}
}

// Notify publishes the socket event immediately and queues the push message for the worker.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	data, err := json.Marshal(n)
	if err != nil {
		logger.Error("marshal notification", "kind", n.Kind, "error", err)
		return
	}

	err = d.writer.WriteMessages(ctx, kafka.Message{
		Topic: d.socketTopic,
		Key:   []byte(n.UserID.String()),
		Value: data,
	})
	if err != nil {
		logger.Error("publish socket event", "kind", n.Kind, "user_id", n.UserID, "error", err)
		metrics.RecordNotification("socket", "failed")
	} else {
		metrics.RecordNotification("socket", "success")
	}

	if err := d.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Error("queue push notification", "kind", n.Kind, "user_id", n.UserID, "error", err)
		metrics.RecordNotification("push", "failed")
		return
	}
	logger.Debug("notification queued", "kind", n.Kind, "user_id", n.UserID)
}

// Start drains the push queue until ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	logger.Info("notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("notification worker stopped")
			return
		default:
			d.processNext(ctx)
		}
	}
}

func (d *Dispatcher) processNext(ctx context.Context) {
	result, err := d.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			logger.Error("read notification queue", "error", err)
		}
		return
	}

	var n Notification
	if err := json.Unmarshal([]byte(result[1]), &n); err != nil {
		logger.Error("bad notification data", "error", err)
		return
	}

	n.Tries++
	if err := d.deliver(ctx, n); err != nil {
		logger.Error("deliver push notification", "kind", n.Kind, "user_id", n.UserID, "attempt", n.Tries, "error", err)

		if n.Tries < maxTries {
			// Requeue even on shutdown; only the wait is cut short.
			select {
			case <-ctx.Done():
			case <-time.After(d.retryDelay):
			}
			data, _ := json.Marshal(n)
			d.redis.LPush(context.Background(), queueKey, data)
			return
		}
		d.saveFailed(n, err)
		metrics.RecordNotification("push", "failed")
		return
	}

	metrics.RecordNotification("push", "success")
}

func (d *Dispatcher) deliver(ctx context.Context, n Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return d.writer.WriteMessages(ctx, kafka.Message{
		Topic: d.pushTopic,
		Key:   []byte(n.UserID.String()),
		Value: data,
	})
}

func (d *Dispatcher) saveFailed(n Notification, err error) {
	failed := map[string]interface{}{
		"notification": n,
		"error":        err.Error(),
		"time":         time.Now(),
	}
	data, _ := json.Marshal(failed)
	d.redis.LPush(context.Background(), failedKey, data)
	logger.Error("notification moved to failed queue", "kind", n.Kind, "user_id", n.UserID)
}

func (d *Dispatcher) QueueLength(ctx context.Context) int64 {
	length, err := d.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		logger.Warn("read notification queue length", "error", err)
		return 0
	}
	metrics.NotificationQueueLength.Set(float64(length))
	return length
}

// ReportQueueLength refreshes the queue gauge every interval until ctx is cancelled.
func (d *Dispatcher) ReportQueueLength(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.QueueLength(ctx)
		}
	}
}

func (d *Dispatcher) Close() error {
	return errors.Join(d.writer.Close(), d.redis.Close())
}
