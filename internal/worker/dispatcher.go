package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueSaleCompleted = "jobs:sale_completed"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SaleCompletedPayload is enqueued after a settlement commits. It is the
// only coupling between the atomic unit of work and the notification side:
// fire-and-forget, never able to roll back a settlement.
type SaleCompletedPayload struct {
	TransactionID      string   `json:"transaction_id"`
	LowStockProductIDs []string `json:"low_stock_product_ids,omitempty"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueSaleCompleted pushes a post-commit sale event to Redis.
func (d *Dispatcher) EnqueueSaleCompleted(ctx context.Context, payload SaleCompletedPayload) error {
	return d.enqueue(ctx, QueueSaleCompleted, "sale_completed", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
