package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Handlers holds the concrete job handlers wired at the composition root.
type Handlers struct {
	SaleCompleted *SaleCompletedWorker
}

// StartWorkerPool launches numWorkers goroutines consuming the sale event
// queue. Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, h *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, h, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, h *Handlers, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueSaleCompleted).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, h, result[1])
		}
	}
}

func processJob(ctx context.Context, h *Handlers, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal job")
		return
	}
	switch job.Type {
	case "sale_completed":
		var payload SaleCompletedPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			log.Error().Err(err).Msg("failed to unmarshal sale_completed payload")
			return
		}
		if h.SaleCompleted != nil {
			h.SaleCompleted.Handle(ctx, payload)
		}
	default:
		log.Warn().Str("type", job.Type).Msg("unknown job type")
	}
}
