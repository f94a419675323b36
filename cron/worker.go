package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"velora/config"
	"velora/models"
	"velora/services/offer"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeOfferExpire = "offer:expire"

// AsynqExpiryScheduler arms one expiry task per offer at its deadline.
// Implements offer.ExpiryScheduler.
type AsynqExpiryScheduler struct {
	client *asynq.Client
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// NewAsynqExpiryScheduler creates the task-queue client.
func NewAsynqExpiryScheduler() *AsynqExpiryScheduler {
	return &AsynqExpiryScheduler{client: asynq.NewClient(redisOpts())}
}

// ScheduleExpiry enqueues an expiry check to run at the offer's deadline.
// TaskID dedupes rescheduling for the same offer; the handler itself is
// idempotent either way.
func (s *AsynqExpiryScheduler) ScheduleExpiry(ctx context.Context, offerID string, deadline time.Time) error {
	payload, err := json.Marshal(models.OfferExpirePayload{OfferID: offerID})
	if err != nil {
		return fmt.Errorf("failed to marshal expiry payload: %w", err)
	}
	task := asynq.NewTask(TypeOfferExpire, payload)
	_, err = s.client.EnqueueContext(ctx, task,
		asynq.ProcessAt(deadline),
		asynq.TaskID("expire:"+offerID),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue expiry task for offer %s: %w", offerID, err)
	}
	return nil
}

// InitExpiryWorker runs the async worker in background and starts the
// periodic safety sweep.
func InitExpiryWorker(svc offer.LifecycleService) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOfferExpire, handleExpireTask(svc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// The sweep backstops lost or late deadline tasks; expiry correctness
	// never depends on a task actually firing.
	go runExpirySweep(svc)

	// Start async worker with retry logic
	go func() {
		log.Println("[ExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleExpireTask(svc offer.LifecycleService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.OfferExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExpiryHandler] invalid payload: %v", err)
			return err
		}

		if err := svc.ExpireOffer(ctx, p.OfferID); err != nil {
			log.Printf("[ExpiryHandler] expiry check failed for offer %s: %v", p.OfferID, err)
			return err
		}
		return nil
	}
}

func runExpirySweep(svc offer.LifecycleService) {
	interval := config.AppConfig.ExpirySweepInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := svc.ExpireDue(ctx)
		cancel()
		if err != nil {
			log.Printf("[ExpirySweep] sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("[ExpirySweep] expired %d offer(s)", n)
		}
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ExpiryWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
