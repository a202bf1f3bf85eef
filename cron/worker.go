package cron

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"

	"campusshuttle/config"
	slotSvc "campusshuttle/services/slot"
)

// TypeGenerateNext is the daily slot-generation task.
const TypeGenerateNext = "slots:generate-next"

// CronSpec converts a "HH:MM" trigger time into a cron expression.
func CronSpec(at string) (string, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid trigger time %q, expected HH:MM", at)
	}
	return fmt.Sprintf("%s %s * * *", strings.TrimPrefix(parts[1], "0"), strings.TrimPrefix(parts[0], "0")), nil
}

// InitSlotWorker runs the async worker and the daily scheduler in background.
// The worker owns the unattended generation path: nothing waits on it, and a
// failed run only logs — the next day's trigger (or an admin manual run)
// regenerates idempotently.
func InitSlotWorker(generator slotSvc.Service) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeGenerateNext, handleGenerateNext(generator))

	// Start Redis health monitor
	go monitorRedisConnection()

	go func() {
		log.Println("[SlotWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[SlotWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[SlotWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()

	go func() {
		spec, err := CronSpec(config.AppConfig.DailyGenerateAt)
		if err != nil {
			log.Printf("[SlotScheduler] %v; daily trigger disabled", err)
			return
		}

		scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{
			Location: config.ShuttleTimezone(),
		})
		if _, err := scheduler.Register(spec, asynq.NewTask(TypeGenerateNext, nil)); err != nil {
			log.Printf("[SlotScheduler] Failed to register daily trigger: %v", err)
			return
		}
		log.Printf("[SlotScheduler] Daily slot generation scheduled at %s", config.AppConfig.DailyGenerateAt)
		if err := scheduler.Run(); err != nil {
			log.Printf("[SlotScheduler] Scheduler stopped: %v", err)
		}
	}()
}

func handleGenerateNext(generator slotSvc.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		ran, err := generator.GenerateTomorrow(ctx)
		if err != nil {
			log.Printf("[SlotGenerator] Generation finished with errors: %v", err)
			return err
		}
		if !ran {
			log.Println("[SlotGenerator] Tomorrow is a non-operating day, nothing to generate")
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[SlotWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
