package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"teamboard/services"
)

// StartScheduler runs the recurrence generator on spec, a six-field cron
// expression (seconds first). It returns the running cron; call Stop on shutdown.
func StartScheduler(spec string, generator *services.RecurrenceGenerator) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		result, err := generator.ProcessRecurringTasks(ctx)
		if err != nil {
			log.Printf("Recurrence job failed: %v", err)
			return
		}
		if result.TotalCount > 0 {
			log.Printf("Recurrence job: %d found, %d generated, %d skipped, %d errors",
				result.TotalCount, result.Generated, result.Skipped, result.ErrorCount)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("Scheduler started (%s)", spec)
	return c, nil
}
