package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"stacklist_backend/pkg/cleanup"
	"stacklist_backend/pkg/database"
)

func InitCleanupCron() {
	c := cron.New()

	// Hourly; the cleanup_runs guard row keeps this and the HTTP trigger
	// from double-running.
	_, err := c.AddFunc("0 * * * *", func() {
		ran, rejected, err := cleanup.Run(database.GetDB())
		if err != nil {
			log.Printf("Cleanup cron failed: %v", err)
			return
		}
		if ran {
			log.Printf("Cleanup cron finished, %d submissions rejected", rejected)
		}
	})

	if err != nil {
		log.Printf("Could not initialize cleanup cron: %v", err)
		return
	}

	c.Start()
	log.Printf("Cleanup cron initialized successfully")
}
