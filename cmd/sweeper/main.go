package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/ReeceHarding/leadify-sub002/internal/db"
	"github.com/ReeceHarding/leadify-sub002/internal/platform"
	"github.com/ReeceHarding/leadify-sub002/internal/repository"
	"github.com/ReeceHarding/leadify-sub002/internal/service"
)

// The sweeper is the external time-based trigger: due-ness itself is
// computed from each monitor's stored next_check_at, so the cron interval
// only bounds scheduling precision.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	db.Init()

	monitorService := &service.MonitorService{
		MonitorRepo:   &repository.MonitorRepository{DB: db.DB},
		CampaignRepo:  &repository.CampaignRepository{DB: db.DB},
		Discoverer:    &platform.MockDiscoverer{},
		DiscoverLimit: 25,
	}

	spec := os.Getenv("SWEEP_SCHEDULE")
	if spec == "" {
		spec = "*/5 * * * *"
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		start := time.Now()
		result, err := monitorService.RunSweep(start)
		if err != nil {
			log.Println("⚠️ monitor sweep failed:", err)
			return
		}
		log.Printf("Sweep done in %v: checked=%d found=%d", time.Since(start), result.Checked, result.Found)
	})
	if err != nil {
		log.Fatal("failed to schedule sweep:", err)
	}

	log.Printf("Sweeper running (schedule %q)", spec)
	c.Run()
}
