package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/ReeceHarding/leadify-sub002/internal/controller"
	"github.com/ReeceHarding/leadify-sub002/internal/db"
	"github.com/ReeceHarding/leadify-sub002/internal/platform"
	"github.com/ReeceHarding/leadify-sub002/internal/queue"
	"github.com/ReeceHarding/leadify-sub002/internal/repository"
	"github.com/ReeceHarding/leadify-sub002/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()
	q := queue.NewInMemoryQueue()

	automationRepo := &repository.AutomationRepository{DB: db.DB}
	orgRepo := &repository.OrganizationRepository{DB: db.DB}
	outreachRepo := &repository.OutreachRepository{DB: db.DB}
	progressRepo := &repository.ProgressRepository{DB: db.DB}
	monitorRepo := &repository.MonitorRepository{DB: db.DB}
	campaignRepo := &repository.CampaignRepository{DB: db.DB}

	// Mock collaborators; swap for real platform clients in production.
	automationService := service.NewAutomationService(
		automationRepo, orgRepo, outreachRepo, progressRepo,
		&platform.MockDiscoverer{}, &platform.MockEligibilityChecker{},
		&platform.MockGenerator{}, &platform.MockSender{},
	)
	queue.StartAutomationRunSubscriber(q, automationService)

	monitorService := &service.MonitorService{
		MonitorRepo:   monitorRepo,
		CampaignRepo:  campaignRepo,
		Discoverer:    &platform.MockDiscoverer{},
		DiscoverLimit: 25,
	}

	automationController := &controller.AutomationController{
		AutomationService: automationService,
		Queue:             q,
	}
	monitorController := &controller.MonitorController{
		MonitorService: monitorService,
	}

	r := chi.NewRouter()

	// Automation routes
	r.Post("/automations/{id}/run", automationController.RunAutomation)
	r.Post("/automations/{id}/stop", automationController.StopAutomation)
	r.Get("/automations/{id}/progress", automationController.GetProgress)
	r.Get("/automations/{id}/stats", automationController.GetStats)

	// Monitor routes
	r.Post("/monitors/sweep", monitorController.RunSweep)
	r.Get("/campaigns/{campaignId}/monitor", monitorController.GetMonitor)
	r.Put("/campaigns/{campaignId}/monitor", monitorController.UpsertMonitor)

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
