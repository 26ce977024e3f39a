// internal/controller/monitor_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ReeceHarding/leadify-sub002/internal/service"
)

type MonitorController struct {
	MonitorService *service.MonitorService
}

// RunSweep processes all due monitors once.
func (c *MonitorController) RunSweep(w http.ResponseWriter, r *http.Request) {
	result, err := c.MonitorService.RunSweep(time.Now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (c *MonitorController) GetMonitor(w http.ResponseWriter, r *http.Request) {
	campaignIDStr := chi.URLParam(r, "campaignId")
	campaignID, err := strconv.Atoi(campaignIDStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	monitor, err := c.MonitorService.GetMonitor(campaignID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if monitor == nil {
		http.Error(w, "no monitor for campaign", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(monitor)
}

func (c *MonitorController) UpsertMonitor(w http.ResponseWriter, r *http.Request) {
	campaignIDStr := chi.URLParam(r, "campaignId")
	campaignID, err := strconv.Atoi(campaignIDStr)
	if err != nil {
		http.Error(w, "invalid campaign id", http.StatusBadRequest)
		return
	}

	var body struct {
		OrganizationID int    `json:"organization_id"`
		Enabled        bool   `json:"enabled"`
		CheckFrequency string `json:"check_frequency"`
		Priority       int    `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	monitor, err := c.MonitorService.UpsertMonitor(campaignID, body.OrganizationID, body.Enabled, body.CheckFrequency, body.Priority)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(monitor)
}
