// internal/controller/automation_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ReeceHarding/leadify-sub002/internal/queue"
	"github.com/ReeceHarding/leadify-sub002/internal/service"
)

type AutomationController struct {
	AutomationService *service.AutomationService
	Queue             queue.Queue
}

// RunAutomation queues one automation run. The run is long-running, so the
// handler returns 202 immediately; callers poll GetProgress for state.
func (c *AutomationController) RunAutomation(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid automation id", http.StatusBadRequest)
		return
	}

	if err := c.Queue.Publish("automation_runs", id); err != nil {
		http.Error(w, "failed to queue automation run: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"automation_id": id,
		"status":        "queued",
	})
}

func (c *AutomationController) StopAutomation(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid automation id", http.StatusBadRequest)
		return
	}

	if err := c.AutomationService.StopAutomation(id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"automation_id": id,
		"status":        "stopped",
	})
}

func (c *AutomationController) GetProgress(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid automation id", http.StatusBadRequest)
		return
	}

	progress, err := c.AutomationService.GetProgress(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if progress == nil {
		http.Error(w, "automation has never run", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progress)
}

func (c *AutomationController) GetStats(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "invalid automation id", http.StatusBadRequest)
		return
	}

	stats, err := c.AutomationService.GetOutreachStats(id)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"automation_id": id,
		"stats":         stats,
	})
}
