package api

import (
	"net/http"
	"task-store/config"
	"task-store/logger"
	"task-store/tasks/service"
	"time"
)

var startTime = time.Now()

// HealthResponse provides detailed health information
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Uptime        string `json:"uptime"`
	TaskCount     int    `json:"task_count"`
	EventsBackend string `json:"events_backend"`
	Version       string `json:"version,omitempty"`
}

// NewHealthHandler returns a health check handler
func NewHealthHandler(cfg *config.Config, svc service.TaskService, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.Count(r.Context())
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}

		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:        "healthy",
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
			Uptime:        time.Since(startTime).String(),
			TaskCount:     count,
			EventsBackend: cfg.EventsBackend,
			Version:       cfg.Version,
		}, lg)
	}
}
