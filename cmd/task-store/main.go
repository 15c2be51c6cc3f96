package main

import (
	"log"
	"task-store/api/server"
	"task-store/config"
	"task-store/logger"
	"task-store/tasks/events"
	"task-store/tasks/service"
	"task-store/tasks/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	lg := logger.New(cfg.LogLevel, nil)

	lg.Info("Starting task store", map[string]any{
		"version":        cfg.Version,
		"port":           cfg.ServerPort,
		"log_level":      cfg.LogLevel,
		"events_backend": cfg.EventsBackend,
	})

	var publisher events.Publisher
	publisher, err = events.New(cfg)
	if err != nil {
		log.Fatalf("events backend: %v", err)
	}
	if cfg.EventsBackend != config.EventsBackendNone {
		// Keep broker latency off the request path
		publisher = events.NewAsyncPublisher(publisher, cfg.EventsWorkers, cfg.EventsBufferSize, lg)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			lg.Warn("failed to close events publisher", map[string]any{
				"error": err.Error(),
			})
		}
	}()

	// Wire up business logic dependencies
	taskStore := store.NewMemoryTaskStore()
	svc := service.NewTaskService(taskStore, publisher, lg)

	srv := server.New(svc, cfg, lg)
	if err := srv.Start(); err != nil {
		lg.Error("server stopped with error", map[string]any{
			"error": err.Error(),
		})
	}
}
