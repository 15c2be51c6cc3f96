package api

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"task-store/errors"
	"task-store/logger"
	"task-store/tasks"
	"task-store/tasks/service"
)

// NewListTasksHandler serves GET /tasks.
func NewListTasksHandler(svc service.TaskService, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondWithJSON(w, http.StatusOK, list, lg)
	}
}

// NewCreateTaskHandler serves POST /tasks.
func NewCreateTaskHandler(svc service.TaskService, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fields, taskErr := decodeFields(w, r, false)
		if taskErr != nil {
			respondWithError(w, taskErr, lg)
			return
		}

		task, err := svc.Create(r.Context(), fields)
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondWithJSON(w, http.StatusCreated, task, lg)
	}
}

// NewUpdateTaskHandler serves PUT /tasks/{id}. Only fields present in the body
// are overwritten; an empty body leaves the task unchanged.
func NewUpdateTaskHandler(svc service.TaskService, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, taskErr := taskID(r)
		if taskErr != nil {
			respondWithError(w, taskErr, lg)
			return
		}

		fields, taskErr := decodeFields(w, r, true)
		if taskErr != nil {
			respondWithError(w, taskErr, lg)
			return
		}

		task, err := svc.Update(r.Context(), id, fields)
		if err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		respondWithJSON(w, http.StatusOK, task, lg)
	}
}

// NewDeleteTaskHandler serves DELETE /tasks/{id}. Unknown ids still get a 204.
func NewDeleteTaskHandler(svc service.TaskService, lg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, taskErr := taskID(r)
		if taskErr != nil {
			respondWithError(w, taskErr, lg)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			respondWithServiceError(w, err, lg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func taskID(r *http.Request) (int, *errors.TaskError) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidationError("invalid task id", map[string]any{
			"task_id": raw,
		})
	}
	return id, nil
}

func decodeFields(w http.ResponseWriter, r *http.Request, allowEmpty bool) (tasks.Fields, *errors.TaskError) {
	var fields tasks.Fields

	// Decode fails once the limit is exceeded
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	err := json.NewDecoder(r.Body).Decode(&fields)
	switch {
	case err == nil:
		return fields, nil
	case allowEmpty && stderrors.Is(err, io.EOF):
		return fields, nil
	}

	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return fields, errors.NewValidationError("request body too large", map[string]any{
			"max_size_bytes": maxBodySize,
		})
	}

	return fields, errors.NewValidationError("invalid JSON payload", map[string]any{
		"error": err.Error(),
	})
}
