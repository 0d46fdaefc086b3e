package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/farmstead/farmstead-backend/internal/farm/repository"
	"github.com/farmstead/farmstead-backend/internal/farm/service"
	"github.com/farmstead/farmstead-backend/pkg/httputil"
	"github.com/farmstead/farmstead-backend/pkg/logger"
)

// TaskHandler handles farm task endpoints
type TaskHandler struct {
	service *service.FarmService
	logger  *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(svc *service.FarmService, log *logger.Logger) *TaskHandler {
	return &TaskHandler{
		service: svc,
		logger:  log,
	}
}

// List lists tasks with optional farm_id and completed filters
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var completed *bool
	if v := q.Get("completed"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			completed = &b
		}
	}

	tasks, err := h.service.ListTasks(r.Context(), q.Get("farm_id"), completed)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, tasks)
}

// Get gets a task by ID
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.service.GetTask(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// Create creates a new task
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var task repository.FarmTask
	if err := httputil.DecodeJSON(r, &task); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateTask(r.Context(), &task); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, task)
}

// Update updates a task
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var task repository.FarmTask
	if err := httputil.DecodeJSON(r, &task); err != nil {
		httputil.Error(w, err)
		return
	}

	task.ID = id
	if err := h.service.UpdateTask(r.Context(), &task); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// Toggle flips a task's completion state
func (h *TaskHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	task, err := h.service.ToggleTask(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, task)
}

// Delete deletes a task
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}
