package handlers

import (
	"net/http"
	"strconv"

	"github.com/pribylovaa/go-task-tracker/internal/service"
	"github.com/pribylovaa/go-task-tracker/internal/storage"
	"github.com/pribylovaa/go-task-tracker/internal/transport/http/httperr"
	"github.com/pribylovaa/go-task-tracker/internal/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListTasks возвращает страницу задач текущего пользователя.
// Query-параметры: page, limit, search, status=completed|pending.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
		return
	}

	q := r.URL.Query()

	query := service.ListTasksQuery{
		Search: q.Get("search"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		query.Page = page
	}

	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		query.Limit = limit
	}

	// Неизвестные значения status игнорируются (фильтр не применяется).
	switch q.Get("status") {
	case string(storage.StatusCompleted):
		query.Status = storage.StatusCompleted
	case string(storage.StatusPending):
		query.Status = storage.StatusPending
	}

	page, err := h.service.ListTasks(r.Context(), uid, query)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskListResponse(page))
}

// CreateTask создает новую задачу текущего пользователя.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
		return
	}

	var in createTaskRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteCode(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	task, err := h.service.CreateTask(r.Context(), uid, in.Title, in.Description)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// TaskByID возвращает задачу текущего пользователя.
func (h *Handlers) TaskByID(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
		return
	}

	id, err := taskID(r)
	if err != nil {
		httperr.WriteError(w, r, service.ErrTaskNotFound)
		return
	}

	task, err := h.service.TaskByID(r.Context(), uid, id)
	if err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// UpdateTask применяет частичное обновление задачи текущего пользователя.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
		return
	}

	id, err := taskID(r)
	if err != nil {
		httperr.WriteError(w, r, service.ErrTaskNotFound)
		return
	}

	var in updateTaskRequest
	if err := decodeStrict(r, &in); err != nil {
		httperr.WriteCode(w, r, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	params := service.UpdateTaskParams{
		Title:       in.Title,
		Description: in.Description,
	}

	if err := h.service.UpdateTask(r.Context(), uid, id, params); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task updated"})
}

// DeleteTask удаляет задачу текущего пользователя.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
		return
	}

	id, err := taskID(r)
	if err != nil {
		httperr.WriteError(w, r, service.ErrTaskNotFound)
		return
	}

	if err := h.service.DeleteTask(r.Context(), uid, id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted"})
}

// ToggleTask инвертирует флаг completed задачи текущего пользователя.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		httperr.WriteCode(w, r, http.StatusUnauthorized, "no_token", "no token provided")
		return
	}

	id, err := taskID(r)
	if err != nil {
		httperr.WriteError(w, r, service.ErrTaskNotFound)
		return
	}

	if err := h.service.ToggleTask(r.Context(), uid, id); err != nil {
		httperr.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task toggled"})
}

// taskID парсит UUID задачи из пути. Синтаксически битый ID эквивалентен
// несуществующему: наружу уходит тот же 404.
func taskID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
