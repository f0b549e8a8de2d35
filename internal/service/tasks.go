package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pribylovaa/go-task-tracker/internal/models"
	"github.com/pribylovaa/go-task-tracker/internal/storage"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ListTasksQuery — параметры списка задач, как они приходят с транспорта.
// Нулевые значения нормализуются: Page < 1 -> 1, Limit < 1 -> 10.
type ListTasksQuery struct {
	Search string
	Status storage.StatusFilter
	Page   int
	Limit  int
}

// UpdateTaskParams — частичное обновление задачи; nil-поле не изменяется.
type UpdateTaskParams struct {
	Title       *string
	Description *string
}

// ListTasks возвращает страницу задач владельца с метаданными пагинации.
func (s *Service) ListTasks(ctx context.Context, userID uuid.UUID, query ListTasksQuery) (*models.TaskPage, error) {
	const op = "service.tasks.ListTasks"

	page := query.Page
	if page < 1 {
		page = 1
	}

	limit := query.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	filter := storage.TaskFilter{
		Search: strings.TrimSpace(query.Search),
		Status: query.Status,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}

	tasks, total, err := s.storage.ListTasks(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pages := int((total + int64(limit) - 1) / int64(limit))

	return &models.TaskPage{
		Tasks: tasks,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

// CreateTask создает новую задачу владельца.
func (s *Service) CreateTask(ctx context.Context, userID uuid.UUID, title, description string) (*models.Task, error) {
	const op = "service.tasks.CreateTask"

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTitle)
	}

	now := time.Now().UTC()
	task := &models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.storage.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

// TaskByID возвращает задачу владельца по ID.
func (s *Service) TaskByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	const op = "service.tasks.TaskByID"

	task, err := s.storage.TaskByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return task, nil
}

// UpdateTask применяет частичное обновление задачи владельца.
// Пустой набор полей — no-op с проверкой существования задачи.
func (s *Service) UpdateTask(ctx context.Context, userID, id uuid.UUID, params UpdateTaskParams) error {
	const op = "service.tasks.UpdateTask"

	if params.Title != nil {
		trimmed := strings.TrimSpace(*params.Title)
		if trimmed == "" {
			return fmt.Errorf("%s: %w", op, ErrInvalidTitle)
		}
		params.Title = &trimmed
	}

	if params.Title == nil && params.Description == nil {
		if _, err := s.TaskByID(ctx, userID, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		return nil
	}

	upd := storage.TaskUpdate{
		Title:       params.Title,
		Description: params.Description,
	}

	if err := s.storage.UpdateTask(ctx, userID, id, upd); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteTask удаляет задачу владельца.
func (s *Service) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	const op = "service.tasks.DeleteTask"

	if err := s.storage.DeleteTask(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ToggleTask инвертирует флаг completed задачи владельца.
func (s *Service) ToggleTask(ctx context.Context, userID, id uuid.UUID) error {
	const op = "service.tasks.ToggleTask"

	if err := s.storage.ToggleTask(ctx, userID, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrTaskNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
