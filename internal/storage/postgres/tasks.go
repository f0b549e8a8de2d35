package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pribylovaa/go-task-tracker/internal/models"
	"github.com/pribylovaa/go-task-tracker/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveTask создает новую задачу.
func (s *Storage) SaveTask(ctx context.Context, task *models.Task) error {
	const op = "storage.postgres.SaveTask"

	query := `
		INSERT INTO tasks(id, user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TaskByID находит задачу по ID в рамках владельца.
// Чужая и несуществующая задача неразличимы: обе дают storage.ErrNotFound.
func (s *Storage) TaskByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	const op = "storage.postgres.TaskByID"

	query := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	var task models.Task
	err := s.db.QueryRow(ctx, query, id, userID).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &task, nil
}

// ListTasks возвращает страницу задач владельца и общее число задач под фильтром.
//
// Фильтры комбинируются конъюнктивно:
//   - user_id = владелец (всегда);
//   - title ILIKE %search% (если Search непустой);
//   - completed = true/false (если Status задан).
//
// Сортировка: created_at DESC, id DESC (стабильный порядок при равных таймстемпах).
func (s *Storage) ListTasks(ctx context.Context, userID uuid.UUID, filter storage.TaskFilter) ([]models.Task, int64, error) {
	const op = "storage.postgres.ListTasks"

	where, args := buildTaskWhere(userID, filter)

	countQuery := "SELECT COUNT(*) FROM tasks " + where

	var total int64
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	listQuery := `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks ` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := s.db.Query(ctx, listQuery, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, filter.Limit)
	for rows.Next() {
		var task models.Task
		if err := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return tasks, total, nil
}

// buildTaskWhere собирает WHERE-часть запроса списка и её аргументы.
func buildTaskWhere(userID uuid.UUID, filter storage.TaskFilter) (string, []any) {
	var sb strings.Builder
	args := []any{userID}

	sb.WriteString("WHERE user_id = $1")

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		sb.WriteString(" AND title ILIKE $" + strconv.Itoa(len(args)))
	}

	switch filter.Status {
	case storage.StatusCompleted:
		sb.WriteString(" AND completed = TRUE")
	case storage.StatusPending:
		sb.WriteString(" AND completed = FALSE")
	}

	return sb.String(), args
}

// UpdateTask применяет частичное обновление задачи владельца.
// Nil-поля не трогаются; updated_at обновляется всегда.
func (s *Storage) UpdateTask(ctx context.Context, userID, id uuid.UUID, upd storage.TaskUpdate) error {
	const op = "storage.postgres.UpdateTask"

	set := []string{"updated_at = now()"}
	args := []any{id, userID}

	if upd.Title != nil {
		args = append(args, *upd.Title)
		set = append(set, "title = $"+strconv.Itoa(len(args)))
	}

	if upd.Description != nil {
		args = append(args, *upd.Description)
		set = append(set, "description = $"+strconv.Itoa(len(args)))
	}

	query := `
		UPDATE tasks
		SET ` + strings.Join(set, ", ") + `
		WHERE id = $1 AND user_id = $2
	`

	cmdTag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteTask удаляет задачу владельца.
func (s *Storage) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	const op = "storage.postgres.DeleteTask"

	query := `
		DELETE FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	cmdTag, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ToggleTask атомарно инвертирует флаг completed задачи владельца.
// Одностейтментный UPDATE: конкурентные переключения сериализуются
// построчной консистентностью БД (last-writer-wins).
func (s *Storage) ToggleTask(ctx context.Context, userID, id uuid.UUID) error {
	const op = "storage.postgres.ToggleTask"

	query := `
		UPDATE tasks
		SET completed = NOT completed, updated_at = now()
		WHERE id = $1 AND user_id = $2
	`

	cmdTag, err := s.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}
