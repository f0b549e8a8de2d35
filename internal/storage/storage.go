package storage

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-task-tracker/internal/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound — запись не найдена (пользователь/задача).
	// Для задач возвращается одинаково и для несуществующего ID,
	// и для ID чужого пользователя — существование чужих записей не раскрывается.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email).
	ErrAlreadyExists = errors.New("already exists")
)

// StatusFilter — фильтр списка задач по статусу выполнения.
type StatusFilter string

const (
	// StatusAny — без фильтра по статусу.
	StatusAny StatusFilter = ""
	// StatusCompleted — только выполненные задачи.
	StatusCompleted StatusFilter = "completed"
	// StatusPending — только невыполненные задачи.
	StatusPending StatusFilter = "pending"
)

// TaskFilter — параметры выборки списка задач.
// Offset/Limit приходят уже нормализованными из сервисного слоя.
type TaskFilter struct {
	// Search — подстрока для поиска по title; пустая строка — без фильтра.
	Search string
	// Status — фильтр по флагу completed.
	Status StatusFilter
	// Offset — смещение выборки.
	Offset int
	// Limit — размер страницы.
	Limit int
}

// TaskUpdate — частичное обновление задачи; nil-поле не изменяется.
type TaskUpdate struct {
	Title       *string
	Description *string
}

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// TaskStorage выполняет операции над задачами.
// Каждый метод конъюнктивно добавляет userID владельца в предикат запроса —
// это единственный механизм авторизации данных задач.
type TaskStorage interface {
	// SaveTask создает новую задачу.
	SaveTask(ctx context.Context, task *models.Task) error
	// TaskByID находит задачу по ID в рамках владельца.
	TaskByID(ctx context.Context, userID, id uuid.UUID) (*models.Task, error)
	// ListTasks возвращает страницу задач владельца и общее число задач под фильтром.
	ListTasks(ctx context.Context, userID uuid.UUID, filter TaskFilter) ([]models.Task, int64, error)
	// UpdateTask применяет частичное обновление задачи владельца.
	UpdateTask(ctx context.Context, userID, id uuid.UUID, upd TaskUpdate) error
	// DeleteTask удаляет задачу владельца.
	DeleteTask(ctx context.Context, userID, id uuid.UUID) error
	// ToggleTask атомарно инвертирует флаг completed задачи владельца.
	ToggleTask(ctx context.Context, userID, id uuid.UUID) error
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	TaskStorage
	Close()
}
