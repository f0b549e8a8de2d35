// service содержит бизнес-логику task-tracker:
// регистрацию/аутентификацию пользователей, выпуск/проверку токенов
// и операции над задачами через интерфейсы из пакета storage.
//
// Основные аспекты:
//   - Пакет не хранит состояние запроса внутри Service; экземпляр Service
//     безопасен для конкурентного использования из разных горутин при условии,
//     что переданное хранилище (storage.Storage) потокобезопасно.
//   - Ошибки возвращаются и далее маппятся транспортом на HTTP-статусы
//     (см. комментарии к переменным ошибок ниже).
package service

import (
	"errors"

	"github.com/pribylovaa/go-task-tracker/internal/config"
	"github.com/pribylovaa/go-task-tracker/internal/storage"
)

var (
	// ErrInvalidCredentials — пара логин/пароль неверна или пользователь не найден.
	// Оба случая намеренно неразличимы снаружи. Транспорт: HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken — токен (access/refresh) некорректен: битый формат,
	// чужая подпись или истекший срок. Причины снаружи неразличимы,
	// чтобы не давать оракула подделки/истечения. Транспорт: HTTP 401.
	ErrInvalidToken = errors.New("invalid token")

	// ErrEmailTaken — e-mail уже занят другим пользователем.
	// Транспорт: HTTP 400.
	ErrEmailTaken = errors.New("email already taken")

	// ErrInvalidEmail — e-mail имеет некорректный формат.
	// Транспорт: HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrWeakPassword — пароль короче минимально допустимой длины.
	// Транспорт: HTTP 400.
	ErrWeakPassword = errors.New("password is too short")

	// ErrInvalidTitle — заголовок задачи пуст.
	// Транспорт: HTTP 400.
	ErrInvalidTitle = errors.New("title must not be empty")

	// ErrTaskNotFound — задача не существует или принадлежит другому пользователю
	// (намеренно неразличимо). Транспорт: HTTP 404.
	ErrTaskNotFound = errors.New("task not found")
)

// Service описывает бизнес-логику task-tracker.
type Service struct {
	storage storage.Storage
	cfg     config.AuthConfig
}

// New создаёт новый экземпляр Service.
func New(storage storage.Storage, cfg config.AuthConfig) *Service {
	return &Service{
		storage: storage,
		cfg:     cfg,
	}
}
