package models

import (
	"time"

	"github.com/google/uuid"
)

// User — модель пользователя в системе.
// Email хранится в нормализованном виде (lower case, без внешних пробелов).
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
