package models

import (
	"time"

	"github.com/google/uuid"
)

// Task — задача пользователя.
//
// Инвариант владения: любая операция чтения/изменения задачи выполняется
// только в связке с UserID владельца — задача не видна и не изменяема
// чужим пользователем, даже если её ID известен.
type Task struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPage — страница списка задач вместе с метаданными пагинации.
type TaskPage struct {
	// Tasks — задачи текущей страницы (упорядочены по created_at DESC).
	Tasks []Task
	// Total — общее число задач, подпадающих под фильтр.
	Total int64
	// Page — номер текущей страницы (нумерация с 1).
	Page int
	// Pages — общее число страниц: ceil(Total/Limit).
	Pages int
}
