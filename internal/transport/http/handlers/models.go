// Входные/выходные модели REST-слоя. Формат полей — camelCase:
// контракт зеркалит исходный фронтовый клиент.
package handlers

import (
	"time"

	"github.com/pribylovaa/go-task-tracker/internal/models"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// authResponse — ответ register/login: публичная проекция пользователя
// (без хэша пароля) и свежая пара токенов.
type authResponse struct {
	User         userResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:    u.ID.String(),
		Email: u.Email,
	}
}

func toTaskResponse(t *models.Task) taskResponse {
	return taskResponse{
		ID:          t.ID.String(),
		UserID:      t.UserID.String(),
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskListResponse(page *models.TaskPage) taskListResponse {
	tasks := make([]taskResponse, 0, len(page.Tasks))
	for i := range page.Tasks {
		tasks = append(tasks, toTaskResponse(&page.Tasks[i]))
	}

	return taskListResponse{
		Tasks: tasks,
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
	}
}
