package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// User — учётная запись в ответах API.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Task — задача в ответах API.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskList — страница списка задач.
type TaskList struct {
	Tasks []Task `json:"tasks"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

// ListTasksParams — параметры фильтрации и пагинации списка.
// Нулевые значения опускаются из запроса, сервер применяет свои умолчания.
type ListTasksParams struct {
	Search string
	Status string // "completed" | "pending"
	Page   int
	Limit  int
}

// UpdateTaskParams — частичное обновление: nil-поле не трогает значение.
type UpdateTaskParams struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type authResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Register регистрирует учётную запись и сохраняет выданную пару токенов.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	if err := c.post(ctx, "/auth/register", credentialsRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}

	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out.User, nil
}

// Login аутентифицирует по email/паролю и сохраняет выданную пару токенов.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var out authResponse
	if err := c.post(ctx, "/auth/login", credentialsRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}

	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out.User, nil
}

// Logout завершает сессию: пара токенов очищается локально в любом случае,
// серверный вызов — уведомительный (сервер состояние сессии не хранит).
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/auth/logout", nil, nil)
	c.clearTokens()
	return err
}

// RefreshTokens принудительно обновляет пару по held refresh-токену.
// При неуспехе пара очищается.
func (c *Client) RefreshTokens(ctx context.Context) error {
	if err := c.refresh(ctx); err != nil {
		c.clearTokens()
		return err
	}
	return nil
}

// ListTasks возвращает страницу задач текущего пользователя.
func (c *Client) ListTasks(ctx context.Context, params ListTasksParams) (*TaskList, error) {
	query := url.Values{}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", params.Status)
	}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}

	var out TaskList
	if err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// CreateTask создаёт задачу.
func (c *Client) CreateTask(ctx context.Context, title, description string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, createTaskRequest{Title: title, Description: description}, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// TaskByID возвращает задачу по идентификатору.
func (c *Client) TaskByID(ctx context.Context, id string) (*Task, error) {
	var out Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// UpdateTask частично обновляет задачу.
func (c *Client) UpdateTask(ctx context.Context, id string, params UpdateTaskParams) error {
	return c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), nil, params, nil)
}

// DeleteTask удаляет задачу.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// ToggleTask инвертирует статус выполнения задачи.
func (c *Client) ToggleTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, nil, nil)
}
