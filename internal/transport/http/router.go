package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-task-tracker/internal/service"
	"github.com/pribylovaa/go-task-tracker/internal/transport/http/handlers"
	"github.com/pribylovaa/go-task-tracker/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),   // безопасно ловим паники
		middleware.RequestID(), // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	// Публичные маршруты аутентификации.
	root.Post("/auth/register", h.Register)
	root.Post("/auth/login", h.Login)
	root.Post("/auth/refresh", h.Refresh)
	root.Post("/auth/logout", h.Logout)

	// Маршруты задач — только за охранным мидлваром.
	root.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(svc))

		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Get("/tasks/{id}", h.TaskByID)
		r.Patch("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)
		r.Patch("/tasks/{id}/toggle", h.ToggleTask)
	})

	return root
}
