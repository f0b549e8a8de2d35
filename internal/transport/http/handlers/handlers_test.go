package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pribylovaa/go-task-tracker/internal/config"
	"github.com/pribylovaa/go-task-tracker/internal/models"
	"github.com/pribylovaa/go-task-tracker/internal/service"
	"github.com/pribylovaa/go-task-tracker/internal/storage"
	transport "github.com/pribylovaa/go-task-tracker/internal/transport/http"
	"github.com/pribylovaa/go-task-tracker/mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Файл e2e-тестов HTTP-слоя: запросы идут через полный роутер
// (chi + middleware) к реальному сервису поверх mocks.MockStorage.
// Проверяются статусы, формат конверта ошибок и работа охранного мидлвара.

type env struct {
	srv *httptest.Server
	st  *mocks.MockStorage
	svc *service.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	st := mocks.NewMockStorage(ctrl)
	svc := service.New(st, config.AuthConfig{
		AccessSecret:    "e2e-access-secret",
		RefreshSecret:   "e2e-refresh-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "task-tracker",
	})

	handler := transport.NewRouter(svc, transport.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &env{srv: srv, st: st, svc: svc}
}

// accessTokenFor — выпускает валидный access-токен через публичный Login.
func (e *env) accessTokenFor(t *testing.T, uid uuid.UUID) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{ID: uid, Email: "user@example.com", PasswordHash: string(hash)}
	e.st.EXPECT().UserByEmail(gomock.Any(), user.Email).Return(user, nil)

	status, body := e.request(t, http.MethodPost, "/auth/login", "",
		map[string]string{"email": user.Email, "password": "secret1"})
	require.Equal(t, http.StatusOK, status)

	var out struct {
		AccessToken string `json:"accessToken"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func (e *env) request(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()

	var envlp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envlp))
	return envlp.Error.Code
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(nil)

	status, body := e.request(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "New@Example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)

	var out struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, "new@example.com", out.User.Email)
	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.RefreshToken)
}

func TestRegister_EmailTaken(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Return(storage.ErrAlreadyExists)

	status, body := e.request(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "dup@example.com", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "email_taken", errorCode(t, body))
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	status, body := e.request(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "not-an-email", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "validation_error", errorCode(t, body))

	status, body = e.request(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "user@example.com", "password": "12345"})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "validation_error", errorCode(t, body))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.st.EXPECT().UserByEmail(gomock.Any(), "unknown@example.com").Return(nil, storage.ErrNotFound)

	status, body := e.request(t, http.MethodPost, "/auth/login", "",
		map[string]string{"email": "unknown@example.com", "password": "secret1"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_credentials", errorCode(t, body))
}

func TestRefresh_OKAndInvalid(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	var savedID uuid.UUID
	e.st.EXPECT().SaveUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *models.User) error {
			savedID = u.ID
			return nil
		})

	status, body := e.request(t, http.MethodPost, "/auth/register", "",
		map[string]string{"email": "user@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)

	var reg struct {
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(body, &reg))

	e.st.EXPECT().UserByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*models.User, error) {
			require.Equal(t, savedID, id)
			return &models.User{ID: id}, nil
		})

	status, body = e.request(t, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refreshToken": reg.RefreshToken})
	require.Equal(t, http.StatusOK, status)

	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.AccessToken)
	require.NotEmpty(t, out.RefreshToken)

	// Невалидный refresh -> 401 invalid_token.
	status, body = e.request(t, http.MethodPost, "/auth/refresh", "",
		map[string]string{"refreshToken": "garbage"})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_token", errorCode(t, body))
}

func TestLogout_OK(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	status, body := e.request(t, http.MethodPost, "/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "Logged out")
}

// TestGuard_NoToken — защищённые маршруты без токена дают 401 no_token.
func TestGuard_NoToken(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	status, body := e.request(t, http.MethodGet, "/tasks", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "no_token", errorCode(t, body))
}

// TestGuard_InvalidToken — битый/чужой токен даёт 401 invalid_token.
func TestGuard_InvalidToken(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	status, body := e.request(t, http.MethodGet, "/tasks", "forged.jwt.token", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "invalid_token", errorCode(t, body))
}

func TestListTasks_OK(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := uuid.New()
	token := e.accessTokenFor(t, uid)

	now := time.Now().UTC()
	tasks := []models.Task{{
		ID:        uuid.New(),
		UserID:    uid,
		Title:     "buy milk",
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	e.st.EXPECT().ListTasks(gomock.Any(), uid, storage.TaskFilter{
		Search: "milk",
		Status: storage.StatusPending,
		Offset: 0,
		Limit:  5,
	}).Return(tasks, int64(1), nil)

	status, body := e.request(t, http.MethodGet, "/tasks?search=milk&status=pending&limit=5", token, nil)
	require.Equal(t, http.StatusOK, status)

	var out struct {
		Tasks []struct {
			Title string `json:"title"`
		} `json:"tasks"`
		Total int `json:"total"`
		Page  int `json:"page"`
		Pages int `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Len(t, out.Tasks, 1)
	require.Equal(t, "buy milk", out.Tasks[0].Title)
	require.Equal(t, 1, out.Total)
	require.Equal(t, 1, out.Page)
	require.Equal(t, 1, out.Pages)
}

func TestCreateTask_Created(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := uuid.New()
	token := e.accessTokenFor(t, uid)

	e.st.EXPECT().SaveTask(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, task *models.Task) error {
			require.Equal(t, uid, task.UserID)
			return nil
		})

	status, body := e.request(t, http.MethodPost, "/tasks", token,
		map[string]string{"title": "buy milk", "description": "2 liters"})
	require.Equal(t, http.StatusCreated, status)

	var out struct {
		UserID string `json:"userId"`
		Title  string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	require.Equal(t, uid.String(), out.UserID)
	require.Equal(t, "buy milk", out.Title)
}

func TestCreateTask_EmptyTitle(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	token := e.accessTokenFor(t, uuid.New())

	status, body := e.request(t, http.MethodPost, "/tasks", token,
		map[string]string{"title": "   "})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "validation_error", errorCode(t, body))
}

// TestTaskByID_NotFoundForForeignAndMalformed — чужая задача и синтаксически
// битый ID наружу неразличимы: оба дают 404 not_found.
func TestTaskByID_NotFoundForForeignAndMalformed(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := uuid.New()
	token := e.accessTokenFor(t, uid)

	foreign := uuid.New()
	e.st.EXPECT().TaskByID(gomock.Any(), uid, foreign).Return(nil, storage.ErrNotFound)

	status, body := e.request(t, http.MethodGet, "/tasks/"+foreign.String(), token, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "not_found", errorCode(t, body))

	status, body = e.request(t, http.MethodGet, "/tasks/not-a-uuid", token, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "not_found", errorCode(t, body))
}

func TestUpdateTask_OK(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := uuid.New()
	token := e.accessTokenFor(t, uid)
	taskID := uuid.New()

	e.st.EXPECT().UpdateTask(gomock.Any(), uid, taskID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ uuid.UUID, upd storage.TaskUpdate) error {
			require.NotNil(t, upd.Title)
			require.Equal(t, "renamed", *upd.Title)
			require.Nil(t, upd.Description)
			return nil
		})

	status, body := e.request(t, http.MethodPatch, "/tasks/"+taskID.String(), token,
		map[string]string{"title": "renamed"})
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "Task updated")
}

func TestDeleteTask_OK(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := uuid.New()
	token := e.accessTokenFor(t, uid)
	taskID := uuid.New()

	e.st.EXPECT().DeleteTask(gomock.Any(), uid, taskID).Return(nil)

	status, body := e.request(t, http.MethodDelete, "/tasks/"+taskID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "Task deleted")
}

func TestToggleTask_OK(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	uid := uuid.New()
	token := e.accessTokenFor(t, uid)
	taskID := uuid.New()

	e.st.EXPECT().ToggleTask(gomock.Any(), uid, taskID).Return(nil)

	status, body := e.request(t, http.MethodPatch, "/tasks/"+taskID.String()+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(body), "Task toggled")
}

func TestBadJSONBody_ValidationError(t *testing.T) {
	t.Parallel()

	e := newEnv(t)

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/auth/register", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "validation_error", errorCode(t, raw))
}
