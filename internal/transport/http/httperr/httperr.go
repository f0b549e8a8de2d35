// httperr стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает доменную ошибку (сентинелы пакета service),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Для внутренних ошибок (включая ошибки хранилища) наружу уходит единый
// 500/internal; подробности должны попадать в логи на уровне сервиса.
package httperr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-task-tracker/internal/service"
)

// APIError — единый формат ошибки для клиента.
// Code — короткий стабильный код для машиночитаемой обработки.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует доменную ошибку в HTTP-статус и унифицированный ответ.
//
// Маппинг:
//   - ErrInvalidEmail/ErrWeakPassword/ErrInvalidTitle -> 400 validation_error;
//   - ErrEmailTaken -> 400 email_taken;
//   - ErrInvalidCredentials -> 401 invalid_credentials;
//   - ErrInvalidToken -> 401 invalid_token;
//   - ErrTaskNotFound -> 404 not_found;
//   - прочее (в т.ч. ошибки хранилища) -> 500 internal.
func ToHTTP(err error) (int, ErrorResponse) {
	switch {
	case err == nil:
		// Программная ошибка вызова: не маскируем баг ответом "200 OK".
		return internalError()
	case errors.Is(err, service.ErrInvalidEmail):
		return http.StatusBadRequest, response("validation_error", "invalid email format")
	case errors.Is(err, service.ErrWeakPassword):
		return http.StatusBadRequest, response("validation_error", "password must be at least 6 characters")
	case errors.Is(err, service.ErrInvalidTitle):
		return http.StatusBadRequest, response("validation_error", "title must not be empty")
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest, response("email_taken", "email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, response("invalid_credentials", "invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, response("invalid_token", "invalid token")
	case errors.Is(err, service.ErrTaskNotFound):
		return http.StatusNotFound, response("not_found", "task not found")
	default:
		return internalError()
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)
	write(w, r, status, resp)
}

// WriteCode пишет ответ с явным статусом/кодом/сообщением.
// Используется там, где нет доменной ошибки (битый JSON, отсутствие токена).
func WriteCode(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	write(w, r, status, response(code, message))
}

func write(w http.ResponseWriter, r *http.Request, status int, resp ErrorResponse) {
	// Прокидываем request_id, чтобы клиент мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func response(code, message string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: message}}
}

func internalError() (int, ErrorResponse) {
	return http.StatusInternalServerError, response("internal", "internal error")
}
