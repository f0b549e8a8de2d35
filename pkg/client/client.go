// client — Go-клиент REST API task-tracker.
//
// Клиент владеет текущей парой токенов (access+refresh) и реализует
// протокол прозрачного обновления сессии:
//
//	Unauthenticated -> (Login/Register) -> Authenticated;
//	Authenticated -> запрос вернул 401 -> Refreshing;
//	Refreshing -> refresh успешен -> Authenticated (повтор запроса ровно один раз);
//	Refreshing -> refresh неуспешен -> Unauthenticated (пара очищена,
//	              вызывающему уходит исходный 401, а не ошибка refresh).
//
// Политика строго single-retry: повторного цикла обновления нет — иначе
// 401 от самого /auth/refresh зациклил бы клиента. Refresh выполняется
// предъявлением refresh-токена, а не упавшего access-токена.
//
// Экземпляр безопасен для конкурентного использования: мьютекс защищает
// только консистентность пары; одновременные 401 из разных горутин
// запускают каждый свой refresh (дедупликация не требуется, сервер
// не инвалидирует прежние пары).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrNoRefreshToken — попытка обновить сессию без refresh-токена на руках.
var ErrNoRefreshToken = errors.New("no refresh token held")

// APIError — ошибка уровня API: HTTP-статус плюс машиночитаемый код
// и сообщение из тела ответа сервера.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d code=%s: %s", e.Status, e.Code, e.Message)
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет транспортный http.Client (по умолчанию — с таймаутом 10s).
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// Client — API-клиент с хранением пары токенов.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// New создаёт клиента для API по указанному базовому URL (без завершающего "/").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Tokens возвращает текущую пару токенов.
func (c *Client) Tokens() (accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

// SetTokens устанавливает пару токенов (например, восстановленную из хранилища).
func (c *Client) SetTokens(accessToken, refreshToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = accessToken
	c.refreshToken = refreshToken
}

// Authenticated сообщает, держит ли клиент пару токенов.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken != "" || c.refreshToken != ""
}

func (c *Client) clearTokens() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = ""
	c.refreshToken = ""
}

func (c *Client) currentAccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) currentRefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshToken
}

// do выполняет авторизованный запрос по протоколу refresh-and-retry:
// текущий access-токен прикладывается к запросу; на 401 выполняется refresh
// по refresh-токену и ровно один повтор; неуспех refresh очищает пару и
// отдаёт вызывающему исходный 401.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body, c.currentAccessToken())
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return finish(resp, out)
	}

	// Исходный 401 сохраняем: именно он уходит вызывающему при неуспехе refresh.
	origErr := decodeAPIError(resp)

	if err := c.refresh(ctx); err != nil {
		c.clearTokens()
		return origErr
	}

	retry, err := c.send(ctx, method, path, query, body, c.currentAccessToken())
	if err != nil {
		return err
	}

	return finish(retry, out)
}

// refresh обменивает held refresh-токен на новую пару и перезаписывает её.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.currentRefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	var out refreshResponse
	if err := c.post(ctx, "/auth/refresh", refreshRequest{RefreshToken: refreshToken}, &out); err != nil {
		return err
	}

	c.SetTokens(out.AccessToken, out.RefreshToken)
	return nil
}

// post выполняет неавторизованный POST (auth-эндпоинты) без retry-логики:
// 401 от /auth/login или /auth/refresh не должен запускать обновление сессии.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.send(ctx, http.MethodPost, path, nil, body, "")
	if err != nil {
		return err
	}

	return finish(resp, out)
}

// send собирает и исполняет один HTTP-запрос.
// Тело маршалится на каждый вызов: повтор запроса требует свежего Reader.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, accessToken string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.httpc.Do(req)
}

// finish закрывает ответ: 2xx декодируется в out, прочее — в APIError.
func finish(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}

	return nil
}

// decodeAPIError читает унифицированный конверт ошибки сервера.
func decodeAPIError(resp *http.Response) *APIError {
	defer resp.Body.Close()

	apiErr := &APIError{Status: resp.StatusCode}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}

	return apiErr
}
