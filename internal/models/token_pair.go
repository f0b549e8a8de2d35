package models

import "time"

// TokenPair — пара токенов, выдаваемая при аутентификации/регистрации.
//
// Описание:
//   - AccessToken — короткоживущий JWT (секрет A) для доступа к API;
//   - RefreshToken — долгоживущий JWT (секрет B), предъявляемый только
//     для выпуска новой пары; серверного состояния по токенам нет —
//     валидность определяется подписью и сроком действия;
//   - AccessExpiresAt — момент истечения access-токена (UTC).
type TokenPair struct {
	// AccessToken — JWT для авторизации запросов.
	AccessToken string
	// RefreshToken — JWT для обновления пары.
	RefreshToken string
	// AccessExpiresAt — время истечения действия access-токена (UTC).
	AccessExpiresAt time.Time
}
