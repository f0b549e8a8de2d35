package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-task-tracker/internal/models"
	"github.com/pribylovaa/go-task-tracker/internal/pkg/log"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// issueTokenPair выпускает новую пару access+refresh токенов.
// Оба токена — stateless HS256 JWT: access подписан AccessSecret и живёт
// AccessTokenTTL, refresh подписан независимым RefreshSecret и живёт
// RefreshTokenTTL. Серверного состояния по выпущенным парам нет.
func (s *Service) issueTokenPair(ctx context.Context, userID uuid.UUID) (*models.TokenPair, error) {
	const op = "service.token.issueTokenPair"

	now := time.Now().UTC()

	accessToken, err := s.signToken(ctx, userID, s.cfg.AccessSecret, now, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.signToken(ctx, userID, s.cfg.RefreshSecret, now, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: now.Add(s.cfg.AccessTokenTTL),
	}, nil
}

// signToken подписывает JWT с claims {uid} и стандартными полями срока действия.
func (s *Service) signToken(ctx context.Context, userID uuid.UUID, secret string, now time.Time, ttl time.Duration) (string, error) {
	const op = "service.token.signToken"

	lg := log.From(ctx)

	claims := tokenClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Issuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		lg.Error("token_sign_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// ValidateAccessToken проверяет access-токен и возвращает ID пользователя.
// Любая причина отказа (формат/подпись/срок) снаружи — ErrInvalidToken.
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (uuid.UUID, error) {
	const op = "service.token.ValidateAccessToken"

	uid, err := s.parseToken(ctx, token, s.cfg.AccessSecret)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return uid, nil
}

// verifyRefreshToken проверяет refresh-токен и возвращает ID пользователя.
func (s *Service) verifyRefreshToken(ctx context.Context, token string) (uuid.UUID, error) {
	const op = "service.token.verifyRefreshToken"

	uid, err := s.parseToken(ctx, token, s.cfg.RefreshSecret)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return uid, nil
}

// parseToken валидирует подпись и сроки токена против переданного секрета.
// Истечение срока отличается от подделки только в логах — наружу обе причины
// уходят одинаковым ErrInvalidToken.
func (s *Service) parseToken(ctx context.Context, tokenStr, secret string) (uuid.UUID, error) {
	const op = "service.token.parseToken"

	lg := log.From(ctx)

	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("%s: unexpected signing method", op)
			}

			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(s.cfg.Issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			lg.Warn("token_expired", slog.String("op", op))
		} else {
			lg.Warn("token_invalid", slog.String("op", op))
		}

		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return uid, nil
}
