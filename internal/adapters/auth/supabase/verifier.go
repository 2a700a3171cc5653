// Package supabase verifica los JWT que emite Supabase Auth (HS256).
package supabase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petoverse-backend/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrSecretEmpty = errors.New("supabase: jwt secret is empty")
	ErrTokenEmpty  = errors.New("supabase: token is empty")
)

// Verifier implementa auth.AuthVerifier contra el JWT secret del proyecto.
// No llama a Supabase: la verificación es local (firma + audience).
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSecretEmpty
	}
	return &Verifier{secret: []byte(secret)}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims jwt.MapClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience("authenticated"),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("supabase: verify token: %w", err)
	}

	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return auth.Claims{}, errors.New("supabase: claims missing sub")
	}
	email, _ := claims["email"].(string)

	return auth.Claims{
		UserID: sub,
		Email:  email,
	}, nil
}
