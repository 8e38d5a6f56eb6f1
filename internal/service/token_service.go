package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

// tokenStore is the persistence contract for non-access tokens.
type tokenStore interface {
	Save(ctx context.Context, t model.Token) error
	FindActive(ctx context.Context, token string, tokenType string) (model.Token, error)
	Delete(ctx context.Context, id string) error
	DeleteAllForUser(ctx context.Context, userID string, tokenType string) error
}

type emailLookup interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// TokenTTLs holds the per-type lifetimes injected at startup.
type TokenTTLs struct {
	Access        time.Duration
	Refresh       time.Duration
	ResetPassword time.Duration
	VerifyEmail   time.Duration
}

type TokenService struct {
	secret []byte
	ttls   TokenTTLs
	store  tokenStore
	users  emailLookup
}

func NewTokenService(secret string, ttls TokenTTLs, store tokenStore, users emailLookup) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttls:   ttls,
		store:  store,
		users:  users,
	}
}

// Generate signs a token carrying subject, issued-at, expiry and type.
func (s *TokenService) Generate(userID string, expires time.Time, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"iat":  time.Now().UTC().Unix(),
		"exp":  expires.Unix(),
		"type": tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Save persists a non-access token so it can later be verified and revoked.
func (s *TokenService) Save(ctx context.Context, token string, userID string, expires time.Time, tokenType string) (model.Token, error) {
	record := model.Token{
		ID:          uuid.NewString(),
		Token:       token,
		UserID:      userID,
		Type:        tokenType,
		Expires:     expires,
		Blacklisted: false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.Save(ctx, record); err != nil {
		return model.Token{}, err
	}
	return record, nil
}

// Verify decodes and signature-checks a token and enforces its type. For
// persisted types it additionally requires a matching stored record whose
// subject agrees with the signed claims; signature validity alone is not
// sufficient for single-use tokens.
func (s *TokenService) Verify(ctx context.Context, tokenString string, expectedType string) (model.Token, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Token{}, model.ErrTokenExpired
		}
		return model.Token{}, model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return model.Token{}, model.ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	tokenType, _ := claims["type"].(string)
	if subject == "" || tokenType != expectedType {
		return model.Token{}, model.ErrInvalidToken
	}

	// Access tokens are stateless; everything else must still exist in the store.
	if expectedType == model.TokenTypeAccess {
		expires, _ := claims.GetExpirationTime()
		record := model.Token{Token: tokenString, UserID: subject, Type: tokenType}
		if expires != nil {
			record.Expires = expires.Time
		}
		return record, nil
	}

	record, err := s.store.FindActive(ctx, tokenString, expectedType)
	if err != nil {
		return model.Token{}, err
	}
	if record.UserID != subject {
		return model.Token{}, model.ErrTokenNotFound
	}
	return record, nil
}

// GenerateAuthTokens issues the access/refresh pair for a user. The access
// token is short-lived and stateless; the refresh token is persisted for
// single-use rotation.
func (s *TokenService) GenerateAuthTokens(ctx context.Context, user model.User) (model.AuthTokens, error) {
	now := time.Now().UTC()

	accessExpires := now.Add(s.ttls.Access)
	accessToken, err := s.Generate(user.ID, accessExpires, model.TokenTypeAccess)
	if err != nil {
		return model.AuthTokens{}, err
	}

	refreshExpires := now.Add(s.ttls.Refresh)
	refreshToken, err := s.Generate(user.ID, refreshExpires, model.TokenTypeRefresh)
	if err != nil {
		return model.AuthTokens{}, err
	}

	if _, err := s.Save(ctx, refreshToken, user.ID, refreshExpires, model.TokenTypeRefresh); err != nil {
		return model.AuthTokens{}, err
	}

	return model.AuthTokens{
		Access:  model.TokenWithExpiry{Token: accessToken, Expires: accessExpires},
		Refresh: model.TokenWithExpiry{Token: refreshToken, Expires: refreshExpires},
	}, nil
}

// GenerateResetPasswordToken issues and persists a reset token for the user
// holding the given email.
func (s *TokenService) GenerateResetPasswordToken(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return "", apierror.New("NOT_FOUND", "User not found", "", http.StatusNotFound)
		}
		return "", err
	}

	expires := time.Now().UTC().Add(s.ttls.ResetPassword)
	token, err := s.Generate(user.ID, expires, model.TokenTypeResetPassword)
	if err != nil {
		return "", err
	}

	if _, err := s.Save(ctx, token, user.ID, expires, model.TokenTypeResetPassword); err != nil {
		return "", err
	}
	return token, nil
}

// GenerateVerifyEmailToken issues and persists an email verification token.
func (s *TokenService) GenerateVerifyEmailToken(ctx context.Context, user model.User) (string, error) {
	expires := time.Now().UTC().Add(s.ttls.VerifyEmail)
	token, err := s.Generate(user.ID, expires, model.TokenTypeVerifyEmail)
	if err != nil {
		return "", err
	}

	if _, err := s.Save(ctx, token, user.ID, expires, model.TokenTypeVerifyEmail); err != nil {
		return "", err
	}
	return token, nil
}
