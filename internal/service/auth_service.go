package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

// authUserStore is the slice of user operations the credential flows need.
type authUserStore interface {
	QueryByID(ctx context.Context, id string) (model.User, error)
	QueryByEmail(ctx context.Context, email string) (model.User, error)
	CheckPassword(user model.User, password string) bool
	SetPassword(ctx context.Context, id string, password string) error
	MarkEmailVerified(ctx context.Context, id string) (model.User, error)
}

type tokenProvider interface {
	Verify(ctx context.Context, token string, expectedType string) (model.Token, error)
	GenerateAuthTokens(ctx context.Context, user model.User) (model.AuthTokens, error)
}

type AuthService struct {
	users  authUserStore
	tokens tokenProvider
	store  tokenStore
}

func NewAuthService(users authUserStore, tokens tokenProvider, store tokenStore) *AuthService {
	return &AuthService{users: users, tokens: tokens, store: store}
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the identical error so account existence is not leaked.
func (s *AuthService) Login(ctx context.Context, email string, password string) (model.User, error) {
	user, err := s.users.QueryByEmail(ctx, email)
	if err != nil || !s.users.CheckPassword(user, password) {
		return model.User{}, apierror.New("UNAUTHORIZED", "Incorrect email or password", "", http.StatusUnauthorized)
	}
	return user, nil
}

// Logout invalidates a persisted refresh token (single-use semantics: the
// record is deleted, not blacklisted).
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	record, err := s.store.FindActive(ctx, refreshToken, model.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, model.ErrTokenNotFound) {
			return apierror.New("NOT_FOUND", "Not found", "", http.StatusNotFound)
		}
		return err
	}
	return s.store.Delete(ctx, record.ID)
}

// RefreshAuth rotates a refresh token: the consumed token is deleted and a
// fresh pair issued. Every failure collapses to a single UNAUTHORIZED so
// callers cannot distinguish expired from tampered from user-deleted.
func (s *AuthService) RefreshAuth(ctx context.Context, refreshToken string) (model.User, model.AuthTokens, error) {
	record, err := s.tokens.Verify(ctx, refreshToken, model.TokenTypeRefresh)
	if err != nil {
		return model.User{}, model.AuthTokens{}, s.authFailure("refresh", err)
	}

	user, err := s.users.QueryByID(ctx, record.UserID)
	if err != nil {
		return model.User{}, model.AuthTokens{}, s.authFailure("refresh", err)
	}

	if err := s.store.Delete(ctx, record.ID); err != nil {
		return model.User{}, model.AuthTokens{}, s.authFailure("refresh", err)
	}

	tokens, err := s.tokens.GenerateAuthTokens(ctx, user)
	if err != nil {
		return model.User{}, model.AuthTokens{}, s.authFailure("refresh", err)
	}

	return user, tokens, nil
}

// ResetPassword consumes a reset token and stores the new password. All
// outstanding reset tokens for the user are purged so no other link can be
// replayed after one succeeds.
func (s *AuthService) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	record, err := s.tokens.Verify(ctx, resetToken, model.TokenTypeResetPassword)
	if err != nil {
		return s.flowFailure("reset_password", "Password reset failed", err)
	}

	user, err := s.users.QueryByID(ctx, record.UserID)
	if err != nil {
		return s.flowFailure("reset_password", "Password reset failed", err)
	}

	if err := s.users.SetPassword(ctx, user.ID, newPassword); err != nil {
		return s.flowFailure("reset_password", "Password reset failed", err)
	}

	if err := s.store.DeleteAllForUser(ctx, user.ID, model.TokenTypeResetPassword); err != nil {
		return s.flowFailure("reset_password", "Password reset failed", err)
	}

	return nil
}

// VerifyEmail consumes a verification token, purges all outstanding
// verification tokens for the user and marks the email verified.
func (s *AuthService) VerifyEmail(ctx context.Context, verifyToken string) (model.User, error) {
	record, err := s.tokens.Verify(ctx, verifyToken, model.TokenTypeVerifyEmail)
	if err != nil {
		return model.User{}, s.flowFailure("verify_email", "Email verification failed", err)
	}

	user, err := s.users.QueryByID(ctx, record.UserID)
	if err != nil {
		return model.User{}, s.flowFailure("verify_email", "Email verification failed", err)
	}

	if err := s.store.DeleteAllForUser(ctx, user.ID, model.TokenTypeVerifyEmail); err != nil {
		return model.User{}, s.flowFailure("verify_email", "Email verification failed", err)
	}

	updated, err := s.users.MarkEmailVerified(ctx, user.ID)
	if err != nil {
		return model.User{}, s.flowFailure("verify_email", "Email verification failed", err)
	}

	return updated, nil
}

func (s *AuthService) authFailure(flow string, cause error) error {
	// The cause is logged for observability but never the token itself.
	slog.Warn("auth flow failed", "flow", flow, "cause", cause.Error())
	return apierror.New("UNAUTHORIZED", "Please authenticate", "", http.StatusUnauthorized)
}

func (s *AuthService) flowFailure(flow string, message string, cause error) error {
	slog.Warn("auth flow failed", "flow", flow, "cause", cause.Error())
	return apierror.New("UNAUTHORIZED", message, "", http.StatusUnauthorized)
}
