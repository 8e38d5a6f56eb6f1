package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

type memAuthUsers struct {
	users     map[string]model.User
	passwords map[string]string
}

func newMemAuthUsers() *memAuthUsers {
	return &memAuthUsers{users: map[string]model.User{}, passwords: map[string]string{}}
}

func (m *memAuthUsers) add(user model.User, password string) {
	m.users[user.ID] = user
	m.passwords[user.ID] = password
}

func (m *memAuthUsers) QueryByID(_ context.Context, id string) (model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (m *memAuthUsers) QueryByEmail(_ context.Context, email string) (model.User, error) {
	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (m *memAuthUsers) CheckPassword(user model.User, password string) bool {
	return m.passwords[user.ID] == password
}

func (m *memAuthUsers) SetPassword(_ context.Context, id string, password string) error {
	if _, ok := m.users[id]; !ok {
		return model.ErrUserNotFound
	}
	m.passwords[id] = password
	return nil
}

func (m *memAuthUsers) MarkEmailVerified(_ context.Context, id string) (model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	user.IsEmailVerified = true
	m.users[id] = user
	return user, nil
}

func newAuthFixture(t *testing.T) (*AuthService, *memAuthUsers, *TokenService, *memTokenStore) {
	t.Helper()
	store := newMemTokenStore()
	tokens := newTokenService(store)
	users := newMemAuthUsers()
	return NewAuthService(users, tokens, store), users, tokens, store
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(model.User{ID: "u1", Email: "alice@example.com"}, "correct-pass1")
	ctx := context.Background()

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever1")
	_, errWrong := svc.Login(ctx, "alice@example.com", "wrong-pass1")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)

	var apiUnknown, apiWrong *apierror.APIError
	require.ErrorAs(t, errUnknown, &apiUnknown)
	require.ErrorAs(t, errWrong, &apiWrong)

	assert.Equal(t, apiUnknown.Code, apiWrong.Code)
	assert.Equal(t, apiUnknown.Message, apiWrong.Message)
	assert.Equal(t, "Incorrect email or password", apiWrong.Message)
	assert.Equal(t, http.StatusUnauthorized, apiWrong.HTTPStatus)
}

func TestLogin_Success(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.add(model.User{ID: "u1", Email: "alice@example.com"}, "correct-pass1")

	user, err := svc.Login(context.Background(), "alice@example.com", "correct-pass1")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestRefreshAuth_RotatesRefreshToken(t *testing.T) {
	svc, users, tokens, store := newAuthFixture(t)
	users.add(model.User{ID: "u1", Email: "alice@example.com"}, "correct-pass1")
	ctx := context.Background()

	issued, err := tokens.GenerateAuthTokens(ctx, model.User{ID: "u1"})
	require.NoError(t, err)

	_, rotated, err := svc.RefreshAuth(ctx, issued.Refresh.Token)
	require.NoError(t, err)
	assert.NotEqual(t, issued.Refresh.Token, rotated.Refresh.Token)

	// The consumed token is gone: replaying it fails.
	_, _, err = svc.RefreshAuth(ctx, issued.Refresh.Token)
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Please authenticate", apiErr.Message)

	// Exactly one live refresh token remains.
	assert.Equal(t, 1, store.count())
}

func TestRefreshAuth_DeletedUser(t *testing.T) {
	svc, _, tokens, _ := newAuthFixture(t)
	ctx := context.Background()

	issued, err := tokens.GenerateAuthTokens(ctx, model.User{ID: "gone"})
	require.NoError(t, err)

	_, _, err = svc.RefreshAuth(ctx, issued.Refresh.Token)
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	assert.Equal(t, "Please authenticate", apiErr.Message)
}

func TestLogout_DeletesRefreshToken(t *testing.T) {
	svc, _, tokens, store := newAuthFixture(t)
	ctx := context.Background()

	issued, err := tokens.GenerateAuthTokens(ctx, model.User{ID: "u1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, issued.Refresh.Token))
	assert.Equal(t, 0, store.count())
}

func TestLogout_UnknownToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	err := svc.Logout(context.Background(), "never-issued")
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.HTTPStatus)
}

func TestResetPassword_SetsPasswordAndPurgesAllResetTokens(t *testing.T) {
	svc, users, tokens, store := newAuthFixture(t)
	users.add(model.User{ID: "u1", Email: "alice@example.com"}, "old-pass1")
	ctx := context.Background()

	// Two outstanding reset links; consuming one must invalidate both.
	expires := time.Now().UTC().Add(10 * time.Minute)
	first, err := tokens.Generate("u1", expires, model.TokenTypeResetPassword)
	require.NoError(t, err)
	_, err = tokens.Save(ctx, first, "u1", expires, model.TokenTypeResetPassword)
	require.NoError(t, err)

	second, err := tokens.Generate("u1", expires.Add(time.Second), model.TokenTypeResetPassword)
	require.NoError(t, err)
	_, err = tokens.Save(ctx, second, "u1", expires.Add(time.Second), model.TokenTypeResetPassword)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, first, "new-pass1"))
	assert.Equal(t, "new-pass1", users.passwords["u1"])
	assert.Equal(t, 0, store.count())

	err = svc.ResetPassword(ctx, second, "other-pass1")
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Password reset failed", apiErr.Message)
}

func TestVerifyEmail_MarksVerifiedAndPurgesTokens(t *testing.T) {
	svc, users, tokens, store := newAuthFixture(t)
	users.add(model.User{ID: "u1", Email: "alice@example.com"}, "pass-word1")
	ctx := context.Background()

	token, err := tokens.GenerateVerifyEmailToken(ctx, model.User{ID: "u1"})
	require.NoError(t, err)

	updated, err := svc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, updated.IsEmailVerified)
	assert.Equal(t, 0, store.count())
}

func TestVerifyEmail_InvalidToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.VerifyEmail(context.Background(), "garbage")
	require.Error(t, err)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email verification failed", apiErr.Message)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
}
