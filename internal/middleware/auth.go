package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"sync-workbench/internal/model"
	"sync-workbench/pkg/apierror"
)

type tokenVerifier interface {
	Verify(ctx context.Context, tokenString string, expectedType string) (model.Token, error)
}

type userResolver interface {
	QueryByID(ctx context.Context, id string) (model.User, error)
}

type accessAuthorizer interface {
	Authorize(ctx context.Context, roleID string, resource string, action string) error
}

type contextKey string

const userContextKey contextKey = "auth_user"

type AuthMiddleware struct {
	tokens        tokenVerifier
	users         userResolver
	authorizer    accessAuthorizer
	methodActions map[string]string
}

func NewAuthMiddleware(tokens tokenVerifier, users userResolver, authorizer accessAuthorizer, methodActions map[string]string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, authorizer: authorizer, methodActions: methodActions}
}

// Authenticate turns a Bearer access token into the full user record,
// role included, and stores it on the request context. Every failure
// mode collapses into the same 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeUnauthorized(w)
			return
		}

		tokenString := strings.TrimSpace(header[7:])
		record, err := m.tokens.Verify(r.Context(), tokenString, model.TokenTypeAccess)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		user, err := m.users.QueryByID(r.Context(), record.UserID)
		if err != nil {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Protect authorizes the authenticated user against the resource
// registered for the given mount, with the action derived from the HTTP
// method. It must run after Authenticate.
func (m *AuthMiddleware) Protect(mount string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeUnauthorized(w)
				return
			}

			resource, ok := model.ResourceForMount(mount)
			if !ok {
				writeFailure(w, apierror.New("INTERNAL_ERROR", "Resource not found", "", http.StatusInternalServerError))
				return
			}

			action, ok := m.methodActions[r.Method]
			if !ok {
				writeFailure(w, apierror.New("INTERNAL_ERROR", "HTTP method not supported", "", http.StatusInternalServerError))
				return
			}

			if err := m.authorizer.Authorize(r.Context(), user.RoleID, resource, action); err != nil {
				var apiErr *apierror.APIError
				if errors.As(err, &apiErr) {
					writeFailure(w, apiErr)
					return
				}
				writeFailure(w, apierror.New("INTERNAL_ERROR", "Unexpected server error", "", http.StatusInternalServerError))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	writeFailure(w, apierror.New("UNAUTHORIZED", "Please authenticate", "", http.StatusUnauthorized))
}
