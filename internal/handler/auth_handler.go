package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"sync-workbench/internal/middleware"
	"sync-workbench/internal/model"
	"sync-workbench/internal/service"
	"sync-workbench/internal/validate"
	"sync-workbench/pkg/apierror"
)

type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	tokens *service.TokenService
	email  service.EmailSender
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService, tokens *service.TokenService, email service.EmailSender) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, tokens: tokens, email: email}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), model.CreateUserRequest{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		RoleID:   payload.RoleID,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.tokens.GenerateAuthTokens(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, map[string]any{"user": user, "tokens": tokens}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tokens, err := h.tokens.GenerateAuthTokens(r.Context(), user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"user": user, "tokens": tokens}, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.Logout(r.Context(), strings.TrimSpace(payload.RefreshToken)); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) RefreshTokens(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	_, tokens, err := h.auth.RefreshAuth(r.Context(), strings.TrimSpace(payload.RefreshToken))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tokens, nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	token, err := h.tokens.GenerateResetPasswordToken(r.Context(), payload.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.email.SendResetPasswordEmail(r.Context(), payload.Email, token); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, apierror.New("BAD_REQUEST", "token is required", "token", http.StatusBadRequest))
		return
	}

	var payload model.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.auth.ResetPassword(r.Context(), token, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "Please authenticate", "", http.StatusUnauthorized))
		return
	}

	token, err := h.tokens.GenerateVerifyEmailToken(r.Context(), *user)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.email.SendVerificationEmail(r.Context(), user.Email, token); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, apierror.New("BAD_REQUEST", "token is required", "token", http.StatusBadRequest))
		return
	}

	if _, err := h.auth.VerifyEmail(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "Please authenticate", "", http.StatusUnauthorized))
		return
	}

	writeSuccess(w, http.StatusOK, user, nil)
}
