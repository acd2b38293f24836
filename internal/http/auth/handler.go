package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/arjunks/kharcha/internal/api"
	"github.com/arjunks/kharcha/internal/http/respond"
	"github.com/arjunks/kharcha/internal/user"
)

type Handler struct {
	svc    *user.Service
	issuer *user.TokenIssuer
}

func NewHandler(svc *user.Service, issuer *user.TokenIssuer) *Handler {
	return &Handler{svc: svc, issuer: issuer}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/refresh", h.refresh)
	r.Post("/forgot-password", h.forgotPassword)
	r.Post("/reset-password", h.resetPassword)

	r.Group(func(r chi.Router) {
		r.Use(Middleware(h.issuer))
		r.Delete("/logout", h.logout)
		r.Put("/change-password", h.changePassword)
	})
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			respond.FailFields(w, http.StatusBadRequest, "validation failed",
				map[string][]string{"email": {"already registered"}})

			return
		}

		respond.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	h.respondWithTokens(w, u, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respond.Fail(w, http.StatusUnauthorized, "invalid email or password")
			return
		}

		respond.Fail(w, http.StatusInternalServerError, "internal error")

		return
	}

	h.respondWithTokens(w, u, http.StatusOK)
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.issuer.VerifyRefresh(req.RefreshToken)
	if err != nil {
		respond.Fail(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	pair, err := h.issuer.Issue(id, time.Now().UTC())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.OK(w, http.StatusOK, "", toWirePair(pair))
}

// logout validates the session and acknowledges the teardown. Tokens
// are stateless, so the client discards its pair; an invalid token is
// rejected by the middleware before reaching here.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, http.StatusOK, "logged out", nil)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := UserID(r.Context())
	if !ok {
		respond.Fail(w, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respond.FailFields(w, http.StatusBadRequest, "validation failed",
				map[string][]string{"current_password": {"does not match"}})

			return
		}

		respond.Fail(w, http.StatusBadRequest, err.Error())

		return
	}

	respond.OK(w, http.StatusOK, "password changed", nil)
}

// forgotPassword issues a reset token for a known email. The response
// is identical either way so the endpoint cannot be used to probe for
// accounts. Delivery is out of band; the token is logged until a mail
// channel exists.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	if u, err := h.svc.GetByEmail(r.Context(), req.Email); err == nil {
		if token, err := h.issuer.IssueReset(u.ID, time.Now().UTC()); err == nil {
			slog.Info("password reset token issued", "user", u.ID, "token", token)
		}
	}

	respond.OK(w, http.StatusOK, "if the email is registered, a reset token has been issued", nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req api.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.issuer.VerifyReset(req.Token)
	if err != nil {
		respond.Fail(w, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	if err := h.svc.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		respond.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	respond.OK(w, http.StatusOK, "password reset", nil)
}

func (h *Handler) respondWithTokens(w http.ResponseWriter, u *user.User, status int) {
	pair, err := h.issuer.Issue(u.ID, time.Now().UTC())
	if err != nil {
		respond.Fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.OK(w, status, "", api.AuthResponse{
		User: api.User{
			ID:        u.ID.String(),
			Name:      u.Name,
			Email:     u.Email,
			CreatedAt: u.CreatedAt,
		},
		Tokens: toWirePair(pair),
	})
}

func toWirePair(pair user.TokenPair) api.TokenPair {
	return api.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}
}

type ctxKey struct{}

// UserID extracts the authenticated user id from a request context.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok
}

// Middleware rejects requests without a valid bearer token and stores
// the token's subject in the request context.
func Middleware(issuer *user.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				respond.Fail(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			id, err := issuer.VerifyAccess(token)
			if err != nil {
				respond.Fail(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}
