package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/models"
	"github.com/vihaanharrison/portfolio-backend/services"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.AuthService
}

func newAuthHandler(auth *services.AuthService) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type accessCodeRequest struct {
	Code string `json:"code"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// login signs an admin in by email and password, provisioning the account
// on first sign-in of an allow-listed email.
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Email == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("email and password are required"))
			return
		}

		account, err := h.auth.SignIn(req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.writeSession(w, account)
	}
}

// accessCode signs in as the fallback admin identity when the shared
// access code matches.
func (h authHandler) accessCode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req accessCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Code == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("code is required"))
			return
		}

		account, err := h.auth.SignInWithCode(req.Code)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.writeSession(w, account)
	}
}

// me returns the caller's identity with the admin flag re-derived from the
// role table.
func (h authHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := accountFromCtx(r.Context())
		if account == nil {
			h.responder.WriteError(w, errs.NewMissingTokenError())
			return
		}

		isAdmin, err := h.auth.IsAdmin(account.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"email":    account.Email,
			"is_admin": isAdmin,
		})
	}
}

func (h authHandler) writeSession(w http.ResponseWriter, account *models.Account) {
	token, err := h.auth.IssueToken(account)
	if err != nil {
		h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
		return
	}

	h.responder.WriteJSON(w, sessionResponse{
		Token: token,
		Email: account.Email,
	})
}
