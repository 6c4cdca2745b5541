package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/services"
)

type roleHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.AuthService
}

func newRoleHandler(auth *services.AuthService) roleHandler {
	logger := log.With().Str("handlerName", "roleHandler").Logger()

	return roleHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
	}
}

type roleRequest struct {
	Action string `json:"action"`
	Code   string `json:"code,omitempty"`
}

// manageRoles grants the admin role to the authenticated account, either
// by re-checking the allow-list or by verifying the shared access code.
// The grant writes at most one row no matter how often it is called.
func (h roleHandler) manageRoles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := accountFromCtx(r.Context())
		if account == nil {
			h.responder.WriteFailure(w, errs.NewMissingTokenError())
			return
		}

		var req roleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteFailure(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		switch req.Action {
		case "ensure_admin_for_email":
			if err := h.auth.EnsureAdminRole(account); err != nil {
				h.responder.WriteFailure(w, err)
				return
			}
		case "grant_by_code":
			if err := h.auth.GrantByCode(account, req.Code); err != nil {
				h.responder.WriteFailure(w, err)
				return
			}
		default:
			h.responder.WriteFailure(w, errs.NewBadRequestError("unknown action"))
			return
		}

		h.responder.WriteSuccess(w, nil)
	}
}
