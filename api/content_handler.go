package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/services"
)

type contentHandler struct {
	responder Responder
	logger    zerolog.Logger
	extractor services.Extractor
}

func newContentHandler(extractor services.Extractor) contentHandler {
	logger := log.With().Str("handlerName", "contentHandler").Logger()

	return contentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		extractor: extractor,
	}
}

type processContentRequest struct {
	Content string `json:"content"`
}

// processContent turns free-form pasted text into structured project
// entries via the extraction gateway.
func (h contentHandler) processContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req processContentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if strings.TrimSpace(req.Content) == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("content is required"))
			return
		}

		entries, err := h.extractor.Extract(r.Context(), req.Content)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"projects": entries,
		})
	}
}
