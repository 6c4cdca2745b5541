package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/importer"
	"github.com/vihaanharrison/portfolio-backend/models"
	"github.com/vihaanharrison/portfolio-backend/services"
)

type importHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *importer.Store
	extractor services.Extractor
	uploader  services.Uploader
	saver     importer.Saver
}

func newImportHandler(sessions *importer.Store, extractor services.Extractor, uploader services.Uploader, saver importer.Saver) importHandler {
	logger := log.With().Str("handlerName", "importHandler").Logger()

	return importHandler{
		responder: NewResponder(logger),
		logger:    logger,
		sessions:  sessions,
		extractor: extractor,
		uploader:  uploader,
		saver:     saver,
	}
}

// repoSaver persists an imported entry through the project repositories.
type repoSaver struct {
	projects *database.ProjectRepo
	tags     *database.ProjectTagRepo
}

func newRepoSaver(projects *database.ProjectRepo, tags *database.ProjectTagRepo) repoSaver {
	return repoSaver{projects: projects, tags: tags}
}

func (s repoSaver) SaveProject(ctx context.Context, project *models.Project, tags []string) error {
	if err := s.projects.Add(project); err != nil {
		return err
	}
	return s.tags.ReplaceForProject(project.ID, tags)
}

type createSessionRequest struct {
	Content string `json:"content"`
	IsWork  bool   `json:"is_work"`
}

type updateEntryRequest struct {
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Category   *string `json:"category,omitempty"`
	IsWork     *bool   `json:"is_work,omitempty"`
	IsFeatured *bool   `json:"is_featured,omitempty"`
}

// createSession extracts the pasted content and opens a new wizard
// session in the review step.
func (h importHandler) createSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		session := importer.NewSession(h.extractor, h.uploader, h.saver, req.IsWork)
		if err := session.Start(r.Context(), req.Content); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}

		h.sessions.Put(session)
		h.responder.WriteJSON(w, session.View())
	}
}

// getSession returns a snapshot of one session.
func (h importHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// deleteSession disposes of a session. Completed sessions hold no state
// worth keeping.
func (h importHandler) deleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid sessionID"))
			return
		}
		h.sessions.Delete(sessionID)
		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// removeEntry drops one extracted entry during review.
func (h importHandler) removeEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid entryID"))
			return
		}

		if err := session.Remove(entryID); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// updateEntry applies partial edits to one entry's dates and settings.
func (h importHandler) updateEntry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid entryID"))
			return
		}

		var req updateEntryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		update := importer.Update{
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			Category:   req.Category,
			IsWork:     req.IsWork,
			IsFeatured: req.IsFeatured,
		}
		if err := session.Update(entryID, update); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// beginDetails moves review -> details.
func (h importHandler) beginDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		if err := session.BeginDetails(); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// attachFiles validates and attaches a multipart file selection to one
// entry. Per-file rejections ride along in the response.
func (h importHandler) attachFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid entryID"))
			return
		}

		files, err := readMultipartFiles(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		rejections, err := session.AttachFiles(entryID, files)
		if err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"rejected": rejections,
			"session":  session.View(),
		})
	}
}

// removeFile detaches one attached file by position.
func (h importHandler) removeFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid entryID"))
			return
		}
		fileIndex, err := strconv.Atoi(chi.URLParam(r, "fileIndex"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid fileIndex"))
			return
		}

		if err := session.RemoveFile(entryID, fileIndex); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// next advances the details cursor; past the last entry it saves
// everything.
func (h importHandler) next() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		if err := session.Next(r.Context()); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// skip is next without an attachment for the current entry.
func (h importHandler) skip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		if err := session.SkipPhoto(r.Context()); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// back steps the wizard backwards, keeping attachments.
func (h importHandler) back() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		if err := session.Back(); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

// save persists every remaining entry without cursor-walking to the end.
func (h importHandler) save() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := h.lookupSession(w, r)
		if !ok {
			return
		}
		if err := session.Save(r.Context()); err != nil {
			h.responder.WriteError(w, mapImportError(err))
			return
		}
		h.responder.WriteJSON(w, session.View())
	}
}

func (h importHandler) lookupSession(w http.ResponseWriter, r *http.Request) (*importer.Session, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewBadRequestError("invalid sessionID"))
		return nil, false
	}

	session, ok := h.sessions.Get(sessionID)
	if !ok {
		h.responder.WriteError(w, errs.NewNotFoundError("session not found"))
		return nil, false
	}
	return session, true
}

// mapImportError translates wizard domain errors to API errors. Errors
// that already carry a status pass through untouched.
func mapImportError(err error) error {
	switch {
	case errors.Is(err, importer.ErrEmptyContent),
		errors.Is(err, importer.ErrWrongStep),
		errors.Is(err, importer.ErrNoEntries),
		errors.Is(err, importer.ErrBadCategory):
		return errs.NewBadRequestError(err.Error())
	case errors.Is(err, importer.ErrUnknownEntry):
		return errs.NewNotFoundError(err.Error())
	default:
		return err
	}
}
