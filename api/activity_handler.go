package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/models"
)

type activityHandler struct {
	responder    Responder
	logger       zerolog.Logger
	activityRepo *database.ActivityRepo
}

func newActivityHandler(activityRepo *database.ActivityRepo) activityHandler {
	logger := log.With().Str("handlerName", "activityHandler").Logger()

	return activityHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		activityRepo: activityRepo,
	}
}

type manageActivityRequest struct {
	Action       string           `json:"action"`
	ActivityID   string           `json:"activityId,omitempty"`
	ActivityData *models.Activity `json:"activityData,omitempty"`
}

// getAllActivities retrieves the timeline, newest first, optionally
// filtered by category.
func (h activityHandler) getAllActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activities, err := h.activityRepo.FindAll(r.URL.Query().Get("category"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find activities", "activities", err))
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"activities": activities,
			"total":      len(activities),
		})
	}
}

// manageActivities dispatches the admin write actions for activities.
func (h activityHandler) manageActivities() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req manageActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteFailure(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		switch req.Action {
		case "create":
			h.createActivity(w, req)
		case "update":
			h.updateActivity(w, req)
		case "delete":
			h.deleteActivity(w, req)
		default:
			h.responder.WriteFailure(w, errs.NewBadRequestError("unknown action"))
		}
	}
}

func (h activityHandler) createActivity(w http.ResponseWriter, req manageActivityRequest) {
	if req.ActivityData == nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("activityData is required"))
		return
	}
	if req.ActivityData.Title == "" {
		h.responder.WriteFailure(w, errs.NewBadRequestError("title is required"))
		return
	}

	activity := *req.ActivityData
	activity.ID = uuid.New()

	if err := h.activityRepo.Add(&activity); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("create activity", "activity", err))
		return
	}

	h.responder.WriteSuccess(w, activity)
}

func (h activityHandler) updateActivity(w http.ResponseWriter, req manageActivityRequest) {
	if req.ActivityData == nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("activityData is required"))
		return
	}

	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("invalid activityId"))
		return
	}

	existing, err := h.activityRepo.FindByID(activityID)
	if err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("find activity", "activity", err))
		return
	}
	if existing == nil {
		h.responder.WriteFailure(w, errs.NewNotFoundError("activity not found"))
		return
	}

	activity := *req.ActivityData
	activity.ID = activityID

	if err := h.activityRepo.Update(&activity); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("update activity", "activity", err))
		return
	}

	h.responder.WriteSuccess(w, activity)
}

func (h activityHandler) deleteActivity(w http.ResponseWriter, req manageActivityRequest) {
	activityID, err := uuid.Parse(req.ActivityID)
	if err != nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("invalid activityId"))
		return
	}

	if err := h.activityRepo.Delete(activityID); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("delete activity", "activity", err))
		return
	}

	h.responder.WriteSuccess(w, nil)
}
