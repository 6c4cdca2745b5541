package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/models"
)

type projectHandler struct {
	responder      Responder
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	projectTagRepo *database.ProjectTagRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo, projectTagRepo *database.ProjectTagRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		projectRepo:    projectRepo,
		projectTagRepo: projectTagRepo,
	}
}

// projectPayload is the write shape for a project. Tags come in as plain
// strings and are stored in the given order.
type projectPayload struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Writeup     string   `json:"writeup,omitempty"`
	Impact      string   `json:"impact,omitempty"`
	StartDate   string   `json:"start_date"`
	EndDate     *string  `json:"end_date,omitempty"`
	IsFeatured  bool     `json:"is_featured"`
	IsWork      bool     `json:"is_work"`
	ImageURLs   []string `json:"image_urls,omitempty"`
	GithubURL   string   `json:"github_url,omitempty"`
	LiveURL     string   `json:"live_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type manageProjectRequest struct {
	Action      string          `json:"action"`
	ProjectID   string          `json:"projectId,omitempty"`
	ProjectData *projectPayload `json:"projectData,omitempty"`
}

// projectResponse flattens a project's JSON image column and tag rows for
// clients.
type projectResponse struct {
	models.Project
	ImageURLs []string `json:"image_urls,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

func newProjectResponse(p *models.Project) projectResponse {
	return projectResponse{
		Project:   *p,
		ImageURLs: p.ImageURLList(),
		Tags:      p.TagValues(),
	}
}

// getAllProjects retrieves projects, optionally filtered by category,
// is_work and featured, ordered by start date descending.
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter database.ProjectFilter

		query := r.URL.Query()
		filter.Category = query.Get("category")
		filter.FeaturedOnly = query.Get("featured") == "true"
		if work := query.Get("work"); work != "" {
			isWork := work == "true"
			filter.IsWork = &isWork
		}

		projects, err := h.projectRepo.FindFiltered(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		responses := make([]projectResponse, 0, len(projects))
		for _, project := range projects {
			responses = append(responses, newProjectResponse(project))
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"projects": responses,
			"total":    len(responses),
		})
	}
}

// getProject retrieves a specific project by ID
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid projectID"))
			return
		}

		project, err := h.projectRepo.FindByID(projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, newProjectResponse(project))
	}
}

// manageProjects dispatches the admin write actions. Every response uses
// the {success, data, error} envelope.
func (h projectHandler) manageProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req manageProjectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteFailure(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		switch req.Action {
		case "create":
			h.createProject(w, req)
		case "update":
			h.updateProject(w, req)
		case "delete":
			h.deleteProject(w, req)
		case "toggleFeatured":
			h.toggleFeatured(w, req)
		default:
			h.responder.WriteFailure(w, errs.NewBadRequestError("unknown action"))
		}
	}
}

func (h projectHandler) createProject(w http.ResponseWriter, req manageProjectRequest) {
	if req.ProjectData == nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("projectData is required"))
		return
	}
	if req.ProjectData.Title == "" {
		h.responder.WriteFailure(w, errs.NewBadRequestError("title is required"))
		return
	}

	project := payloadToProject(req.ProjectData)
	project.ID = uuid.New()

	if err := h.projectRepo.Add(project); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("create project", "project", err))
		return
	}
	if err := h.projectTagRepo.ReplaceForProject(project.ID, req.ProjectData.Tags); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("create project tags", "project tags", err))
		return
	}

	created, err := h.projectRepo.FindByID(project.ID)
	if err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("find created project", "project", err))
		return
	}

	h.responder.WriteSuccess(w, newProjectResponse(created))
}

func (h projectHandler) updateProject(w http.ResponseWriter, req manageProjectRequest) {
	if req.ProjectData == nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("projectData is required"))
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("invalid projectId"))
		return
	}

	existing, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("find project", "project", err))
		return
	}
	if existing == nil {
		h.responder.WriteFailure(w, errs.NewNotFoundError("project not found"))
		return
	}

	project := payloadToProject(req.ProjectData)
	project.ID = projectID

	if err := h.projectRepo.Update(project); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("update project", "project", err))
		return
	}
	if err := h.projectTagRepo.ReplaceForProject(projectID, req.ProjectData.Tags); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("update project tags", "project tags", err))
		return
	}

	updated, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("find updated project", "project", err))
		return
	}

	h.responder.WriteSuccess(w, newProjectResponse(updated))
}

func (h projectHandler) deleteProject(w http.ResponseWriter, req manageProjectRequest) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("invalid projectId"))
		return
	}

	if err := h.projectRepo.Delete(projectID); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("delete project", "project", err))
		return
	}

	h.responder.WriteSuccess(w, nil)
}

// toggleFeatured flips the featured flag. Flipping it on is refused once
// the cap is reached; the flag is left untouched in that case.
func (h projectHandler) toggleFeatured(w http.ResponseWriter, req manageProjectRequest) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		h.responder.WriteFailure(w, errs.NewBadRequestError("invalid projectId"))
		return
	}

	project, err := h.projectRepo.FindByID(projectID)
	if err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("find project", "project", err))
		return
	}
	if project == nil {
		h.responder.WriteFailure(w, errs.NewNotFoundError("project not found"))
		return
	}

	if !project.IsFeatured {
		count, err := h.projectRepo.CountFeatured()
		if err != nil {
			h.responder.WriteFailure(w, wrapDatabaseError("count featured", "projects", err))
			return
		}
		if count >= models.MaxFeaturedProjects {
			h.responder.WriteFailure(w, errs.NewBadRequestError(
				fmt.Sprintf("Maximum %d featured projects allowed", models.MaxFeaturedProjects)))
			return
		}
	}

	if err := h.projectRepo.SetFeatured(projectID, !project.IsFeatured); err != nil {
		h.responder.WriteFailure(w, wrapDatabaseError("toggle featured", "project", err))
		return
	}

	h.responder.WriteSuccess(w, map[string]bool{"is_featured": !project.IsFeatured})
}

func payloadToProject(payload *projectPayload) *models.Project {
	project := &models.Project{
		Title:       payload.Title,
		Category:    payload.Category,
		Description: payload.Description,
		Writeup:     payload.Writeup,
		Impact:      payload.Impact,
		StartDate:   payload.StartDate,
		EndDate:     payload.EndDate,
		IsFeatured:  payload.IsFeatured,
		IsWork:      payload.IsWork,
		GithubURL:   payload.GithubURL,
		LiveURL:     payload.LiveURL,
	}
	// marshaling a []string never fails
	_ = project.SetImageURLs(payload.ImageURLs)
	return project
}
