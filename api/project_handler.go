package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/forms"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/policy"
	"github.com/rpupo63/portfolio-site/storage"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	lookup      apiLookup
	projectRepo *database.ProjectRepo
	assets      storage.AssetStore
}

func newProjectHandler(db database.Database, assets storage.AssetStore) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		lookup:      apiLookup{db: db},
		projectRepo: db.ProjectRepo(),
		assets:      assets,
	}
}

// getAllProjects lists every project
// @Summary Get all projects
// @Description Retrieves all projects, newest first
// @Tags Projects
// @Produce json
// @Success 200 {array} ProjectResponse "List of projects"
// @Failure 500 {object} ErrorResponse "Internal Server Error - Error fetching projects"
// @Router /api/projects/ [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, lo.Map(projects, func(p *models.Project, _ int) ProjectResponse {
			return h.serialize(r, p)
		}))
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} ProjectResponse "Project details"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID}/ [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.findProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.serialize(r, project))
	}
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a project. Technologies and category are referenced by name.
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body forms.ProjectInput true "Project data"
// @Success 201 {object} ProjectResponse "Created project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Router /api/projects/ [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allow(w, r, policy.OpCreate) {
			return
		}

		var input forms.ProjectInput
		if err := h.responder.DecodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := &models.Project{}
		if !h.validate(w, r, input, uuid.Nil, project) {
			return
		}

		if err := h.projectRepo.Add(r.Context(), project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}

		h.respondWithProject(w, r, http.StatusCreated, project.ID)
	}
}

// updateProject replaces every editable field of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body forms.ProjectInput true "Updated project data"
// @Success 200 {object} ProjectResponse "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID}/ [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allow(w, r, policy.OpUpdate) {
			return
		}

		project, err := h.findProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input forms.ProjectInput
		if err := h.responder.DecodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.save(w, r, project, input)
	}
}

// patchProject updates only the fields present in the body
// @Summary Partially update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body forms.ProjectInput true "Fields to change"
// @Success 200 {object} ProjectResponse "Updated project"
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID}/ [patch]
func (h projectHandler) patchProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allow(w, r, policy.OpUpdate) {
			return
		}

		project, err := h.findProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var fields map[string]json.RawMessage
		if err := h.responder.DecodeJSON(w, r, &fields); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input, err := mergeProjectPatch(inputFromStored(project), fields)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidJSONError(err))
			return
		}

		h.save(w, r, project, input)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Projects
// @Param projectID path string true "Project ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /api/projects/{projectID}/ [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.allow(w, r, policy.OpDelete) {
			return
		}

		project, err := h.findProject(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Delete(r.Context(), project.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		if project.Image != nil {
			if err := h.assets.Delete(r.Context(), *project.Image); err != nil {
				h.logger.Warn().Err(err).Str("key", *project.Image).Msg("failed to delete stored image")
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h projectHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteError(w, errs.NewNotFoundError("resource not found"))
	}
}

// allow runs the access check for an API write and writes 403 when denied
func (h projectHandler) allow(w http.ResponseWriter, r *http.Request, op policy.Operation) bool {
	return allowAPI(h.responder, w, r, op)
}

func allowAPI(responder Responder, w http.ResponseWriter, r *http.Request, op policy.Operation) bool {
	if policy.Check(actorFromCtx(r.Context()).Kind, op, policy.SurfaceAPI) == policy.Allow {
		return true
	}
	responder.WriteError(w, errs.NewForbiddenError("Authentication credentials were not provided."))
	return false
}

func (h projectHandler) findProject(r *http.Request) (*models.Project, error) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return nil, errs.NewNotFound("project")
	}
	project, err := h.projectRepo.FindByID(r.Context(), projectID)
	if err != nil {
		return nil, wrapDatabaseError("find", "project", err)
	}
	return project, nil
}

// validate checks the input and applies it to project. It writes the
// response and returns false when the input is rejected.
func (h projectHandler) validate(w http.ResponseWriter, r *http.Request, input forms.ProjectInput, exclude uuid.UUID, project *models.Project) bool {
	data, fieldErrs, err := forms.ValidateProject(r.Context(), input, exclude, h.lookup)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("validate", "project", err))
		return false
	}
	if fieldErrs.Any() {
		h.responder.WriteError(w, errs.NewValidationError(fieldErrs))
		return false
	}
	data.Apply(project)
	return true
}

func (h projectHandler) save(w http.ResponseWriter, r *http.Request, project *models.Project, input forms.ProjectInput) {
	if !h.validate(w, r, input, project.ID, project) {
		return
	}
	if err := h.projectRepo.Update(r.Context(), project); err != nil {
		h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
		return
	}
	h.respondWithProject(w, r, http.StatusOK, project.ID)
}

// respondWithProject reloads the project so the response carries stored timestamps and associations
func (h projectHandler) respondWithProject(w http.ResponseWriter, r *http.Request, status int, id uuid.UUID) {
	project, err := h.projectRepo.FindByID(r.Context(), id)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("reload", "project", err))
		return
	}
	h.responder.WriteJSONStatus(w, status, h.serialize(r, project))
}
