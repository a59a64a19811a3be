package api

import (
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
)

type technologyHandler struct {
	responder      Responder
	logger         zerolog.Logger
	technologyRepo *database.TechnologyRepo
}

func newTechnologyHandler(technologyRepo *database.TechnologyRepo) technologyHandler {
	logger := log.With().Str("handlerName", "technologyHandler").Logger()

	return technologyHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		technologyRepo: technologyRepo,
	}
}

// getAllTechnologies lists technologies by name
// @Summary Get all technologies
// @Tags Technologies
// @Produce json
// @Success 200 {array} NamedResponse "List of technologies"
// @Router /api/technologies/ [get]
func (h technologyHandler) getAllTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technologies, err := h.technologyRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "technologies", err))
			return
		}
		h.responder.WriteJSON(w, lo.Map(technologies, func(t *models.Technology, _ int) NamedResponse {
			return serializeTechnology(t)
		}))
	}
}

// getTechnology retrieves a technology by ID
// @Summary Get technology
// @Tags Technologies
// @Produce json
// @Param technologyID path string true "Technology ID" format(uuid)
// @Success 200 {object} NamedResponse
// @Failure 404 {object} ErrorResponse "Not Found - Technology not found"
// @Router /api/technologies/{technologyID}/ [get]
func (h technologyHandler) getTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		technology, err := h.findTechnology(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, serializeTechnology(technology))
	}
}

// createTechnology adds a technology
// @Summary Create technology
// @Tags Technologies
// @Accept json
// @Produce json
// @Param technology body forms.NameInput true "Technology name"
// @Success 201 {object} NamedResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid name"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Router /api/technologies/ [post]
func (h technologyHandler) createTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowAPI(h.responder, w, r, policy.OpCreate) {
			return
		}

		var input forms.NameInput
		if err := h.responder.DecodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, ok := h.validate(w, r, input, uuid.Nil)
		if !ok {
			return
		}

		technology := &models.Technology{Name: name}
		if err := h.technologyRepo.Add(r.Context(), technology); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "technology", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, serializeTechnology(technology))
	}
}

// updateTechnology renames a technology. PATCH without a name keeps the current one.
// @Summary Update technology
// @Tags Technologies
// @Accept json
// @Produce json
// @Param technologyID path string true "Technology ID" format(uuid)
// @Param technology body forms.NameInput true "Technology name"
// @Success 200 {object} NamedResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid name"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Technology not found"
// @Router /api/technologies/{technologyID}/ [put]
func (h technologyHandler) updateTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowAPI(h.responder, w, r, policy.OpUpdate) {
			return
		}

		technology, err := h.findTechnology(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input := forms.NameInput{}
		if r.Method == http.MethodPatch {
			input.Name = technology.Name
		}
		if err := h.responder.DecodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, ok := h.validate(w, r, input, technology.ID)
		if !ok {
			return
		}

		technology.Name = name
		if err := h.technologyRepo.Update(r.Context(), technology); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "technology", err))
			return
		}
		h.responder.WriteJSON(w, serializeTechnology(technology))
	}
}

// deleteTechnology removes a technology and detaches it from every project
// @Summary Delete technology
// @Tags Technologies
// @Param technologyID path string true "Technology ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Technology not found"
// @Router /api/technologies/{technologyID}/ [delete]
func (h technologyHandler) deleteTechnology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowAPI(h.responder, w, r, policy.OpDelete) {
			return
		}

		technology, err := h.findTechnology(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.technologyRepo.Delete(r.Context(), technology.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "technology", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h technologyHandler) findTechnology(r *http.Request) (*models.Technology, error) {
	technologyID, err := uuid.Parse(chi.URLParam(r, "technologyID"))
	if err != nil {
		return nil, errs.NewNotFound("technology")
	}
	technology, err := h.technologyRepo.FindByID(r.Context(), technologyID)
	if err != nil {
		return nil, wrapDatabaseError("find", "technology", err)
	}
	return technology, nil
}

func (h technologyHandler) validate(w http.ResponseWriter, r *http.Request, input forms.NameInput, exclude uuid.UUID) (string, bool) {
	name, fieldErrs, err := forms.ValidateName(r.Context(), input, "Technology", exclude, h.technologyRepo.NameExists)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("validate", "technology", err))
		return "", false
	}
	if fieldErrs.Any() {
		h.responder.WriteError(w, errs.NewValidationError(fieldErrs))
		return "", false
	}
	return name, true
}
