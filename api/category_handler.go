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

type categoryHandler struct {
	responder    Responder
	logger       zerolog.Logger
	categoryRepo *database.CategoryRepo
}

func newCategoryHandler(categoryRepo *database.CategoryRepo) categoryHandler {
	logger := log.With().Str("handlerName", "categoryHandler").Logger()

	return categoryHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		categoryRepo: categoryRepo,
	}
}

// getAllCategories lists categories by name
// @Summary Get all categories
// @Tags Categories
// @Produce json
// @Success 200 {array} NamedResponse "List of categories"
// @Router /api/categories/ [get]
func (h categoryHandler) getAllCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := h.categoryRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "categories", err))
			return
		}
		h.responder.WriteJSON(w, lo.Map(categories, func(c *models.Category, _ int) NamedResponse {
			return serializeCategory(c)
		}))
	}
}

// getCategory retrieves a category by ID
// @Summary Get category
// @Tags Categories
// @Produce json
// @Param categoryID path string true "Category ID" format(uuid)
// @Success 200 {object} NamedResponse
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /api/categories/{categoryID}/ [get]
func (h categoryHandler) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := h.findCategory(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, serializeCategory(category))
	}
}

// createCategory adds a category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Param category body forms.NameInput true "Category name"
// @Success 201 {object} NamedResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid name"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Router /api/categories/ [post]
func (h categoryHandler) createCategory() http.HandlerFunc {
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

		category := &models.Category{Name: name}
		if err := h.categoryRepo.Add(r.Context(), category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "category", err))
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, serializeCategory(category))
	}
}

// updateCategory renames a category. PATCH without a name keeps the current one.
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Param categoryID path string true "Category ID" format(uuid)
// @Param category body forms.NameInput true "Category name"
// @Success 200 {object} NamedResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid name"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /api/categories/{categoryID}/ [put]
func (h categoryHandler) updateCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowAPI(h.responder, w, r, policy.OpUpdate) {
			return
		}

		category, err := h.findCategory(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		input := forms.NameInput{}
		if r.Method == http.MethodPatch {
			input.Name = category.Name
		}
		if err := h.responder.DecodeJSON(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		name, ok := h.validate(w, r, input, category.ID)
		if !ok {
			return
		}

		category.Name = name
		if err := h.categoryRepo.Update(r.Context(), category); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "category", err))
			return
		}
		h.responder.WriteJSON(w, serializeCategory(category))
	}
}

// deleteCategory removes a category; projects that used it are left without one
// @Summary Delete category
// @Tags Categories
// @Param categoryID path string true "Category ID" format(uuid)
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse "Forbidden - Authentication required"
// @Failure 404 {object} ErrorResponse "Not Found - Category not found"
// @Router /api/categories/{categoryID}/ [delete]
func (h categoryHandler) deleteCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowAPI(h.responder, w, r, policy.OpDelete) {
			return
		}

		category, err := h.findCategory(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.categoryRepo.Delete(r.Context(), category.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "category", err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h categoryHandler) findCategory(r *http.Request) (*models.Category, error) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		return nil, errs.NewNotFound("category")
	}
	category, err := h.categoryRepo.FindByID(r.Context(), categoryID)
	if err != nil {
		return nil, wrapDatabaseError("find", "category", err)
	}
	return category, nil
}

func (h categoryHandler) validate(w http.ResponseWriter, r *http.Request, input forms.NameInput, exclude uuid.UUID) (string, bool) {
	name, fieldErrs, err := forms.ValidateName(r.Context(), input, "Category", exclude, h.categoryRepo.NameExists)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("validate", "category", err))
		return "", false
	}
	if fieldErrs.Any() {
		h.responder.WriteError(w, errs.NewValidationError(fieldErrs))
		return "", false
	}
	return name, true
}
