package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/forms"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/policy"
	"github.com/rpupo63/portfolio-site/storage"
	"github.com/rpupo63/portfolio-site/views"
)

// maxFormBodySize leaves room for the image plus the text fields
const maxFormBodySize = forms.MaxImageSize + 1<<20

// projectFormHandler serves the HTML create, edit and delete pages. Each page
// shows a form on GET and acts on POST; a valid POST redirects to the list.
type projectFormHandler struct {
	pages          pageRenderer
	logger         zerolog.Logger
	lookup         formLookup
	projectRepo    *database.ProjectRepo
	technologyRepo *database.TechnologyRepo
	categoryRepo   *database.CategoryRepo
	assets         storage.AssetStore
}

func newProjectFormHandler(pages pageRenderer, db database.Database, assets storage.AssetStore) projectFormHandler {
	return projectFormHandler{
		pages:          pages,
		logger:         log.With().Str("handlerName", "projectFormHandler").Logger(),
		lookup:         formLookup{db: db},
		projectRepo:    db.ProjectRepo(),
		technologyRepo: db.TechnologyRepo(),
		categoryRepo:   db.CategoryRepo(),
		assets:         assets,
	}
}

func (h projectFormHandler) createForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.pages.allow(w, r, policy.OpCreate) {
			return
		}
		h.renderForm(w, r, views.ProjectFormView{
			Heading: "Add project",
			Action:  "/projects/add/",
		})
	}
}

func (h projectFormHandler) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.pages.allow(w, r, policy.OpCreate) {
			return
		}

		formView := views.ProjectFormView{Heading: "Add project", Action: "/projects/add/"}
		input, err := h.readInput(w, r)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}
		formView.Input = input

		data, fieldErrs, err := forms.ValidateProject(r.Context(), input, uuid.Nil, h.lookup)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}
		if fieldErrs.Any() {
			formView.Errors = fieldErrs
			h.renderForm(w, r, formView)
			return
		}

		project := &models.Project{}
		data.Apply(project)
		if data.Image != nil {
			key, err := h.saveImage(r.Context(), data.Image)
			if err != nil {
				h.pages.fail(w, r, h.logger, err)
				return
			}
			project.Image = &key
		}

		if err := h.projectRepo.Add(r.Context(), project); err != nil {
			h.discardImage(r.Context(), project.Image)
			err = wrapDatabaseError("create", "project", err)
			if errs.IsConflict(err) {
				formView.Errors = forms.TitleTaken()
				h.renderForm(w, r, formView)
				return
			}
			h.pages.fail(w, r, h.logger, err)
			return
		}

		h.logger.Info().Str("projectID", project.ID.String()).Str("title", project.Title).Msg("project created")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (h projectFormHandler) updateForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.pages.allow(w, r, policy.OpUpdate) {
			return
		}
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}
		h.renderForm(w, r, h.editView(project, inputFromProject(project), nil))
	}
}

func (h projectFormHandler) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.pages.allow(w, r, policy.OpUpdate) {
			return
		}
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}

		input, err := h.readInput(w, r)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}

		data, fieldErrs, err := forms.ValidateProject(r.Context(), input, project.ID, h.lookup)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}
		if fieldErrs.Any() {
			h.renderForm(w, r, h.editView(project, input, fieldErrs))
			return
		}

		previousImage := project.Image
		data.Apply(project)
		switch {
		case data.Image != nil:
			key, err := h.saveImage(r.Context(), data.Image)
			if err != nil {
				h.pages.fail(w, r, h.logger, err)
				return
			}
			project.Image = &key
		case r.PostFormValue("image-clear") != "":
			project.Image = nil
		}

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			if project.Image != previousImage {
				h.discardImage(r.Context(), project.Image)
				project.Image = previousImage
			}
			err = wrapDatabaseError("update", "project", err)
			if errs.IsConflict(err) {
				h.renderForm(w, r, h.editView(project, input, forms.TitleTaken()))
				return
			}
			h.pages.fail(w, r, h.logger, err)
			return
		}
		if project.Image != previousImage {
			h.discardImage(r.Context(), previousImage)
		}

		h.logger.Info().Str("projectID", project.ID.String()).Msg("project updated")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

func (h projectFormHandler) confirmDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.pages.allow(w, r, policy.OpDelete) {
			return
		}
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}
		h.pages.render(w, r, http.StatusOK, "Delete "+project.Title, views.ProjectConfirmDelete(h.pages.projectView(project)))
	}
}

func (h projectFormHandler) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.pages.allow(w, r, policy.OpDelete) {
			return
		}
		project, ok := h.findProject(w, r)
		if !ok {
			return
		}

		if err := h.projectRepo.Delete(r.Context(), project.ID); err != nil {
			h.pages.fail(w, r, h.logger, wrapDatabaseError("delete", "project", err))
			return
		}
		h.discardImage(r.Context(), project.Image)

		h.logger.Info().Str("projectID", project.ID.String()).Msg("project deleted")
		http.Redirect(w, r, "/", http.StatusFound)
	}
}

// findProject loads the project named in the path, rendering 404 when it does not exist
func (h projectFormHandler) findProject(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		h.pages.notFound(w, r, "project not found")
		return nil, false
	}
	project, err := h.projectRepo.FindByID(r.Context(), projectID)
	if err != nil {
		h.pages.fail(w, r, h.logger, err)
		return nil, false
	}
	return project, true
}

func (h projectFormHandler) readInput(w http.ResponseWriter, r *http.Request) (forms.ProjectInput, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)
	if err := r.ParseMultipartForm(forms.MaxImageSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return forms.ProjectInput{}, errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		return forms.ProjectInput{}, errs.NewMalformedPayloadError("form", err)
	}

	input := forms.ProjectInput{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		Technologies: r.PostForm["technologies"],
		Category:     r.PostFormValue("category"),
		Link:         r.PostFormValue("link"),
	}

	upload, err := forms.ReadUpload(r.MultipartForm, "image")
	if err != nil {
		return forms.ProjectInput{}, errs.NewMalformedPayloadError("image", err)
	}
	input.Image = upload
	return input, nil
}

func (h projectFormHandler) saveImage(ctx context.Context, upload *forms.Upload) (string, error) {
	key := storage.NewImageKey(upload.Extension())
	if err := h.assets.Save(ctx, key, upload.ContentType, bytes.NewReader(upload.Data)); err != nil {
		return "", errs.NewInternalErrorWithCause("failed to store image", err)
	}
	return key, nil
}

// discardImage removes a stored image; failures are logged and otherwise ignored
func (h projectFormHandler) discardImage(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := h.assets.Delete(ctx, *key); err != nil {
		h.logger.Warn().Err(err).Str("key", *key).Msg("failed to delete stored image")
	}
}

func (h projectFormHandler) editView(project *models.Project, input forms.ProjectInput, fieldErrs forms.Errors) views.ProjectFormView {
	return views.ProjectFormView{
		Heading:  "Edit project",
		Action:   "/projects/" + project.ID.String() + "/edit/",
		Input:    input,
		Errors:   fieldErrs,
		ImageURL: h.pages.imageURL(project),
	}
}

// renderForm loads the technology and category choices and draws the form
func (h projectFormHandler) renderForm(w http.ResponseWriter, r *http.Request, formView views.ProjectFormView) {
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		technologies, err := h.technologyRepo.FindAll(ctx)
		formView.Technologies = technologies
		return err
	})
	g.Go(func() error {
		categories, err := h.categoryRepo.FindAll(ctx)
		formView.Categories = categories
		return err
	})
	if err := g.Wait(); err != nil {
		h.pages.fail(w, r, h.logger, wrapDatabaseError("load choices for", "project form", err))
		return
	}
	h.pages.render(w, r, http.StatusOK, formView.Heading, views.ProjectForm(formView))
}

func inputFromProject(project *models.Project) forms.ProjectInput {
	input := forms.ProjectInput{
		Title:       project.Title,
		Description: project.Description,
		Link:        lo.FromPtr(project.Link),
		Technologies: lo.Map(project.Technologies, func(t models.Technology, _ int) string {
			return t.ID.String()
		}),
	}
	if project.CategoryID != nil {
		input.Category = project.CategoryID.String()
	}
	return input
}
