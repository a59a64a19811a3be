package api

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/policy"
	"github.com/rpupo63/portfolio-site/storage"
	"github.com/rpupo63/portfolio-site/views"
)

// pageRenderer wraps components in the site layout and handles the HTML
// versions of not-found, failure and login redirects
type pageRenderer struct {
	loginURL string
	assets   storage.AssetStore
}

func newPageRenderer(loginURL string, assets storage.AssetStore) pageRenderer {
	return pageRenderer{loginURL: loginURL, assets: assets}
}

func (p pageRenderer) render(w http.ResponseWriter, r *http.Request, status int, title string, content templ.Component) {
	chrome := views.Chrome{Actor: actorFromCtx(r.Context()), LoginURL: p.loginURL}
	templ.Handler(views.Layout(title, chrome, content), templ.WithStatus(status)).ServeHTTP(w, r)
}

func (p pageRenderer) notFound(w http.ResponseWriter, r *http.Request, message string) {
	p.render(w, r, http.StatusNotFound, "Not found", views.ErrorPage(http.StatusNotFound, message))
}

// fail renders client errors (missing records, oversized uploads) with their own
// status and a generic 500 page for anything else
func (p pageRenderer) fail(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		p.render(w, r, apiErr.StatusCode, http.StatusText(apiErr.StatusCode), views.ErrorPage(apiErr.StatusCode, apiErr.Error()))
		return
	}
	logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	p.render(w, r, http.StatusInternalServerError, "Server error",
		views.ErrorPage(http.StatusInternalServerError, "Something went wrong. Please try again later."))
}

// allow runs the access check for an HTML write. It redirects and returns false when denied.
func (p pageRenderer) allow(w http.ResponseWriter, r *http.Request, op policy.Operation) bool {
	switch policy.Check(actorFromCtx(r.Context()).Kind, op, policy.SurfaceHTML) {
	case policy.Allow:
		return true
	default:
		http.Redirect(w, r, policy.LoginRedirect(p.loginURL, r.URL.RequestURI()), http.StatusFound)
		return false
	}
}

func (p pageRenderer) imageURL(project *models.Project) string {
	if project.Image == nil || *project.Image == "" {
		return ""
	}
	return p.assets.URL(*project.Image)
}

func (p pageRenderer) projectView(project *models.Project) views.ProjectView {
	v := views.ProjectView{
		ID:           project.ID,
		Title:        project.Title,
		Description:  project.Description,
		Link:         lo.FromPtr(project.Link),
		ImageURL:     p.imageURL(project),
		Technologies: project.TechnologyNames(),
		CreatedAt:    project.CreatedAt,
		UpdatedAt:    project.UpdatedAt,
	}
	if project.Category != nil {
		v.Category = project.Category.Name
	}
	return v
}

func (p pageRenderer) projectViews(projects []*models.Project) []views.ProjectView {
	return lo.Map(projects, func(project *models.Project, _ int) views.ProjectView {
		return p.projectView(project)
	})
}
