package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/views"
)

type pageHandler struct {
	pages          pageRenderer
	logger         zerolog.Logger
	projectRepo    *database.ProjectRepo
	technologyRepo *database.TechnologyRepo
}

func newPageHandler(pages pageRenderer, db database.Database) pageHandler {
	return pageHandler{
		pages:          pages,
		logger:         log.With().Str("handlerName", "pageHandler").Logger(),
		projectRepo:    db.ProjectRepo(),
		technologyRepo: db.TechnologyRepo(),
	}
}

// index lists every project, newest first
func (h pageHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll(r.Context())
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}
		h.pages.render(w, r, http.StatusOK, "Projects", views.ProjectIndex(h.pages.projectViews(projects)))
	}
}

func (h pageHandler) about() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.render(w, r, http.StatusOK, "About", views.About())
	}
}

func (h pageHandler) projectDetail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := uuid.Parse(chi.URLParam(r, "projectID"))
		if err != nil {
			h.pages.notFound(w, r, "project not found")
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}

		canEdit := !actorFromCtx(r.Context()).IsAnonymous()
		h.pages.render(w, r, http.StatusOK, project.Title, views.ProjectDetail(h.pages.projectView(project), canEdit))
	}
}

// technology lists the projects using the technology named in the path.
// Names match exactly, including case.
func (h pageHandler) technology() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		// chi routes on RawPath when the path carries escapes such as %2F
		if r.URL.RawPath != "" {
			unescaped, err := url.PathUnescape(name)
			if err != nil {
				h.pages.notFound(w, r, "technology not found")
				return
			}
			name = unescaped
		}

		technology, err := h.technologyRepo.FindByName(r.Context(), name)
		if err != nil {
			h.pages.fail(w, r, h.logger, err)
			return
		}

		projects, err := h.projectRepo.FindByTechnology(r.Context(), technology.ID)
		if err != nil {
			h.pages.fail(w, r, h.logger, wrapDatabaseError("find projects for", "technology", err))
			return
		}

		h.pages.render(w, r, http.StatusOK, technology.Name,
			views.TechnologyDetail(technology.Name, h.pages.projectViews(projects)))
	}
}

func (h pageHandler) notFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.pages.notFound(w, r, "The requested page does not exist.")
	}
}

// healthHandler reports whether the database answers
type healthHandler struct {
	responder Responder
	db        database.Database
}

func newHealthHandler(db database.Database) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()
	return healthHandler{responder: NewResponder(logger), db: db}
}

func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.db.Ping(r.Context()); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("ping", "database", err))
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "ok"})
	}
}
