package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/rpupo63/portfolio-site/storage"
)

// setupPageRoutes sets up the server-rendered site. Reads are public; write
// handlers check the policy themselves.
func setupPageRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/", handlers.pageHandler.index())
	r.Get("/about/", handlers.pageHandler.about())
	r.Get("/technologies/{name}/", handlers.pageHandler.technology())

	r.Get("/contact/", handlers.contactHandler.form())
	r.Post("/contact/", handlers.contactHandler.submit())

	r.Route("/projects", func(r chi.Router) {
		r.Get("/add/", handlers.projectFormHandler.createForm())
		r.Post("/add/", handlers.projectFormHandler.create())
		r.Get("/{projectID}/", handlers.pageHandler.projectDetail())
		r.Get("/{projectID}/edit/", handlers.projectFormHandler.updateForm())
		r.Post("/{projectID}/edit/", handlers.projectFormHandler.update())
		r.Get("/{projectID}/delete/", handlers.projectFormHandler.confirmDelete())
		r.Post("/{projectID}/delete/", handlers.projectFormHandler.delete())
	})

	r.Get("/admin/login/", handlers.authHandler.loginForm())
	r.Post("/admin/login/", handlers.authHandler.login())
	r.Post("/admin/logout/", handlers.authHandler.logout())
}

// setupAPIRoutes sets up the JSON API. Writes from anonymous callers get 403.
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, acceptedOrigins []string) {
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   acceptedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
		r.NotFound(handlers.projectHandler.notFound())

		r.Post("/auth/token/", handlers.authHandler.issueToken())

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", handlers.projectHandler.getAllProjects())
			r.Post("/", handlers.projectHandler.createProject())
			r.Get("/{projectID}/", handlers.projectHandler.getProject())
			r.Put("/{projectID}/", handlers.projectHandler.updateProject())
			r.Patch("/{projectID}/", handlers.projectHandler.patchProject())
			r.Delete("/{projectID}/", handlers.projectHandler.deleteProject())
		})

		r.Route("/technologies", func(r chi.Router) {
			r.Get("/", handlers.technologyHandler.getAllTechnologies())
			r.Post("/", handlers.technologyHandler.createTechnology())
			r.Get("/{technologyID}/", handlers.technologyHandler.getTechnology())
			r.Put("/{technologyID}/", handlers.technologyHandler.updateTechnology())
			r.Patch("/{technologyID}/", handlers.technologyHandler.updateTechnology())
			r.Delete("/{technologyID}/", handlers.technologyHandler.deleteTechnology())
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", handlers.categoryHandler.getAllCategories())
			r.Post("/", handlers.categoryHandler.createCategory())
			r.Get("/{categoryID}/", handlers.categoryHandler.getCategory())
			r.Put("/{categoryID}/", handlers.categoryHandler.updateCategory())
			r.Patch("/{categoryID}/", handlers.categoryHandler.updateCategory())
			r.Delete("/{categoryID}/", handlers.categoryHandler.deleteCategory())
		})
	})
}

func setupOperationalRoutes(r chi.Router, handlers *routeHandlers, m *metrics) {
	r.Get("/healthz", handlers.healthHandler.health())
	r.Method(http.MethodGet, "/metrics", m.handler())
}

// mediaServer is implemented by stores that serve their own files
type mediaServer interface {
	BaseURL() string
	Handler() http.Handler
}

// setupMediaRoutes serves uploaded files when the asset store keeps them locally
func setupMediaRoutes(r chi.Router, assets storage.AssetStore) {
	local, ok := assets.(mediaServer)
	if !ok {
		return
	}
	base := "/" + strings.Trim(local.BaseURL(), "/") + "/"
	r.Method(http.MethodGet, base+"*", local.Handler())
}
