package api

import (
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(cfg config.Config, deps Dependencies, m *metrics) *routeHandlers {
	pages := newPageRenderer(cfg.Auth.LoginURL, deps.Assets)
	notifier := services.NewContactNotifier(deps.Mailer, cfg.Email.AdminEmail, cfg.Email.DefaultFromEmail)

	return &routeHandlers{
		pageHandler:        newPageHandler(pages, deps.Database),
		projectFormHandler: newProjectFormHandler(pages, deps.Database, deps.Assets),
		contactHandler:     newContactHandler(pages, notifier, m),
		authHandler:        newAuthHandler(pages, deps.Database.UserRepo(), deps.Tokens, cfg.Auth),
		projectHandler:     newProjectHandler(deps.Database, deps.Assets),
		technologyHandler:  newTechnologyHandler(deps.Database.TechnologyRepo()),
		categoryHandler:    newCategoryHandler(deps.Database.CategoryRepo()),
		healthHandler:      newHealthHandler(deps.Database),
	}
}
