package database

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

type seedProject struct {
	title        string
	description  string
	link         string
	category     string
	technologies []string
}

var (
	seedCategories   = []string{"Web Development", "Data Science"}
	seedTechnologies = []string{"Python", "Django", "FastAPI", "Docker", "AWS S3", "Render", "Pytest", "PostgreSQL"}
	seedProjects     = []seedProject{
		{
			title: "Full-Stack Django Portfolio",
			description: "The website you are currently on. A full-stack, production-grade " +
				"web application built from scratch. It features a complete CRUD " +
				"interface, a secure contact form, a full test suite, " +
				"and a professional CI/CD pipeline. Deployed on Render, serving " +
				"media via AWS S3.",
			link:         "https://github.com/zahaj/django-blog-project",
			category:     "Web Development",
			technologies: []string{"Python", "Django", "PostgreSQL", "Pytest", "AWS S3", "Render"},
		},
		{
			title: "Daily Briefing API",
			description: "A containerized, tested, and authenticated backend service " +
				"built with Python and FastAPI. This project serves as a comprehensive " +
				"demonstration of professional backend development practices, from " +
				"initial design to automated CI/CD deployment.",
			link:         "https://github.com/zahaj/fastapi-briefing-api",
			category:     "Web Development",
			technologies: []string{"Python", "FastAPI", "Docker", "Pytest"},
		},
	}
)

// Seed creates the starter categories, technologies and projects. Records that
// already exist are left untouched, so running it twice is harmless.
func Seed(ctx context.Context, d Database) error {
	categories := make(map[string]*models.Category, len(seedCategories))
	for _, name := range seedCategories {
		category, err := d.categoryRepo.FindByName(ctx, name)
		if errs.IsNotFound(err) {
			category = &models.Category{Name: name}
			err = d.categoryRepo.Add(ctx, category)
		}
		if err != nil {
			return err
		}
		categories[name] = category
	}

	technologies := make(map[string]models.Technology, len(seedTechnologies))
	for _, name := range seedTechnologies {
		technology, err := d.technologyRepo.FindByName(ctx, name)
		if errs.IsNotFound(err) {
			technology = &models.Technology{Name: name}
			err = d.technologyRepo.Add(ctx, technology)
		}
		if err != nil {
			return err
		}
		technologies[name] = *technology
	}

	for _, seed := range seedProjects {
		_, err := d.projectRepo.FindByTitle(ctx, seed.title)
		if err == nil {
			continue
		}
		if !errs.IsNotFound(err) {
			return err
		}

		project := &models.Project{
			Title:        seed.title,
			Description:  seed.description,
			Link:         lo.ToPtr(seed.link),
			CategoryID:   &categories[seed.category].ID,
			Technologies: lo.Map(seed.technologies, func(name string, _ int) models.Technology { return technologies[name] }),
		}
		if err := d.projectRepo.Add(ctx, project); err != nil {
			return err
		}
		log.Info().Str("title", project.Title).Msg("Seeded project")
	}

	log.Info().Msg("Database seeding complete")
	return nil
}

// EnsureAdmin creates the admin account, or resets its password if it already exists
func EnsureAdmin(ctx context.Context, d Database, username, passwordHash string) (*models.User, error) {
	if username == "" || passwordHash == "" {
		return nil, errors.New("admin username and password are required")
	}

	user, err := d.userRepo.FindByUsername(ctx, username)
	if errs.IsNotFound(err) {
		user = &models.User{Username: username, PasswordHash: passwordHash, IsAdmin: true}
		if err := d.userRepo.Add(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash
	user.IsAdmin = true
	if err := d.userRepo.UpdatePassword(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
