package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

// formLookup resolves technology and category references by id, as posted by the HTML form
type formLookup struct {
	db database.Database
}

func (l formLookup) TitleExists(ctx context.Context, title string, exclude uuid.UUID) (bool, error) {
	return l.db.ProjectRepo().TitleExists(ctx, title, exclude)
}

func (l formLookup) Technology(ctx context.Context, ref string) (*models.Technology, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, errs.NewNotFound("technology")
	}
	return l.db.TechnologyRepo().FindByID(ctx, id)
}

func (l formLookup) Category(ctx context.Context, ref string) (*models.Category, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, errs.NewNotFound("category")
	}
	return l.db.CategoryRepo().FindByID(ctx, id)
}

// apiLookup resolves references by name, as sent to the JSON API
type apiLookup struct {
	db database.Database
}

func (l apiLookup) TitleExists(ctx context.Context, title string, exclude uuid.UUID) (bool, error) {
	return l.db.ProjectRepo().TitleExists(ctx, title, exclude)
}

func (l apiLookup) Technology(ctx context.Context, ref string) (*models.Technology, error) {
	return l.db.TechnologyRepo().FindByName(ctx, ref)
}

func (l apiLookup) Category(ctx context.Context, ref string) (*models.Category, error) {
	return l.db.CategoryRepo().FindByName(ctx, ref)
}
