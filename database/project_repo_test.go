package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
)

func addTechnology(t *testing.T, d Database, name string) models.Technology {
	t.Helper()
	technology := &models.Technology{Name: name}
	require.NoError(t, d.TechnologyRepo().Add(context.Background(), technology))
	return *technology
}

func addCategory(t *testing.T, d Database, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, d.CategoryRepo().Add(context.Background(), category))
	return category
}

func addProject(t *testing.T, d Database, title string, category *models.Category, technologies ...models.Technology) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:        title,
		Description:  "Description of " + title,
		Technologies: technologies,
	}
	if category != nil {
		project.CategoryID = &category.ID
	}
	require.NoError(t, d.ProjectRepo().Add(context.Background(), project))
	return project
}

func TestProjectAddAndFind(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	python := addTechnology(t, d, "Python")
	django := addTechnology(t, d, "Django")
	web := addCategory(t, d, "Web Development")
	created := addProject(t, d, "Portfolio", web, python, django)

	found, err := d.ProjectRepo().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portfolio", found.Title)
	require.NotNil(t, found.Category)
	assert.Equal(t, "Web Development", found.Category.Name)
	assert.Equal(t, []string{"Django", "Python"}, found.TechnologyNames())
	assert.False(t, found.CreatedAt.IsZero())
	assert.False(t, found.CreatedAt.After(found.UpdatedAt))
}

func TestProjectFindByIDNotFound(t *testing.T) {
	d := openTestDB(t)

	_, err := d.ProjectRepo().FindByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectFindAllNewestFirst(t *testing.T) {
	d := openTestDB(t)

	addProject(t, d, "First", nil)
	addProject(t, d, "Second", nil)
	addProject(t, d, "Third", nil)

	projects, err := d.ProjectRepo().FindAll(context.Background())
	require.NoError(t, err)
	titles := lo.Map(projects, func(p *models.Project, _ int) string { return p.Title })
	assert.Equal(t, []string{"Third", "Second", "First"}, titles)
}

func TestProjectUpdateKeepsCreatedAt(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	python := addTechnology(t, d, "Python")
	docker := addTechnology(t, d, "Docker")
	project := addProject(t, d, "Briefing API", nil, python)

	before, err := d.ProjectRepo().FindByID(ctx, project.ID)
	require.NoError(t, err)

	before.Title = "Daily Briefing API"
	before.Technologies = []models.Technology{docker}
	require.NoError(t, d.ProjectRepo().Update(ctx, before))

	after, err := d.ProjectRepo().FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily Briefing API", after.Title)
	assert.Equal(t, []string{"Docker"}, after.TechnologyNames())
	assert.True(t, after.CreatedAt.Equal(before.CreatedAt), "created_at must not change")
	assert.True(t, after.UpdatedAt.After(before.UpdatedAt), "updated_at must advance")

	require.NoError(t, d.ProjectRepo().Update(ctx, after))
	again, err := d.ProjectRepo().FindByID(ctx, project.ID)
	require.NoError(t, err)
	assert.True(t, again.CreatedAt.Equal(before.CreatedAt))
	assert.True(t, again.UpdatedAt.After(after.UpdatedAt))
}

func TestProjectUpdateMissing(t *testing.T) {
	d := openTestDB(t)

	err := d.ProjectRepo().Update(context.Background(), &models.Project{ID: uuid.New(), Title: "ghost", Description: "x"})
	assert.True(t, errs.IsNotFound(err))
}

func TestProjectTitleIsUnique(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	first := addProject(t, d, "Unique", nil)

	exists, err := d.ProjectRepo().TitleExists(ctx, "Unique", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = d.ProjectRepo().TitleExists(ctx, "Unique", first.ID)
	require.NoError(t, err)
	assert.False(t, exists, "the project being edited does not collide with itself")

	err = d.ProjectRepo().Add(ctx, &models.Project{Title: "Unique", Description: "again"})
	require.Error(t, err)
	assert.Equal(t, 409, errs.NewDatabaseError("create", "project", err).StatusCode)

	count, err := d.ProjectRepo().Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestProjectDeleteRemovesAssociations(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	python := addTechnology(t, d, "Python")
	project := addProject(t, d, "Doomed", nil, python)

	require.NoError(t, d.ProjectRepo().Delete(ctx, project.ID))

	_, err := d.ProjectRepo().FindByID(ctx, project.ID)
	assert.True(t, errs.IsNotFound(err))

	var rows int64
	require.NoError(t, d.db.Model(&models.ProjectTechnology{}).Count(&rows).Error)
	assert.Zero(t, rows)

	_, err = d.TechnologyRepo().FindByID(ctx, python.ID)
	assert.NoError(t, err, "technologies outlive their projects")

	assert.True(t, errs.IsNotFound(d.ProjectRepo().Delete(ctx, project.ID)))
}

func TestProjectFindByTechnology(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	python := addTechnology(t, d, "Python")
	rust := addTechnology(t, d, "Rust")
	addProject(t, d, "A", nil, python)
	addProject(t, d, "B", nil, python, rust)
	addProject(t, d, "C", nil)

	projects, err := d.ProjectRepo().FindByTechnology(ctx, python.ID)
	require.NoError(t, err)
	titles := lo.Map(projects, func(p *models.Project, _ int) string { return p.Title })
	assert.Equal(t, []string{"B", "A"}, titles)
	assert.Equal(t, []string{"Python", "Rust"}, projects[0].TechnologyNames(), "preload returns the full set")

	unused := addTechnology(t, d, "Haskell")
	projects, err = d.ProjectRepo().FindByTechnology(ctx, unused.ID)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
