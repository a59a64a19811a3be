package api

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/forms"
)

func TestAnonymousFormWritesRedirectToLogin(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	project := app.project("Daily Briefing API")
	before := app.projectCount()

	paths := []string{
		"/projects/add/",
		"/projects/" + project.ID.String() + "/edit/",
		"/projects/" + project.ID.String() + "/delete/",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := app.get(path, "")
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, loginRedirect(path), rec.Header().Get("Location"))

			rec = app.postForm(path, url.Values{"title": {"Sneaky"}, "description": {"Nope"}}, "")
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, loginRedirect(path), rec.Header().Get("Location"))
		})
	}

	assert.Equal(t, before, app.projectCount())
	assert.Equal(t, "Daily Briefing API", app.project("Daily Briefing API").Title)
}

func TestInvalidTokenIsTreatedAsAnonymous(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/projects/add/", "not-a-token")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, loginRedirect("/projects/add/"), rec.Header().Get("Location"))
}

func TestCreateProjectForm(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	token := app.user("editor", false)
	python := app.technology("Python")
	docker := app.technology("Docker")
	category := app.category("Data Science")

	rec := app.get("/projects/add/", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="technologies"`)
	assert.Contains(t, rec.Body.String(), "Data Science")

	before := app.projectCount()
	rec = app.postForm("/projects/add/", url.Values{
		"title":        {"New Project"},
		"description":  {"A new project description."},
		"technologies": {python.ID.String(), docker.ID.String()},
		"category":     {category.ID.String()},
		"link":         {"https://example.com/new"},
	}, token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, before+1, app.projectCount())

	project := app.project("New Project")
	assert.ElementsMatch(t, []string{"Docker", "Python"}, project.TechnologyNames())
	require.NotNil(t, project.Category)
	assert.Equal(t, "Data Science", project.Category.Name)
	require.NotNil(t, project.Link)
	assert.Equal(t, "https://example.com/new", *project.Link)
}

func TestCreateProjectFormErrors(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	token := app.user("editor", false)
	before := app.projectCount()

	tests := []struct {
		name    string
		values  url.Values
		message string
	}{
		{
			name:    "missing title",
			values:  url.Values{"description": {"No title here."}},
			message: "This field is required",
		},
		{
			name:    "missing description",
			values:  url.Values{"title": {"Only a title"}},
			message: forms.MsgRequired,
		},
		{
			name:    "duplicate title",
			values:  url.Values{"title": {"Daily Briefing API"}, "description": {"Again."}},
			message: "Project with this Title already exists.",
		},
		{
			name:    "bad link",
			values:  url.Values{"title": {"Linked"}, "description": {"d"}, "link": {"not a url"}},
			message: forms.MsgInvalidURL,
		},
		{
			name:    "unknown technology",
			values:  url.Values{"title": {"Tech"}, "description": {"d"}, "technologies": {"7d9f4bd4-3a3c-4d52-9a41-0f1a5c8f1e11"}},
			message: "7d9f4bd4-3a3c-4d52-9a41-0f1a5c8f1e11 is not one of the available choices.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.postForm("/projects/add/", tt.values, token)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
			assert.Equal(t, before, app.projectCount())
		})
	}
}

func TestCreateProjectRejectsNonImageUpload(t *testing.T) {
	app := newTestApp(t)
	token := app.user("editor", false)

	rec := app.postMultipart("/projects/add/", url.Values{
		"title":       {"Bad upload"},
		"description": {"The file is text."},
	}, "notes.png", []byte("just some text"), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), forms.MsgInvalidImage)
	assert.Equal(t, int64(0), app.projectCount())
}

func TestUpdateProjectForm(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	token := app.user("editor", false)
	original := app.project("Daily Briefing API")
	path := "/projects/" + original.ID.String() + "/edit/"

	rec := app.get(path, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="Daily Briefing API"`)

	rec = app.postForm(path, url.Values{
		"title":        {"Daily Briefing API v2"},
		"description":  {"Rewritten."},
		"technologies": {app.technology("Docker").ID.String()},
	}, token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "/", rec.Header().Get("Location"))

	updated := app.project("Daily Briefing API v2")
	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, "Rewritten.", updated.Description)
	assert.Equal(t, []string{"Docker"}, updated.TechnologyNames())
	assert.Nil(t, updated.Category)
	assert.True(t, updated.CreatedAt.Equal(original.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(original.UpdatedAt))
}

func TestUpdateProjectKeepsOwnTitle(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	token := app.user("editor", false)
	project := app.project("Daily Briefing API")

	rec := app.postForm("/projects/"+project.ID.String()+"/edit/", url.Values{
		"title":       {"Daily Briefing API"},
		"description": {"Same title, new text."},
	}, token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, "Same title, new text.", app.project("Daily Briefing API").Description)
}

func TestUpdateProjectFormInvalidLeavesRecord(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	token := app.user("editor", false)
	project := app.project("Daily Briefing API")

	rec := app.postForm("/projects/"+project.ID.String()+"/edit/", url.Values{
		"title":       {"Full-Stack Django Portfolio"},
		"description": {"Collides."},
	}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Project with this Title already exists.")
	assert.Equal(t, project.Description, app.project("Daily Briefing API").Description)
}

func TestUpdateMissingProject(t *testing.T) {
	app := newTestApp(t)
	token := app.user("editor", false)
	path := "/projects/7d9f4bd4-3a3c-4d52-9a41-0f1a5c8f1e11/edit/"

	assert.Equal(t, http.StatusFound, app.get(path, "").Code)
	assert.Equal(t, http.StatusNotFound, app.get(path, token).Code)
	assert.Equal(t, http.StatusNotFound, app.postForm(path, url.Values{"title": {"x"}, "description": {"y"}}, token).Code)
}

func TestDeleteProjectForm(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	token := app.user("editor", false)
	project := app.project("Daily Briefing API")
	path := "/projects/" + project.ID.String() + "/delete/"
	before := app.projectCount()

	rec := app.get(path, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Are you sure you want to delete")
	assert.Equal(t, before, app.projectCount())

	rec = app.postForm(path, url.Values{}, token)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, before-1, app.projectCount())

	assert.Equal(t, http.StatusNotFound, app.get("/projects/"+project.ID.String()+"/", "").Code)
}

func TestProjectImageLifecycle(t *testing.T) {
	app := newTestApp(t)
	token := app.user("editor", false)

	rec := app.postMultipart("/projects/add/", url.Values{
		"title":       {"Gallery"},
		"description": {"Pictures."},
	}, "first.png", pngBytes(), token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

	project := app.project("Gallery")
	require.NotNil(t, project.Image)
	firstKey := *project.Image
	assert.Regexp(t, `^project_images/[0-9a-f-]{36}\.png$`, firstKey)
	assert.FileExists(t, filepath.Join(app.mediaRoot, firstKey))

	editPath := "/projects/" + project.ID.String() + "/edit/"
	rec = app.get(editPath, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/media/"+firstKey)

	// No new upload and no clear keeps the image
	rec = app.postMultipart(editPath, url.Values{"title": {"Gallery"}, "description": {"Still pictures."}}, "", nil, token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	require.NotNil(t, app.project("Gallery").Image)
	assert.Equal(t, firstKey, *app.project("Gallery").Image)

	// A new upload replaces the stored file
	rec = app.postMultipart(editPath, url.Values{"title": {"Gallery"}, "description": {"New picture."}}, "second.png", pngBytes(), token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	secondKey := *app.project("Gallery").Image
	assert.NotEqual(t, firstKey, secondKey)
	assert.NoFileExists(t, filepath.Join(app.mediaRoot, firstKey))

	// Clearing removes it
	rec = app.postMultipart(editPath, url.Values{"title": {"Gallery"}, "description": {"No picture."}, "image-clear": {"on"}}, "", nil, token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Nil(t, app.project("Gallery").Image)
	_, err := os.Stat(filepath.Join(app.mediaRoot, secondKey))
	assert.True(t, os.IsNotExist(err))
}
