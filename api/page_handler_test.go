package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousReadsSucceed(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	project := app.project("Daily Briefing API")
	technology := app.technology("Python")
	category := app.category("Web Development")

	paths := []string{
		"/",
		"/about/",
		"/contact/",
		"/admin/login/",
		"/projects/" + project.ID.String() + "/",
		"/technologies/Python/",
		"/api/projects/",
		"/api/projects/" + project.ID.String() + "/",
		"/api/technologies/",
		"/api/technologies/" + technology.ID.String() + "/",
		"/api/categories/",
		"/api/categories/" + category.ID.String() + "/",
		"/healthz",
		"/metrics",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := app.get(path, "")
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}

func TestIndexListsNewestFirst(t *testing.T) {
	app := newTestApp(t)
	app.seed()

	rec := app.get("/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	newer := strings.Index(body, "Daily Briefing API")
	older := strings.Index(body, "Full-Stack Django Portfolio")
	require.NotEqual(t, -1, newer)
	require.NotEqual(t, -1, older)
	assert.Less(t, newer, older)
	assert.Contains(t, body, "Log in")
}

func TestProjectDetail(t *testing.T) {
	app := newTestApp(t)
	app.seed()
	project := app.project("Daily Briefing API")
	path := "/projects/" + project.ID.String() + "/"

	rec := app.get(path, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Daily Briefing API")
	assert.Contains(t, rec.Body.String(), `href="/technologies/FastAPI/"`)
	assert.NotContains(t, rec.Body.String(), path+"edit/")

	token := app.user("editor", false)
	rec = app.get(path, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), path+"edit/")
	assert.Contains(t, rec.Body.String(), path+"delete/")
}

func TestProjectDetailNotFound(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, app.get("/projects/7d9f4bd4-3a3c-4d52-9a41-0f1a5c8f1e11/", "").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/projects/not-a-uuid/", "").Code)
	assert.Equal(t, http.StatusNotFound, app.get("/no/such/page/", "").Code)
}

func TestTechnologyPage(t *testing.T) {
	app := newTestApp(t)
	app.seed()

	t.Run("unknown name", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, app.get("/technologies/Haskell/", "").Code)
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, app.get("/technologies/python/", "").Code)
	})

	t.Run("escaped name", func(t *testing.T) {
		rec := app.get("/technologies/AWS%20S3/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Full-Stack Django Portfolio")
		assert.NotContains(t, rec.Body.String(), "Daily Briefing API")
	})

	t.Run("technology without projects", func(t *testing.T) {
		rec := app.sendJSON(http.MethodPost, "/api/technologies/", map[string]string{"name": "Rust"}, app.user("editor", false))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = app.get("/technologies/Rust/", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No projects use this technology yet.")
	})
}

func TestOperationalEndpoints(t *testing.T) {
	app := newTestApp(t)

	rec := app.get("/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	app.get("/about/", "")
	rec = app.get("/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_http_requests_total{method="GET",route="/about/",status="200"} 1`)
}

func TestMediaFilesAreServed(t *testing.T) {
	app := newTestApp(t)
	token := app.user("editor", false)

	rec := app.postMultipart("/projects/add/", map[string][]string{
		"title":       {"With image"},
		"description": {"Has a picture."},
	}, "shot.png", pngBytes(), token)
	require.Equal(t, http.StatusFound, rec.Code, rec.Body.String())

	project := app.project("With image")
	require.NotNil(t, project.Image)

	rec = app.get("/media/"+*project.Image, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pngBytes(), rec.Body.Bytes())
}
