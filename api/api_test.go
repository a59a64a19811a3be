package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rpupo63/portfolio-site/services"
	"github.com/rpupo63/portfolio-site/storage"
)

const (
	testAdminEmail = "owner@example.com"
	testPassword   = "correct horse battery staple"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// stepClock advances one second on every reading so timestamps are strictly ordered
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type testApp struct {
	t         *testing.T
	handler   http.Handler
	db        database.Database
	outbox    *services.Outbox
	tokens    *auth.TokenManager
	mediaRoot string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	clock := &stepClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	gdb, err := database.Open(config.DatabaseConfig{Type: config.DBTypeSQLite, SQLitePath: ":memory:"}, &gorm.Config{
		Logger:  logger.Discard,
		NowFunc: clock.Now,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := config.Config{
		LogFormat: "json",
		Auth: config.AuthConfig{
			LoginURL:   "/admin/login/",
			JWTSecret:  "test-secret",
			SessionTTL: time.Hour,
		},
		Email: config.EmailConfig{
			AdminEmail:       testAdminEmail,
			DefaultFromEmail: "webmaster@example.com",
		},
	}

	app := &testApp{
		t:         t,
		db:        database.New(gdb),
		outbox:    services.NewOutbox(),
		tokens:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL),
		mediaRoot: t.TempDir(),
	}
	app.handler, err = NewRouter(cfg, Dependencies{
		Database: app.db,
		Mailer:   app.outbox,
		Assets:   storage.NewLocalStore(app.mediaRoot, "/media/"),
		Tokens:   app.tokens,
	})
	require.NoError(t, err)
	return app
}

func (a *testApp) seed() {
	a.t.Helper()
	require.NoError(a.t, database.Seed(context.Background(), a.db))
}

// user creates an account and returns a session token for it
func (a *testApp) user(username string, admin bool) string {
	a.t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(a.t, err)
	user := &models.User{Username: username, PasswordHash: hash, IsAdmin: admin}
	require.NoError(a.t, a.db.UserRepo().Add(context.Background(), user))
	token, err := a.tokens.Issue(user)
	require.NoError(a.t, err)
	return token
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	withSession(req, token)
	return a.do(req)
}

// postForm submits an urlencoded form the way a browser with a session cookie would
func (a *testApp) postForm(path string, values url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	withSession(req, token)
	return a.do(req)
}

// postMultipart submits a form with one file attached as "image"
func (a *testApp) postMultipart(path string, values url.Values, filename string, file []byte, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(a.t, writer.WriteField(key, v))
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(a.t, err)
		_, err = part.Write(file)
		require.NoError(a.t, err)
	}
	require.NoError(a.t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	withSession(req, token)
	return a.do(req)
}

// sendJSON calls the API with an optional bearer token
func (a *testApp) sendJSON(method, path string, payload any, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(a.t, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return a.do(req)
}

func (a *testApp) projectCount() int64 {
	a.t.Helper()
	count, err := a.db.ProjectRepo().Count(context.Background())
	require.NoError(a.t, err)
	return count
}

func (a *testApp) project(title string) *models.Project {
	a.t.Helper()
	project, err := a.db.ProjectRepo().FindByTitle(context.Background(), title)
	require.NoError(a.t, err)
	return project
}

func (a *testApp) technology(name string) *models.Technology {
	a.t.Helper()
	technology, err := a.db.TechnologyRepo().FindByName(context.Background(), name)
	require.NoError(a.t, err)
	return technology
}

func (a *testApp) category(name string) *models.Category {
	a.t.Helper()
	category, err := a.db.CategoryRepo().FindByName(context.Background(), name)
	require.NoError(a.t, err)
	return category
}

func withSession(req *http.Request, token string) {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func loginRedirect(path string) string {
	return "/admin/login/?next=" + url.QueryEscape(path)
}

// pngBytes is enough of a PNG for content sniffing
func pngBytes() []byte {
	return append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
}
