package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site/errs"
)

func baseEnv() map[string]string {
	return map[string]string{
		"ADMIN_EMAIL": "owner@example.com",
		"JWT_SECRET":  "test-secret",
	}
}

func TestFromMapDefaults(t *testing.T) {
	cfg, err := FromMap(baseEnv())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, 180*time.Second, cfg.ReadTimeout())
	assert.Equal(t, "/admin/login/", cfg.Auth.LoginURL)
	assert.Equal(t, 336*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, EmailBackendConsole, cfg.Email.Backend)
	assert.Equal(t, "owner@example.com", cfg.Email.AdminEmail)
	assert.Equal(t, StorageBackendLocal, cfg.Storage.Backend)
	assert.Equal(t, DBTypeSQLite, cfg.Database.Type)
	assert.False(t, cfg.Tasks.SeedData)
}

func TestFromMapParsesLists(t *testing.T) {
	environ := baseEnv()
	environ["ACCEPTED_ORIGINS"] = "https://a.example,https://b.example"
	environ["SEED_DATA"] = "true"

	cfg, err := FromMap(environ)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AcceptedOrigins)
	assert.True(t, cfg.Tasks.SeedData)
}

func TestFromMapRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"email backend", "EMAIL_BACKEND", "pigeon"},
		{"storage backend", "STORAGE_BACKEND", "floppy"},
		{"db type", "DB_TYPE", "mongo"},
		{"missing admin email", "ADMIN_EMAIL", ""},
		{"missing jwt secret", "JWT_SECRET", ""},
		{"s3 without bucket", "STORAGE_BACKEND", StorageBackendS3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := baseEnv()
			environ[tt.key] = tt.value
			_, err := FromMap(environ)
			require.Error(t, err)
			assert.True(t, errs.IsConfigError(err))
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	dsn, err := DatabaseConfig{Type: DBTypeSQLite, SQLitePath: ":memory:"}.DSN()
	require.NoError(t, err)
	assert.Equal(t, "file::memory:?_pragma=foreign_keys(1)", dsn)

	_, err = DatabaseConfig{Type: DBTypePostgres}.DSN()
	require.Error(t, err)

	dsn, err = DatabaseConfig{
		Type:             DBTypeSupabase,
		SupabaseHost:     "db.example",
		SupabaseUser:     "u",
		SupabasePassword: "p",
		SupabaseName:     "n",
		SupabasePort:     "5432",
	}.DSN()
	require.NoError(t, err)
	assert.Contains(t, dsn, "sslmode=require")
}

func TestOverlayKeepsExistingValues(t *testing.T) {
	merged := Overlay(
		map[string]string{"JWT_SECRET": "local"},
		map[string]string{"JWT_SECRET": "remote", "ADMIN_EMAIL": "ssm@example.com"},
	)
	assert.Equal(t, "local", merged["JWT_SECRET"])
	assert.Equal(t, "ssm@example.com", merged["ADMIN_EMAIL"])
}

func TestParameterKey(t *testing.T) {
	assert.Equal(t, "JWT_SECRET", ParameterKey("/portfolio/prod", "/portfolio/prod/jwt_secret"))
	assert.Equal(t, "EMAIL_HOST_PASSWORD", ParameterKey("/portfolio/prod/", "/portfolio/prod/email/host-password"))
}
