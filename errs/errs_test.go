package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDatabaseErrorClassifiesDriverErrors(t *testing.T) {
	tests := []struct {
		name   string
		cause  error
		status int
	}{
		{"postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_projects_title"`), http.StatusConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: projects.title"), http.StatusConflict},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), http.StatusBadRequest},
		{"record not found", errors.New("record not found"), http.StatusNotFound},
		{"connection", errors.New("dial tcp: connection refused"), http.StatusServiceUnavailable},
		{"other", errors.New("syntax error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDatabaseError("update", "project", tt.cause)
			assert.Equal(t, tt.status, err.StatusCode)
		})
	}

	assert.True(t, IsConflict(NewDatabaseError("create", "project", errors.New("UNIQUE constraint failed: projects.title"))))
}

func TestNewDatabaseErrorPassesThroughApiErr(t *testing.T) {
	notFound := NewNotFound("project")
	err := NewDatabaseError("find", "project", fmt.Errorf("lookup: %w", notFound))
	assert.Same(t, notFound, err)
	assert.True(t, IsNotFound(err))
}

func TestGetFullErrorFollowsCauses(t *testing.T) {
	inner := NewInternalErrorWithCause("send failed", errors.New("smtp: 421"))
	outer := NewInternalErrorWithCause("contact", inner)
	assert.Equal(t, "contact -> send failed -> smtp: 421", outer.GetFullError())
	assert.Equal(t, "operation not allowed: nope", NewForbiddenError("nope").Error())
}
