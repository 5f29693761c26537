package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/iliyamo/educare-hub/internal/repository/memrepo"
)

func TestRootBanner(t *testing.T) {
	h := NewHealthHandler(memrepo.New(), testTimeout, zap.NewNop())
	rec := call{method: http.MethodGet, target: "/"}.do(t, h.Root)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "EducareHub Server is running", rec.Body.String())
}

func TestHealth(t *testing.T) {
	rec := call{method: http.MethodGet, target: "/healthz"}.do(t, NewHealthHandler(memrepo.New(), testTimeout, zap.NewNop()).Health)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call{method: http.MethodGet, target: "/healthz"}.do(t, NewHealthHandler(downStore{}, testTimeout, zap.NewNop()).Health)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
