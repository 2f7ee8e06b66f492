package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/middleware"
	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/internal/service"
)

func newAccessContext(p models.Principal, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Set(middleware.ContextUserKey, &p)
	return c, rec
}

func TestAccessHandlerCheckAction(t *testing.T) {
	handler := NewAccessHandler(service.NewAccess(policy.NewEvaluator(nil), nil, nil, nil))
	student := models.Principal{ID: "S001", Role: models.RoleStudent, LinkedStudentIDs: []string{"S001"}}

	c, rec := newAccessContext(student, "/access/check?action=teacher.delete")
	handler.Check(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data AccessCheck `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Data.Allowed)
	assert.Equal(t, "forbidden", env.Data.Decision)
}

func TestAccessHandlerCheckUnknownRoute(t *testing.T) {
	handler := NewAccessHandler(service.NewAccess(policy.NewEvaluator(nil), nil, nil, nil))
	teacher := models.Principal{ID: "T001", Role: models.RoleTeacher}

	c, rec := newAccessContext(teacher, "/access/check?route=library")
	handler.Check(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data AccessCheck `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "unknown_route", env.Data.Decision)
}

func TestAccessHandlerCheckRequiresOneTarget(t *testing.T) {
	handler := NewAccessHandler(service.NewAccess(policy.NewEvaluator(nil), nil, nil, nil))

	c, rec := newAccessContext(models.Guest, "/access/check")
	handler.Check(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNavigationForGuestListsPublicRoutesOnly(t *testing.T) {
	handler := NewAccessHandler(service.NewAccess(policy.NewEvaluator(nil), nil, nil, nil))

	c, rec := newAccessContext(models.Guest, "/access/navigation")
	handler.Navigation(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data []NavigationEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	for _, entry := range env.Data {
		if entry.Public {
			assert.Equal(t, "allowed", entry.Decision, entry.Route)
		} else {
			assert.Equal(t, "unauthenticated", entry.Decision, entry.Route)
		}
	}
}

func TestMetricsHandlerReadyReportsFailingCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"redis": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)
	handler.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
