package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/edusphere-api/internal/models"
	"github.com/noah-isme/edusphere-api/internal/policy"
	"github.com/noah-isme/edusphere-api/internal/service"
	"github.com/noah-isme/edusphere-api/pkg/logger"
)

type fakeResolver struct {
	claims *models.JWTClaims
	err    error
}

func (f fakeResolver) ValidateToken(string) (*models.JWTClaims, error) {
	return f.claims, f.err
}

func (f fakeResolver) Principal(claims *models.JWTClaims) models.Principal {
	p := claims.Principal()
	p.Grades = []string{"10th"}
	return p
}

func newRouter(resolver SessionResolver, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(resolver))
	r.GET("/probe", handlers...)
	return r
}

func perform(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionResolvesPrincipal(t *testing.T) {
	resolver := fakeResolver{claims: &models.JWTClaims{PrincipalID: "P001", Role: models.RoleParent, Name: "Robert Johnson", LinkedStudentIDs: []string{"S001"}}}
	var seen *models.Principal
	var role string
	r := newRouter(resolver, func(c *gin.Context) {
		seen = CurrentPrincipal(c)
		role = c.GetString(logger.RoleKey)
		c.Status(http.StatusOK)
	})

	perform(r, "Bearer good-token")
	require.NotNil(t, seen)
	assert.Equal(t, "P001", seen.ID)
	assert.Equal(t, []string{"10th"}, seen.Grades)
	assert.Equal(t, "PARENT", role)
}

func TestSessionFallsBackToGuest(t *testing.T) {
	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer bad"} {
		var seen *models.Principal
		r := newRouter(fakeResolver{err: errors.New("invalid")}, func(c *gin.Context) {
			seen = CurrentPrincipal(c)
			c.Status(http.StatusOK)
		})
		perform(r, header)
		require.NotNil(t, seen, header)
		assert.True(t, seen.IsGuest(), header)
	}
}

func TestRequireRouteAndAction(t *testing.T) {
	access := service.NewAccess(policy.NewEvaluator(nil), nil, nil, nil)
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	student := fakeResolver{claims: &models.JWTClaims{PrincipalID: "S001", Role: models.RoleStudent}}

	r := newRouter(student, RequireRoute(access, models.RouteAssignments), RequireAction(access, models.ActionAssignmentSubmit), ok)
	assert.Equal(t, http.StatusOK, perform(r, "Bearer t").Code)

	r = newRouter(student, RequireAction(access, models.ActionTeacherDelete), ok)
	assert.Equal(t, http.StatusForbidden, perform(r, "Bearer t").Code)

	r = newRouter(fakeResolver{err: errors.New("none")}, RequireRoute(access, models.RouteStudents), ok)
	assert.Equal(t, http.StatusUnauthorized, perform(r, "").Code)

	r = newRouter(student, RequireRoute(access, models.Route("library")), ok)
	assert.Equal(t, http.StatusNotFound, perform(r, "Bearer t").Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	assert.Nil(t, ExtractMeta(c))

	WithResponseMeta()(c)
	assert.Nil(t, ExtractMeta(c))

	SetCacheHit(c, true)
	meta := ExtractMeta(c)
	assert.Equal(t, true, meta["cache_hit"])
	assert.Contains(t, meta, "processing_time_ms")
}
