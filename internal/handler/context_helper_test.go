package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestQueryIntBounds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]int{
		"/x":                           7,
		"/x?n=abc":                     7,
		"/x?n=0":                       7,
		"/x?n=-3":                      7,
		"/x?n=42":                      42,
		"/x?n=4611686018427387904":     100,
		"/x?n=99999999999999999999999": 7,
	}
	for target, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, queryInt(c, "n", 7, 100), target)
	}
}
