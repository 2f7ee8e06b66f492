package secure

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// New adapts unrolled/secure header hardening to a gin middleware.
func New(production bool) gin.HandlerFunc {
	mw := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		SSLRedirect:           production,
		SSLProxyHeaders:       map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:         !production,
	})

	return func(c *gin.Context) {
		if err := mw.Process(c.Writer, c.Request); err != nil {
			// Process already wrote the redirect or rejection.
			c.Abort()
			return
		}
		c.Next()
	}
}
