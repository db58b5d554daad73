package middleware

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"

	"music-hub/pkg/common/config"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc.def":  "abc.def",
		"bearer  abc ":    "abc",
		"Basic dXNlcg==":  "",
		"Bearer":          "",
		"":                "",
		"abc.def.ghi.jkl": "",
	}
	for header, want := range cases {
		assert.Equal(t, want, bearerToken(header), header)
	}
}

func TestSecurityCheckMiddleware(t *testing.T) {
	h := server.New()
	h.Use(SecurityCheckMiddleware(config.SecurityConfig{
		MaxBodySize:    8,
		AllowedMethods: []string{"GET", "POST"},
	}))
	ok := func(_ context.Context, c *app.RequestContext) { c.Status(http.StatusOK) }
	h.GET("/ping", ok)
	h.POST("/ping", ok)
	h.DELETE("/ping", ok)

	w := ut.PerformRequest(h.Engine, "GET", "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Result().StatusCode())

	w = ut.PerformRequest(h.Engine, "DELETE", "/ping", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Result().StatusCode())

	body := []byte("0123456789")
	w = ut.PerformRequest(h.Engine, "POST", "/ping", &ut.Body{Body: bytes.NewReader(body), Len: len(body)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Result().StatusCode())
}

func TestTimeoutMiddlewareSetsDeadline(t *testing.T) {
	h := server.New()
	h.Use(TimeoutMiddleware(5))
	var hasDeadline bool
	h.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		_, hasDeadline = ctx.Deadline()
		c.Status(http.StatusOK)
	})

	ut.PerformRequest(h.Engine, "GET", "/ping", nil)
	assert.True(t, hasDeadline)
}
