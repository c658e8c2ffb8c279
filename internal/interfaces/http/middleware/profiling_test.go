package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var route, method string
	r := gin.New()
	r.Use(ProfilingLabels())
	r.POST("/sales-orders/:id/fulfill", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		method, _ = pprof.Label(c.Request.Context(), "method")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/sales-orders/42/fulfill", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/sales-orders/:id/fulfill", route)
	assert.Equal(t, http.MethodPost, method)
}
