package handlers_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/fintrack/fintrack/internal/observability"
	"github.com/fintrack/fintrack/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.SetHTMLTemplate(web.Templates())

	for _, m := range mw {
		r.Use(m)
	}

	r.Handle(method, path, h)

	return r
}

func getRequest(path string) (*http.Request, *httptest.ResponseRecorder) {
	return httptest.NewRequest(http.MethodGet, path, nil), httptest.NewRecorder()
}

// fresh registry per test so counters never collide

func newTestProm() *observability.Prom {
	return observability.NewProm(prometheus.NewRegistry())
}
