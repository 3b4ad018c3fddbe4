package bark_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sre-norns/waymark/pkg/bark"
	"github.com/sre-norns/waymark/pkg/links"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func serve(router http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestIDAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(bark.RequestIDAPI())
	router.GET("/id", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, bark.RequestID(ctx))
	})

	t.Run("generated", func(t *testing.T) {
		w := serve(router, "/id", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, w.Body.String(), 36)
		require.Equal(t, w.Body.String(), w.Header().Get(bark.HTTPHeaderRequestID))
	})

	t.Run("given", func(t *testing.T) {
		w := serve(router, "/id", http.Header{bark.HTTPHeaderRequestID: []string{"req-42"}})
		require.Equal(t, "req-42", w.Body.String())
		require.Equal(t, "req-42", w.Header().Get(bark.HTTPHeaderRequestID))
	})
}

func TestHealthAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := map[string]struct {
		given      []bark.Pinger
		expectCode int
		expectBody string
	}{
		"no-dependencies": {
			expectCode: http.StatusOK,
			expectBody: `{"ready":true}`,
		},
		"healthy": {
			given:      []bark.Pinger{pingerFunc(func(context.Context) error { return nil })},
			expectCode: http.StatusOK,
			expectBody: `{"ready":true}`,
		},
		"unhealthy": {
			given: []bark.Pinger{
				pingerFunc(func(context.Context) error { return nil }),
				pingerFunc(func(context.Context) error { return errors.New("db is down") }),
			},
			expectCode: http.StatusServiceUnavailable,
			expectBody: `{"ready":false}`,
		},
	}

	for name, tc := range testCases {
		test := tc
		t.Run(name, func(t *testing.T) {
			router := gin.New()
			router.GET("/healthz", bark.HealthAPI(test.given...))

			w := serve(router, "/healthz", nil)
			require.Equal(t, test.expectCode, w.Code)
			require.JSONEq(t, test.expectBody, w.Body.String())
		})
	}
}

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := bark.NewMetrics(prometheus.NewRegistry())

	registry, err := links.NewRegistry("", links.DefaultRelations()...)
	require.NoError(t, err)
	root, err := bark.RootAPI(registry, 14)
	require.NoError(t, err)

	router := gin.New()
	router.Use(metrics.API())
	router.GET("/", bark.ContentTypeAPI(), root)
	router.GET("/metrics", metrics.Handler())

	serve(router, "/", nil)
	serve(router, "/", http.Header{bark.HTTPHeaderAccept: []string{"text/html"}})
	serve(router, "/nowhere", nil)

	w := serve(router, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	require.True(t, strings.Contains(body, `waymark_http_requests_total{code="200",method="GET",route="/"} 1`), body)
	require.True(t, strings.Contains(body, `waymark_http_requests_total{code="406",method="GET",route="/"} 1`), body)
	require.True(t, strings.Contains(body, `waymark_http_requests_total{code="404",method="GET",route="unmatched"} 1`), body)
}
