package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/metrics"
	"intranet-portal-backend/pkg/utils"
)

func echoCaller() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(strconv.FormatInt(CallerID(r.Context()), 10)))
	})
}

func TestWriteAuth(t *testing.T) {
	jwtSvc := utils.NewJWTService("secret")
	token, _, err := jwtSvc.GenerateAccessToken(3, "u@example.com")
	require.NoError(t, err)

	cases := []struct {
		name        string
		requireAuth bool
		method      string
		header      string
		status      int
		body        string
	}{
		{"open write anonymous", false, http.MethodPost, "", 200, "0"},
		{"open write with token", false, http.MethodPost, "Bearer " + token, 200, "3"},
		{"open write bad token ignored", false, http.MethodPost, "Bearer nope", 200, "0"},
		{"strict read anonymous", true, http.MethodGet, "", 200, "0"},
		{"strict write anonymous", true, http.MethodPost, "", 401, ""},
		{"strict write bad token", true, http.MethodDelete, "Bearer nope", 401, ""},
		{"strict write with token", true, http.MethodPatch, "Bearer " + token, 200, "3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := WriteAuth(&config.Config{RequireAuth: tc.requireAuth}, jwtSvc)(echoCaller())
			req := httptest.NewRequest(tc.method, "/api/content", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == 200 {
				assert.Equal(t, tc.body, rec.Body.String())
			}
		})
	}
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	h := Recovery(&config.Config{Environment: "production"})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestLoggerAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	var fromCtx bool
	h := Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromCtx = zerolog.Ctx(r.Context()).GetLevel() != zerolog.Disabled
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))

	assert.True(t, fromCtx)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"req_id"`)
	assert.Contains(t, buf.String(), `"status":418`)
}

func TestNormalize(t *testing.T) {
	var got string
	h := Normalize()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
	}))
	for in, want := range map[string]string{
		"/api/content/": "/api/content",
		"/":             "/",
		"/uploads/a/":   "/uploads/a/",
	} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, in, nil))
		assert.Equal(t, want, got, in)
	}
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(echoCaller())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	m := metrics.Nop()
	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/content/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/content/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/content/8", nil))

	assert.Equal(t, 2.0, m.CounterValue("portal_http_requests_total", map[string]string{
		"route": "/api/content/{id}", "method": "GET", "code": "404",
	}))
}
