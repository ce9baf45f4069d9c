package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intranet-portal-backend/pkg/config"
	"intranet-portal-backend/pkg/database"
	"intranet-portal-backend/pkg/logger"
	"intranet-portal-backend/pkg/metrics"
	"intranet-portal-backend/pkg/models"
	"intranet-portal-backend/pkg/utils"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *struct {
		Code  string `json:"code"`
		Field string `json:"field"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	db     database.DatabaseInterface
}

func newTestServer(t *testing.T, mutate func(*config.Config)) *testServer {
	t.Helper()
	cfg := &config.Config{
		Environment:    "test",
		JWTSecret:      "test-secret",
		SystemAuthorID: 1,
		UploadDir:      t.TempDir(),
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"*"},
	}
	if mutate != nil {
		mutate(cfg)
	}
	db, err := database.NewSQLiteDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	router, err := NewRouter(cfg, db, metrics.Nop(), logger.Nop())
	require.NoError(t, err)
	return &testServer{t: t, router: router, db: db}
}

func (s *testServer) do(method, path, body string, headers ...string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func TestContentRoundTrip(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodPost, "/api/content", `{
		"title":"Welcome","content":"hello","publishTo":"NEWS",
		"tags":"intro, news","images":["/uploads/a.png"]
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, env.Success)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := int64(created["id"].(float64))

	rec, env = s.do(http.MethodGet, "/api/content/"+jsonID(id), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Welcome", got["title"])
	assert.Equal(t, "hello", got["content"])
	assert.Equal(t, "NEWS", got["publishTo"])
	assert.Len(t, got["tags"], 2)
	assert.Len(t, got["images"], 1)
	assert.Equal(t, []interface{}{}, got["attachments"])

	rec, env = s.do(http.MethodPut, "/api/content/"+jsonID(id), `{"subject":"Welcome!"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Welcome!", got["title"])

	rec, env = s.do(http.MethodGet, "/api/content?publishTo=NEWS&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	rec, _ = s.do(http.MethodDelete, "/api/content/"+jsonID(id), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, env = s.do(http.MethodGet, "/api/content/"+jsonID(id), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestContentValidationEnvelope(t *testing.T) {
	s := newTestServer(t, nil)

	cases := []struct {
		name  string
		body  string
		field string
	}{
		{"missing title", `{"content":"b","publishTo":"NEWS"}`, "title"},
		{"missing target", `{"title":"t","content":"b"}`, "publishTo"},
		{"hr without category", `{"title":"t","content":"b","publishTo":"HR"}`, "categoryId"},
		{"bad id", `{"title":"t","content":"b","publishTo":"NEWS","placeId":"abc"}`, "placeId"},
		{"not an object", `[1]`, "body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := s.do(http.MethodPost, "/api/content", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.field, env.Error.Field)
		})
	}

	rec, _ := s.do(http.MethodGet, "/api/content/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTagsStrictCreate(t *testing.T) {
	s := newTestServer(t, nil)

	rec, _ := s.do(http.MethodPost, "/api/tags", `{"name":"Safety"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/tags", `{"name":"Safety"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DUPLICATE_NAME", env.Error.Code)

	// content ingestion reuses the existing tag instead
	rec, env = s.do(http.MethodPost, "/api/content", `{"title":"t","content":"b","publishTo":"NEWS","tags":["Safety"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var v struct {
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	require.Len(t, v.Tags, 1)
	assert.Equal(t, "Safety", v.Tags[0].Name)
}

func TestSubspaceRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodGet, "/api/subspaces?parentSubspaceId=null", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var roots []models.Subspace
	require.NoError(t, json.Unmarshal(env.Data, &roots))
	require.Len(t, roots, 1)
	assert.Equal(t, models.DefaultSubspaceName, roots[0].Name)

	rec, env = s.do(http.MethodPost, "/api/subspaces", `{"name":"Plant A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var plant models.Subspace
	require.NoError(t, json.Unmarshal(env.Data, &plant))
	assert.Equal(t, roots[0].ID, *plant.ParentSubspaceID)

	rec, env = s.do(http.MethodGet, "/api/subspaces?parentSubspaceId="+jsonID(roots[0].ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var children []models.Subspace
	require.NoError(t, json.Unmarshal(env.Data, &children))
	assert.Len(t, children, 1)

	rec, _ = s.do(http.MethodPut, "/api/subspaces/"+jsonID(roots[0].ID), `{"parentSubspaceId":`+jsonID(plant.ID)+`}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/subspaces/"+jsonID(roots[0].ID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPlaceAndCategoryRoutes(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodPost, "/api/places", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", env.Error.Field)

	rec, env = s.do(http.MethodPost, "/api/places", `{"name":"Kawasaki","type":" plant "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var place models.Place
	require.NoError(t, json.Unmarshal(env.Data, &place))
	require.NotNil(t, place.Type)
	assert.Equal(t, "plant", *place.Type)

	rec, env = s.do(http.MethodPut, "/api/places/"+jsonID(place.ID), `{"description":"main site"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &place))
	assert.Equal(t, "Kawasaki", place.Name)
	assert.Equal(t, "main site", *place.Description)

	rec, env = s.do(http.MethodPost, "/api/categories", `{"name":"Benefits"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var parent models.Category
	require.NoError(t, json.Unmarshal(env.Data, &parent))

	rec, env = s.do(http.MethodPost, "/api/categories", `{"name":"Insurance","parentCategoryId":`+jsonID(parent.ID)+`}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var child models.Category
	require.NoError(t, json.Unmarshal(env.Data, &child))

	// only one level of nesting
	rec, env = s.do(http.MethodPost, "/api/categories", `{"name":"Dental","parentCategoryId":`+jsonID(child.ID)+`}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "parentCategoryId", env.Error.Field)

	rec, _ = s.do(http.MethodDelete, "/api/categories/"+jsonID(parent.ID), "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(http.MethodDelete, "/api/categories/"+jsonID(child.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodDelete, "/api/places/"+jsonID(place.ID), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/places/"+jsonID(place.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSpaceResolve(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	require.NoError(t, s.db.CreateSpace(ctx, &models.Space{BusinessKey: "fuso", Language: "ja", Name: "FUSO JP", IsActive: true}))
	require.NoError(t, s.db.CreateSpace(ctx, &models.Space{BusinessKey: "fuso", Language: "en", Name: "FUSO EN", IsActive: false}))

	rec, env := s.do(http.MethodGet, "/api/spaces/resolve?businessKey=fuso&language=ja", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sp models.Space
	require.NoError(t, json.Unmarshal(env.Data, &sp))
	assert.Equal(t, "FUSO JP", sp.Name)

	rec, _ = s.do(http.MethodGet, "/api/spaces/resolve?businessKey=fuso&language=en", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/spaces/resolve?businessKey=fuso", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/spaces/languages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var langs []string
	require.NoError(t, json.Unmarshal(env.Data, &langs))
	assert.Equal(t, []string{"ja"}, langs)
}

func TestUploadThenServe(t *testing.T) {
	s := newTestServer(t, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notice.txt")
	require.NoError(t, err)
	_, _ = part.Write([]byte("plant closed friday"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var obj struct {
		URL  string `json:"url"`
		Name string `json:"name"`
		Size int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &obj))
	assert.Equal(t, "notice.txt", obj.Name)
	assert.Equal(t, int64(19), obj.Size)

	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, obj.URL, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "plant closed friday", rec.Body.String())
}

func TestRequireAuthForWrites(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) { c.RequireAuth = true })
	body := `{"title":"t","content":"b","publishTo":"NEWS"}`

	rec, _ := s.do(http.MethodPost, "/api/content", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/content", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	token, _, err := utils.NewJWTService("test-secret").GenerateAccessToken(9, "editor@example.com")
	require.NoError(t, err)
	rec, env := s.do(http.MethodPost, "/api/content", body, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusCreated, rec.Code)
	var v struct {
		Author struct {
			ID int64 `json:"id"`
		} `json:"author"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, int64(9), v.Author.ID)
}

func TestHealthMetricsAndFallbacks(t *testing.T) {
	s := newTestServer(t, nil)

	rec, env := s.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	rec, _ = s.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "portal_http_requests_total")

	rec, env = s.do(http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(http.MethodPost, "/api/content", "title=x", "Content-Type", "text/plain")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
