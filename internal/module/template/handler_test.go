package template

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepository keeps templates in a map.
type fakeRepository struct {
	templates map[string]*Template
	err       error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{templates: make(map[string]*Template)}
}

func (f *fakeRepository) Create(_ context.Context, tpl *Template) error {
	if f.err != nil {
		return f.err
	}
	if tpl.ID == "" {
		tpl.ID = uuid.NewString()
	}
	f.templates[tpl.ID] = tpl
	return nil
}

func (f *fakeRepository) List(_ context.Context) ([]*Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*Template, 0, len(f.templates))
	for _, tpl := range f.templates {
		out = append(out, tpl)
	}
	return out, nil
}

func (f *fakeRepository) Get(_ context.Context, id string) (*Template, error) {
	if f.err != nil {
		return nil, f.err
	}
	tpl, ok := f.templates[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return tpl, nil
}

func (f *fakeRepository) Update(_ context.Context, tpl *Template) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.templates[tpl.ID]; !ok {
		return ErrTemplateNotFound
	}
	f.templates[tpl.ID] = tpl
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.templates[id]; !ok {
		return ErrTemplateNotFound
	}
	delete(f.templates, id)
	return nil
}

func newTestRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	NewHandler(repo).RegisterRoutes(router.Group("/api/report"))
	return router
}

func doJSON(router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateTemplate(t *testing.T) {
	repo := newFakeRepository()
	router := newTestRouter(repo)

	body := []byte(`{"name":"invoice","definition":{"docElements":[]},"tags":["billing"]}`)
	w := doJSON(router, http.MethodPost, "/api/report/templates", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var tpl Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tpl))
	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, "invoice", tpl.Name)
	assert.Equal(t, []string{"billing"}, []string(tpl.Tags))
	assert.Len(t, repo.templates, 1)
}

func TestCreateTemplateMissingName(t *testing.T) {
	router := newTestRouter(newFakeRepository())

	body := []byte(`{"definition":{"docElements":[]}}`)
	w := doJSON(router, http.MethodPost, "/api/report/templates", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTemplate(t *testing.T) {
	repo := newFakeRepository()
	tpl := &Template{Name: "invoice", Definition: `{}`}
	require.NoError(t, repo.Create(context.Background(), tpl))
	router := newTestRouter(repo)

	w := doJSON(router, http.MethodGet, "/api/report/templates/"+tpl.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, tpl.ID, got.ID)
}

func TestGetTemplateNotFound(t *testing.T) {
	router := newTestRouter(newFakeRepository())

	w := doJSON(router, http.MethodGet, "/api/report/templates/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListTemplates(t *testing.T) {
	repo := newFakeRepository()
	require.NoError(t, repo.Create(context.Background(), &Template{Name: "a", Definition: `{}`}))
	require.NoError(t, repo.Create(context.Background(), &Template{Name: "b", Definition: `{}`}))
	router := newTestRouter(repo)

	w := doJSON(router, http.MethodGet, "/api/report/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Templates []*Template `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Templates, 2)
}

func TestUpdateTemplate(t *testing.T) {
	repo := newFakeRepository()
	tpl := &Template{Name: "invoice", Definition: `{}`}
	require.NoError(t, repo.Create(context.Background(), tpl))
	router := newTestRouter(repo)

	body := []byte(`{"name":"invoice-v2","definition":{"docElements":[1]}}`)
	w := doJSON(router, http.MethodPut, "/api/report/templates/"+tpl.ID, body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "invoice-v2", repo.templates[tpl.ID].Name)
}

func TestUpdateTemplateNotFound(t *testing.T) {
	router := newTestRouter(newFakeRepository())

	body := []byte(`{"name":"x","definition":{}}`)
	w := doJSON(router, http.MethodPut, "/api/report/templates/"+uuid.NewString(), body)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteTemplate(t *testing.T) {
	repo := newFakeRepository()
	tpl := &Template{Name: "invoice", Definition: `{}`}
	require.NoError(t, repo.Create(context.Background(), tpl))
	router := newTestRouter(repo)

	w := doJSON(router, http.MethodDelete, "/api/report/templates/"+tpl.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, repo.templates)

	w = doJSON(router, http.MethodDelete, "/api/report/templates/"+tpl.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
