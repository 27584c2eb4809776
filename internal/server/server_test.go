package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/labelflat/internal/cache"
	"github.com/hyperifyio/labelflat/internal/schema"
)

const table = `<table><tr><td>Cultivo</td><td>Malezas</td><td>Dosis</td></tr><tr><td>Maíz</td><td>Yuyo, Bledo</td><td>1,0-1,5 L/ha</td></tr></table>`

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	s := &Server{BatchLimit: 2, Now: func() time.Time { return time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC) }}
	return s.Router()
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestConvert_Markdown(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodPost, "/v1/convert", ConvertRequest{
		Format:     "markdown",
		Content:    "# Label\n" + table,
		SourceName: "label.md",
		Product:    "AFALON 50 SC",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var doc schema.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "2025-02-03", doc.Metadata.ProcessedOn)
	assert.Equal(t, "label.md", doc.Metadata.SourceFile)
	require.Len(t, doc.Instructions, 1)
	assert.Equal(t, "Maíz", doc.Instructions[0].Crop)
	assert.Len(t, doc.Instructions[0].Weeds, 2)
}

func TestConvert_Errors(t *testing.T) {
	r := newTestRouter()
	cases := []struct {
		name string
		body any
		want int
	}{
		{"missing content", map[string]string{"format": "markdown"}, http.StatusBadRequest},
		{"unknown format", ConvertRequest{Format: "pdf", Content: table}, http.StatusBadRequest},
		{"bad middle json", ConvertRequest{Format: "middle_json", Content: "{"}, http.StatusBadRequest},
		{"no tables", ConvertRequest{Format: "markdown", Content: "plain text"}, http.StatusUnprocessableEntity},
		{"no instructions", ConvertRequest{Format: "markdown", Content: "<table><tr><td>X</td></tr></table>"}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/v1/convert", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestConvertBatch_KeepsOrderAndPerItemErrors(t *testing.T) {
	middle := `[{"layout_dets":[{"category_type":"table","html":"<table><tr><td>Cultivo</td></tr><tr><td>Trigo</td></tr></table>"}]}]`
	w := do(t, newTestRouter(), http.MethodPost, "/v1/convert/batch", BatchRequest{Documents: []ConvertRequest{
		{Format: "markdown", Content: table},
		{Format: "docx", Content: "x"},
		{Format: "middle_json", Content: middle},
		{Format: "markdown", Content: "nothing"},
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 4)
	require.NotNil(t, resp.Results[0].Document)
	assert.Equal(t, "Maíz", resp.Results[0].Document.Instructions[0].Crop)
	assert.NotEmpty(t, resp.Results[1].Error)
	require.NotNil(t, resp.Results[2].Document)
	assert.Equal(t, "Trigo", resp.Results[2].Document.Instructions[0].Crop)
	assert.Nil(t, resp.Results[3].Document)
	assert.Contains(t, resp.Results[3].Error, "no tables")
}

func TestConvertBatch_TooMany(t *testing.T) {
	docs := make([]ConvertRequest, maxBatch+1)
	for i := range docs {
		docs[i] = ConvertRequest{Format: "markdown", Content: table}
	}
	w := do(t, newTestRouter(), http.MethodPost, "/v1/convert/batch", BatchRequest{Documents: docs})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestConvert_CachesDocuments(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{
		Now:   func() time.Time { return time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC) },
		Cache: &cache.DocCache{Dir: t.TempDir()},
	}
	r := s.Router()
	req := ConvertRequest{Format: "markdown", Content: table, Product: "X"}

	first := do(t, r, http.MethodPost, "/v1/convert", req)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	assert.Equal(t, "miss", first.Header().Get("X-Cache"))

	second := do(t, r, http.MethodPost, "/v1/convert", req)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get("X-Cache"))
	assert.Equal(t, first.Body.String(), second.Body.String())

	req.Product = "Y"
	third := do(t, r, http.MethodPost, "/v1/convert", req)
	assert.Equal(t, "miss", third.Header().Get("X-Cache"))
}

func TestConvert_DoesNotEscapeHTML(t *testing.T) {
	w := do(t, newTestRouter(), http.MethodPost, "/v1/convert", ConvertRequest{
		Format:  "markdown",
		Content: `<table><tr><td>Cultivo</td><td>Observaciones</td></tr><tr><td>Soja</td><td>pH &lt; 7 &amp; suelo</td></tr></table>`,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "pH < 7 & suelo")
}

func TestHealthz_Version(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := &Server{Version: "1.0.0"}
	w := do(t, s.Router(), http.MethodGet, "/healthz", nil)
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0"}`, w.Body.String())
}
