package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintechbuddy/insights-api/config"
	"github.com/fintechbuddy/insights-api/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, configured bool) (*gin.Engine, *services.DatasetStore) {
	t.Helper()
	if configured {
		t.Setenv("GROQ_API_KEY", "gsk_test")
		t.Setenv("GROQ_MODEL", "llama-3.3-70b")
	} else {
		t.Setenv("GROQ_API_KEY", "")
		t.Setenv("GROQ_MODEL", "")
	}
	cfg := config.LoadAIConfig()
	store := services.NewDatasetStore()

	r := gin.New()
	uploadHandler := &UploadHandler{Store: store}
	queryHandler := &QueryHandler{Store: store, AI: services.NewGroqService(cfg), Config: cfg}
	envHandler := &EnvHandler{Config: cfg}

	r.POST("/upload/", uploadHandler.Upload)
	r.GET("/query/", queryHandler.Query)
	r.GET("/", Dashboard)
	r.GET("/_env", envHandler.Show)
	return r, store
}

func multipartFile(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	router, store := newTestRouter(t, false)

	csv := []byte("Narration,Amount,Date\nSALARY CREDIT,50000,2024-01-31\nZOMATO ORDER,-450,2024-01-02\n")
	body, contentType := multipartFile(t, "statement.csv", csv)

	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Message   string `json:"message"`
		DatasetID string `json:"dataset_id"`
		Summary   struct {
			TotalIncome  float64            `json:"total_income"`
			TotalExpense float64            `json:"total_expense"`
			NetBalance   float64            `json:"net_balance"`
			Monthly      map[string]float64 `json:"monthly_summary"`
			Category     map[string]float64 `json:"category_summary"`
			Rows         int                `json:"rows"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.DatasetID)
	assert.Equal(t, 50000.0, resp.Summary.TotalIncome)
	assert.Equal(t, -450.0, resp.Summary.TotalExpense)
	assert.Equal(t, 49550.0, resp.Summary.NetBalance)
	assert.Equal(t, 2, resp.Summary.Rows)
	assert.Equal(t, 49550.0, resp.Summary.Monthly["2024-01"])
	assert.Equal(t, 50000.0, resp.Summary.Category["Income"])

	ds, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, resp.DatasetID, ds.ID)
}

func TestUpload_UnsupportedExtension(t *testing.T) {
	router, store := newTestRouter(t, false)

	body, contentType := multipartFile(t, "statement.pdf", []byte("junk"))
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unsupported file type")

	_, err := store.Current()
	assert.ErrorIs(t, err, services.ErrNoDataset)
}

func TestUpload_MissingColumnsNamesFoundColumns(t *testing.T) {
	router, _ := newTestRouter(t, false)

	body, contentType := multipartFile(t, "odd.csv", []byte("Foo,Bar\n1,2\n"))
	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Foo")
	assert.Contains(t, rec.Body.String(), "Bar")
}

func TestUpload_FailureKeepsPreviousDataset(t *testing.T) {
	router, store := newTestRouter(t, false)

	good, contentType := multipartFile(t, "good.csv", []byte("Description,Amount\nsalary,100\n"))
	req := httptest.NewRequest(http.MethodPost, "/upload/", good)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	first, err := store.Current()
	require.NoError(t, err)

	bad, contentType := multipartFile(t, "bad.csv", []byte("Foo,Bar\n1,2\n"))
	req = httptest.NewRequest(http.MethodPost, "/upload/", bad)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
}

func TestQuery_MissingQuestion(t *testing.T) {
	router, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/query/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuery_NotConfigured(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/query/?question=how+much", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "GROQ_API_KEY")
}

func TestQuery_NoPriorUpload(t *testing.T) {
	router, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/query/?question=how+much", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "upload first")
}

func TestDashboard(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "FinTech Buddy")
}

func TestEnvShow(t *testing.T) {
	router, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodGet, "/_env", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"groq_model":"llama-3.3-70b"`)
	assert.Contains(t, rec.Body.String(), `"groq_key_present":true`)
	assert.NotContains(t, rec.Body.String(), "gsk_test")
}
