package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"medrep/internal/domain"
	"medrep/internal/handler"
	"medrep/internal/service"
	"medrep/mocks"
)

func setupBatchRouter(svc service.BatchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewBatchHandler(svc)
	r.POST("/batches", h.Create)
	r.GET("/batches/:id", h.GetByID)
	r.GET("/batches/:id/export", h.Export)
	return r
}

func TestBatchCreate_Accepted(t *testing.T) {
	svc := new(mocks.MockBatchService)
	run := &domain.BatchRun{ID: uuid.New(), Status: domain.BatchStatusQueued}
	svc.On("CreateBatch", mock.Anything, mock.Anything).Return(run, nil)

	body, _ := json.Marshal(gin.H{"file_ids": []string{uuid.New().String()}})
	req := httptest.NewRequest(http.MethodPost, "/batches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	setupBatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestBatchCreate_EmptyBatch(t *testing.T) {
	svc := new(mocks.MockBatchService)
	svc.On("CreateBatch", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyBatch)

	body, _ := json.Marshal(gin.H{"file_ids": []string{}})
	req := httptest.NewRequest(http.MethodPost, "/batches", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	setupBatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMPTY_BATCH", resp.Error.Code)
}

func TestBatchGetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockBatchService)
	svc.On("GetBatch", mock.Anything, mock.Anything).Return(nil, nil, domain.ErrBatchNotFound)

	req := httptest.NewRequest(http.MethodGet, "/batches/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()

	setupBatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBatchGetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockBatchService)

	req := httptest.NewRequest(http.MethodGet, "/batches/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	setupBatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetBatch", mock.Anything, mock.Anything)
}

func TestBatchExport_CSV(t *testing.T) {
	svc := new(mocks.MockBatchService)
	run := &domain.BatchRun{ID: uuid.New(), Status: domain.BatchStatusCompleted}
	items := []domain.BatchItem{
		{ID: uuid.New(), BatchID: run.ID, Idx: 0, FileID: uuid.New(), FileName: "a.pdf", Status: domain.OutcomeSuccess},
	}
	svc.On("GetBatch", mock.Anything, run.ID).Return(run, items, nil)

	req := httptest.NewRequest(http.MethodGet, "/batches/"+run.ID.String()+"/export", nil)
	rec := httptest.NewRecorder()

	setupBatchRouter(svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	body := rec.Body.String()
	// BOM precedes the header row.
	assert.True(t, strings.HasPrefix(body, "\xEF\xBB\xBF"))
	assert.Contains(t, body, "Index,Document Name")
	assert.Contains(t, body, "a.pdf")
}
