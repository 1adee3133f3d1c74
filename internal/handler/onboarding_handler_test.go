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
	"time"

	"mini-shop/internal/catalog"
	"mini-shop/internal/model"
	"mini-shop/internal/onboarding"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// idleClock never fires its callbacks, so the pipeline stays inert during
// handler tests.
type idleClock struct{}

func (idleClock) Now() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }

func (idleClock) AfterFunc(d time.Duration, f func()) func() {
	return func() {}
}

func newTestOnboarding() *onboarding.Service {
	installer := func(ctx context.Context, products []model.Product) error { return nil }
	return onboarding.NewService(
		catalog.NewImporter(zerolog.Nop()),
		installer,
		idleClock{},
		zerolog.Nop(),
	)
}

func csvUploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const sampleFeed = "product_id,name,price,category,short_description,description,stock,image_url\n" +
	"p1,Giày Chạy Bộ,2490000,Thể thao,,,50,\n" +
	"p2,Hàng lỗi,,Phụ kiện,,,25,\n"

func TestOnboardingHandler_Import(t *testing.T) {
	handler := NewOnboardingHandler(newTestOnboarding(), new(MockProductService), zerolog.Nop())

	req := csvUploadRequest(t, "products.csv", sampleFeed)
	w := httptest.NewRecorder()

	handler.Import(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result catalog.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Products, 1)
	assert.Equal(t, 1, result.Skipped)
}

func TestOnboardingHandler_Import_RejectsNonCSV(t *testing.T) {
	handler := NewOnboardingHandler(newTestOnboarding(), new(MockProductService), zerolog.Nop())

	req := csvUploadRequest(t, "products.xlsx", "a,b\n")
	w := httptest.NewRecorder()

	handler.Import(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOnboardingHandler_Import_MissingFile(t *testing.T) {
	handler := NewOnboardingHandler(newTestOnboarding(), new(MockProductService), zerolog.Nop())

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()

	handler.Import(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOnboardingHandler_ImportApply(t *testing.T) {
	t.Run("Installs the previewed feed", func(t *testing.T) {
		mockProducts := new(MockProductService)
		mockProducts.On("ReplaceAll", mock.Anything, mock.AnythingOfType("[]model.Product")).
			Return(nil)

		svc := newTestOnboarding()
		require.NoError(t, svc.SetUpload("products.csv", []byte(sampleFeed)))

		handler := NewOnboardingHandler(svc, mockProducts, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/import/apply", nil)
		w := httptest.NewRecorder()

		handler.ImportApply(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockProducts.AssertExpectations(t)
	})

	t.Run("Rejected without an upload", func(t *testing.T) {
		mockProducts := new(MockProductService)
		handler := NewOnboardingHandler(newTestOnboarding(), mockProducts, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/import/apply", nil)
		w := httptest.NewRecorder()

		handler.ImportApply(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockProducts.AssertNotCalled(t, "ReplaceAll")
	})
}

func TestOnboardingHandler_Survey(t *testing.T) {
	handler := NewOnboardingHandler(newTestOnboarding(), new(MockProductService), zerolog.Nop())

	t.Run("Not captured yet", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/survey", nil)
		w := httptest.NewRecorder()

		handler.Survey(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Round trip", func(t *testing.T) {
		body := `{"shopName":"Mini Shop","industry":"Tổng hợp","brandTone":"Thân thiện","currency":"VND","useAiSuggestions":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/admin/survey", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Survey(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/admin/survey", nil)
		w = httptest.NewRecorder()

		handler.Survey(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var survey onboarding.Survey
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &survey))
		assert.Equal(t, "Mini Shop", survey.ShopName)
		assert.True(t, survey.UseAISuggestions)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/survey", strings.NewReader(`{invalid`))
		w := httptest.NewRecorder()

		handler.Survey(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOnboardingHandler_Analyze(t *testing.T) {
	handler := NewOnboardingHandler(newTestOnboarding(), new(MockProductService), zerolog.Nop())

	t.Run("Start run", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/analyze", nil)
		w := httptest.NewRecorder()

		handler.Analyze(w, req)

		require.Equal(t, http.StatusAccepted, w.Code)

		var state onboarding.PipelineState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.True(t, state.Running)
		assert.Len(t, state.Steps, 8)
	})

	t.Run("Second run rejected while in flight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/analyze", nil)
		w := httptest.NewRecorder()

		handler.Analyze(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("State snapshot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/analyze", nil)
		w := httptest.NewRecorder()

		handler.Analyze(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var state onboarding.PipelineState
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
		assert.True(t, state.Running)
	})
}
