package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imagestudio/server/internal/domain/gallery"
	"github.com/imagestudio/server/internal/domain/studio"
	"github.com/imagestudio/server/internal/infra/events"
	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/port/outbound"
	apperrors "github.com/imagestudio/server/internal/shared/errors"
)

// --- Mock implementations ---

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateBatch(ctx context.Context, modelType model.ModelType, prompt string, ratio model.AspectRatio, count int) ([]string, error) {
	args := m.Called(ctx, modelType, prompt, ratio, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockImageGenerator) EditImage(ctx context.Context, image []byte, mimeType, instruction string) (string, error) {
	args := m.Called(ctx, image, mimeType, instruction)
	return args.String(0), args.Error(1)
}

var _ outbound.ImageGeneratorPort = (*MockImageGenerator)(nil)

type MockGalleryStore struct {
	mock.Mock
}

func (m *MockGalleryStore) Load(ctx context.Context) ([]model.ImageRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ImageRecord), args.Error(1)
}

func (m *MockGalleryStore) Save(ctx context.Context, records []model.ImageRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

var _ outbound.GalleryStorePort = (*MockGalleryStore)(nil)

// --- Helpers ---

func newTestRouter(t *testing.T) (*gin.Engine, *MockImageGenerator, *gallery.Domain) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gen := new(MockImageGenerator)
	store := new(MockGalleryStore)
	store.On("Save", mock.Anything, mock.Anything).Return(nil).Maybe()
	g := gallery.NewDomain(store, events.NewBus(zap.NewNop()), zap.NewNop(), nil)
	s := studio.NewDomain(gen, g, 4, zap.NewNop(), nil)

	router := gin.New()
	api := router.Group("/api/v1")
	NewStudioHandler(s).RegisterRoutes(api)
	NewGalleryHandler(g).RegisterRoutes(api)
	return router, gen, g
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedGallery(t *testing.T, g *gallery.Domain, records ...model.ImageRecord) {
	t.Helper()
	require.NoError(t, g.AddBatch(context.Background(), records))
}

func upstreamEmptyErr() error {
	return fmt.Errorf("%w: the model returned no images, the prompt may have been blocked by safety filters", apperrors.ErrEmptyResult)
}

// --- Tests ---

func TestSubmitGeneration(t *testing.T) {
	t.Run("created records are returned and listed", func(t *testing.T) {
		router, gen, _ := newTestRouter(t)
		gen.On("GenerateBatch", mock.Anything, model.ModelImagen, "a sunset over mountains", model.AspectLandscape, 2).
			Return([]string{"data:image/jpeg;base64,aa", "data:image/jpeg;base64,bb"}, nil)

		w := doJSON(t, router, http.MethodPost, "/api/v1/studio/generations", GenerationRequest{
			Prompt:      "a sunset over mountains",
			Model:       "Imagen",
			AspectRatio: "16:9",
			Count:       2,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp GenerationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Images, 2)
		assert.Equal(t, model.ModelImagen, resp.Images[0].Model)

		list := doJSON(t, router, http.MethodGet, "/api/v1/gallery", nil)
		require.Equal(t, http.StatusOK, list.Code)
		var listed GalleryResponse
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
		assert.Len(t, listed.Images, 2)
	})

	t.Run("defaults fill the optional knobs", func(t *testing.T) {
		router, gen, _ := newTestRouter(t)
		gen.On("GenerateBatch", mock.Anything, model.ModelImagen, "p", model.AspectSquare, 1).
			Return([]string{"data:image/jpeg;base64,aa"}, nil)

		w := doJSON(t, router, http.MethodPost, "/api/v1/studio/generations", GenerationRequest{Prompt: "p"})
		require.Equal(t, http.StatusCreated, w.Code)
		gen.AssertExpectations(t)
	})

	t.Run("validation failure is reported without an upstream call", func(t *testing.T) {
		router, gen, _ := newTestRouter(t)

		w := doJSON(t, router, http.MethodPost, "/api/v1/studio/generations", GenerationRequest{
			Prompt: "add a rainbow",
			Model:  "Nanobanana",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		gen.AssertNotCalled(t, "EditImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("upstream empty result maps to bad gateway", func(t *testing.T) {
		router, gen, _ := newTestRouter(t)
		gen.On("GenerateBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, upstreamEmptyErr())

		w := doJSON(t, router, http.MethodPost, "/api/v1/studio/generations", GenerationRequest{Prompt: "p"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestGetStatus(t *testing.T) {
	router, gen, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/studio/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.IsBusy)
	assert.Nil(t, status.LastError)

	gen.On("GenerateBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, upstreamEmptyErr())
	doJSON(t, router, http.MethodPost, "/api/v1/studio/generations", GenerationRequest{Prompt: "p"})

	w = doJSON(t, router, http.MethodGet, "/api/v1/studio/status", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.False(t, status.IsBusy)
	require.NotNil(t, status.LastError)
	assert.Contains(t, *status.LastError, "safety filters")
}

func TestListImages(t *testing.T) {
	router, _, g := newTestRouter(t)
	seedGallery(t, g,
		model.ImageRecord{ID: "1-1", Prompt: "a sunset over mountains", Model: model.ModelImagen},
		model.ImageRecord{ID: "1-2", Prompt: "city at night", Model: model.ModelNanobanana},
	)

	t.Run("search filters by prompt substring", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/gallery?search=SUNSET", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp GalleryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Images, 1)
		assert.Equal(t, "1-1", resp.Images[0].ID)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("model filter narrows the view", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/gallery?model=Nanobanana", nil)
		var resp GalleryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Images, 1)
		assert.Equal(t, "1-2", resp.Images[0].ID)
	})

	t.Run("unknown model filter is rejected", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/v1/gallery?model=DallE", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestToggleFavorite(t *testing.T) {
	router, _, g := newTestRouter(t)
	seedGallery(t, g, model.ImageRecord{ID: "1-1", Prompt: "p", Model: model.ModelImagen})

	w := doJSON(t, router, http.MethodPost, "/api/v1/gallery/1-1/favorite", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rec model.ImageRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rec))
	assert.True(t, rec.IsFavorite)

	w = doJSON(t, router, http.MethodPost, "/api/v1/gallery/missing/favorite", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteImage(t *testing.T) {
	router, _, g := newTestRouter(t)
	seedGallery(t, g, model.ImageRecord{ID: "1-1", Prompt: "p", Model: model.ModelImagen})

	w := doJSON(t, router, http.MethodDelete, "/api/v1/gallery/1-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, g.Records())

	// Unknown ids delete cleanly.
	w = doJSON(t, router, http.MethodDelete, "/api/v1/gallery/1-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
