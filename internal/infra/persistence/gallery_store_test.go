package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imagestudio/server/internal/model"
	"github.com/imagestudio/server/internal/port/outbound"
	apperrors "github.com/imagestudio/server/internal/shared/errors"
)

type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

var _ outbound.KeyValueStorePort = (*MockKeyValueStore)(nil)

func testRecords(t *testing.T) []model.ImageRecord {
	t.Helper()
	now := time.Now()
	return []model.ImageRecord{
		model.NewGeneratedRecord("data:image/jpeg;base64,aa", "a sunset over mountains", model.ModelImagen, model.AspectLandscape, 1024, 75, now),
		model.NewEditedRecord("data:image/png;base64,bb", "remove the clouds", now),
	}
}

func TestGalleryStore_RoundTrip(t *testing.T) {
	kv := new(MockKeyValueStore)
	store := NewGalleryStore(kv, "generatedImages", zap.NewNop(), nil)
	records := testRecords(t)

	var written string
	kv.On("Set", mock.Anything, "generatedImages", mock.Anything).Run(func(args mock.Arguments) {
		written = args.String(2)
	}).Return(nil)

	require.NoError(t, store.Save(context.Background(), records))

	kv.On("Get", mock.Anything, "generatedImages").Return(written, true, nil)

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestGalleryStore_LoadMissingValueIsEmpty(t *testing.T) {
	kv := new(MockKeyValueStore)
	kv.On("Get", mock.Anything, "generatedImages").Return("", false, nil)
	store := NewGalleryStore(kv, "generatedImages", zap.NewNop(), nil)

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestGalleryStore_LoadCorruptValue(t *testing.T) {
	kv := new(MockKeyValueStore)
	kv.On("Get", mock.Anything, "generatedImages").Return("{not json", true, nil)
	store := NewGalleryStore(kv, "generatedImages", zap.NewNop(), nil)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrCorruptState)
}

func TestGalleryStore_LoadStoreFailure(t *testing.T) {
	kv := new(MockKeyValueStore)
	kv.On("Get", mock.Anything, "generatedImages").Return("", false, errors.New("connection refused"))
	store := NewGalleryStore(kv, "generatedImages", zap.NewNop(), nil)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestGalleryStore_SaveRejectedWrite(t *testing.T) {
	kv := new(MockKeyValueStore)
	kv.On("Set", mock.Anything, "generatedImages", mock.Anything).Return(errors.New("OOM command not allowed"))
	store := NewGalleryStore(kv, "generatedImages", zap.NewNop(), nil)

	err := store.Save(context.Background(), testRecords(t))
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestGalleryStore_SaveNilCollectionWritesEmptyArray(t *testing.T) {
	kv := new(MockKeyValueStore)
	kv.On("Set", mock.Anything, "generatedImages", "[]").Return(nil)
	store := NewGalleryStore(kv, "generatedImages", zap.NewNop(), nil)

	require.NoError(t, store.Save(context.Background(), nil))
	kv.AssertExpectations(t)
}
