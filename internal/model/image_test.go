package model

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelType_Valid(t *testing.T) {
	assert.True(t, ModelImagen.Valid())
	assert.True(t, ModelImagenFast.Valid())
	assert.True(t, ModelNanobanana.Valid())
	assert.False(t, ModelType("dall-e").Valid())
	assert.False(t, ModelType("").Valid())
}

func TestModelType_IsGeneration(t *testing.T) {
	assert.True(t, ModelImagen.IsGeneration())
	assert.True(t, ModelImagenFast.IsGeneration())
	assert.False(t, ModelNanobanana.IsGeneration())
}

func TestAspectRatio_Valid(t *testing.T) {
	for _, r := range []AspectRatio{AspectSquare, AspectLandscape, AspectPortrait, AspectStandard, AspectTall} {
		assert.True(t, r.Valid(), string(r))
	}
	assert.False(t, AspectRatio("2:1").Valid())
}

func TestNewRecordID_UniqueWithinMillisecond(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRecordID(now)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewGeneratedRecord(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	rec := NewGeneratedRecord("data:image/jpeg;base64,abc", "a red balloon", ModelImagen, AspectLandscape, 1024, 75, now)

	assert.True(t, strings.HasPrefix(rec.ID, strconv.FormatInt(now.UnixMilli(), 10)+"-"))
	assert.Equal(t, "2025-03-14T09:26:53Z", rec.Timestamp)
	assert.Equal(t, ModelImagen, rec.Model)
	assert.Equal(t, AspectLandscape, rec.AspectRatio)
	require.NotNil(t, rec.Resolution)
	require.NotNil(t, rec.Quality)
	assert.Equal(t, 1024, *rec.Resolution)
	assert.Equal(t, 75, *rec.Quality)
	assert.False(t, rec.IsFavorite)
}

func TestNewEditedRecord(t *testing.T) {
	rec := NewEditedRecord("data:image/png;base64,abc", "remove the background", time.Now())

	assert.Equal(t, ModelNanobanana, rec.Model)
	assert.Equal(t, AspectSquare, rec.AspectRatio)
	assert.Nil(t, rec.Resolution)
	assert.Nil(t, rec.Quality)
}

func TestImageRecord_JSONFieldNames(t *testing.T) {
	rec := NewEditedRecord("data:image/png;base64,abc", "tilt the hat", time.Now())
	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "src", "prompt", "model", "timestamp", "isFavorite", "aspectRatio"} {
		assert.Contains(t, raw, key)
	}
	// Generation-only fields stay absent on edit records.
	assert.NotContains(t, raw, "resolution")
	assert.NotContains(t, raw, "quality")
}

func TestParseModelFilter(t *testing.T) {
	tests := []struct {
		in      string
		all     bool
		model   ModelType
		wantErr bool
	}{
		{"", true, "", false},
		{"all", true, "", false},
		{"Imagen", false, ModelImagen, false},
		{"Imagen Fast", false, ModelImagenFast, false},
		{"Nanobanana", false, ModelNanobanana, false},
		{"imagen", false, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, all, err := ParseModelFilter(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.all, all)
			assert.Equal(t, tt.model, m)
		})
	}
}
