package show

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

type fakeShows struct {
	domain.ShowsRepo
	byID map[int64]domain.Show
}

func (f *fakeShows) ShowByID(_ context.Context, id int64) (domain.Show, error) {
	s, ok := f.byID[id]
	if !ok {
		return domain.Show{}, domain.ErrNotFound
	}
	return s, nil
}

type fakeImages struct {
	domain.ImagesRepo
	byID map[int64]domain.Image
}

func (f *fakeImages) ImageByID(_ context.Context, id int64) (domain.Image, error) {
	img, ok := f.byID[id]
	if !ok {
		return domain.Image{}, domain.ErrNotFound
	}
	return img, nil
}

type fakeStorage struct {
	domain.BlobStorage
}

func (fakeStorage) URL(key string) string { return "https://cdn.example/" + key }

func TestGetPublicProjection(t *testing.T) {
	imgID := int64(4)
	shows := &fakeShows{byID: map[int64]domain.Show{
		2: {
			ID: 2, LabelIta: "Fiera", LabelEng: "Fair", Location: "Bologna",
			StartDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			ImageID:   &imgID, CreatedAt: time.Now(), UpdatedAt: time.Now(),
		},
	}}
	h := &Handler{
		Log:   log.New(io.Discard, "", 0),
		Shows: shows,
		Images: &fakeImages{byID: map[int64]domain.Image{
			4: {ID: 4, Path: "images/show/poster.webp"},
		}},
		Storage: fakeStorage{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /show/get/{id}", h.GetPublic)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/show/get/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	assert.Equal(t, "Fair", env.Data["label_eng"])
	assert.Equal(t, "https://cdn.example/images/show/poster.webp", env.Data["image_url"])
	// internal record fields stay off the public payload
	assert.NotContains(t, env.Data, "image_id")
	assert.NotContains(t, env.Data, "created_at")
	assert.NotContains(t, env.Data, "updated_at")
}

func TestGetPublicNotFound(t *testing.T) {
	h := &Handler{
		Log:   log.New(io.Discard, "", 0),
		Shows: &fakeShows{byID: map[int64]domain.Show{}},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /show/get/{id}", h.GetPublic)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/show/get/9", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
