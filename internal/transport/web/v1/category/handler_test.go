package category

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

type fakeCategories struct {
	domain.CategoriesRepo
	all []domain.Category
}

func (f *fakeCategories) AllCategories(_ context.Context) ([]domain.Category, error) {
	return f.all, nil
}

func treeHandler(cats []domain.Category) *Handler {
	return &Handler{
		Log:        log.New(io.Discard, "", 0),
		Categories: &fakeCategories{all: cats},
	}
}

func TestTreeEmptyTable(t *testing.T) {
	h := treeHandler(nil)

	rec := httptest.NewRecorder()
	h.Tree(rec, httptest.NewRequest(http.MethodGet, "/category/tree", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	// an empty catalog answers the "empty" status, not an error and not []
	assert.JSONEq(t, `{"status":"empty","message":"no categories"}`, rec.Body.String())
}

func TestTreeOrderedByRequestedLanguage(t *testing.T) {
	h := treeHandler([]domain.Category{
		{ID: 1, LabelIta: "Zaino", LabelEng: "Backpack", Type: 0},
		{ID: 2, LabelIta: "Auto", LabelEng: "Car", Type: 0},
	})

	rec := httptest.NewRecorder()
	h.Tree(rec, httptest.NewRequest(http.MethodGet, "/category/tree?lang=ita", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Status string `json:"status"`
		Data   []struct {
			LabelIta string `json:"label_ita"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Auto", env.Data[0].LabelIta)
	assert.Equal(t, "Zaino", env.Data[1].LabelIta)
}
