package relation

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

type fakeRelations struct {
	domain.RelationsRepo
	byCategory map[int64][]int64
	byProduct  map[int64][]int64
}

func (f *fakeRelations) ProductIDsForCategory(_ context.Context, id int64) ([]int64, error) {
	return f.byCategory[id], nil
}

func (f *fakeRelations) CategoryIDsForProduct(_ context.Context, id int64) ([]int64, error) {
	return f.byProduct[id], nil
}

func (f *fakeRelations) SetProductsForCategory(_ context.Context, id int64, ids []int64) error {
	f.byCategory[id] = ids
	return nil
}

func (f *fakeRelations) SetCategoriesForProduct(_ context.Context, id int64, ids []int64) error {
	f.byProduct[id] = ids
	return nil
}

type spyInvalidator struct {
	entities []string
}

func (s *spyInvalidator) Invalidate(_ context.Context, entity, _ string) {
	s.entities = append(s.entities, entity)
}

func newHandler() (*Handler, *fakeRelations, *spyInvalidator) {
	rel := &fakeRelations{
		byCategory: map[int64][]int64{7: {1, 2}},
		byProduct:  map[int64][]int64{1: {7}},
	}
	inv := &spyInvalidator{}
	h := &Handler{Log: log.New(io.Discard, "", 0), Relations: rel, Cache: inv}
	return h, rel, inv
}

func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, rd))
	return rec
}

func TestCategoryProducts(t *testing.T) {
	h, _, _ := newHandler()

	rec := serve(t, "GET /catProduct/category/{id}", h.CategoryProducts,
		http.MethodGet, "/catProduct/category/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[1,2]}`, rec.Body.String())

	// unlinked category answers an empty list, not null
	rec = serve(t, "GET /catProduct/category/{id}", h.CategoryProducts,
		http.MethodGet, "/catProduct/category/99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[]}`, rec.Body.String())
}

func TestProductCategories(t *testing.T) {
	h, _, _ := newHandler()

	rec := serve(t, "GET /catProduct/product/{id}", h.ProductCategories,
		http.MethodGet, "/catProduct/product/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":[7]}`, rec.Body.String())
}

func TestSetCategoryProducts(t *testing.T) {
	h, rel, inv := newHandler()

	rec := serve(t, "PUT /catProduct/category/{id}", h.SetCategoryProducts,
		http.MethodPut, "/catProduct/category/7", `{"products":[3,4]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{3, 4}, rel.byCategory[7])
	assert.ElementsMatch(t, []string{"category", "product"}, inv.entities)
}

func TestSetProductCategories(t *testing.T) {
	h, rel, inv := newHandler()

	rec := serve(t, "PUT /catProduct/product/{id}", h.SetProductCategories,
		http.MethodPut, "/catProduct/product/1", `{"categories":[8,9]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{8, 9}, rel.byProduct[1])
	assert.ElementsMatch(t, []string{"category", "product"}, inv.entities)
}

func TestRelationBadID(t *testing.T) {
	h, _, _ := newHandler()

	rec := serve(t, "GET /catProduct/category/{id}", h.CategoryProducts,
		http.MethodGet, "/catProduct/category/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
