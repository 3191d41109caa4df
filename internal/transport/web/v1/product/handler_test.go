package product

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

type fakeProducts struct {
	domain.ProductsRepo
	byID       map[int64]domain.Product
	dupe       *domain.Product
	created    []domain.Product
	lastFilter domain.ProductFilter
	trash      []domain.Product
	hardWiped  []int64
}

func (f *fakeProducts) ProductByID(_ context.Context, id int64) (domain.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) FilterProducts(_ context.Context, flt domain.ProductFilter) (domain.Page[domain.Product], error) {
	f.lastFilter = flt
	return domain.NewPage[domain.Product](nil, 0, 1, 10), nil
}

func (f *fakeProducts) FindProductByLabels(_ context.Context, _, _ string) (domain.Product, bool, error) {
	if f.dupe == nil {
		return domain.Product{}, false, nil
	}
	return *f.dupe, true, nil
}

func (f *fakeProducts) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	p.ID = int64(len(f.created) + 1000)
	f.created = append(f.created, p)
	return p, nil
}

func (f *fakeProducts) DeleteProduct(_ context.Context, id int64) error {
	f.hardWiped = append(f.hardWiped, id)
	return nil
}

func (f *fakeProducts) ProductsPage(_ context.Context, deleting bool, p domain.ListParams) (domain.Page[domain.Product], error) {
	if !deleting {
		return domain.Page[domain.Product]{}, nil
	}
	p = p.Normalize()
	lo := int(p.Offset())
	hi := lo + p.Limit
	if lo > len(f.trash) {
		lo = len(f.trash)
	}
	if hi > len(f.trash) {
		hi = len(f.trash)
	}
	return domain.NewPage(f.trash[lo:hi], int64(len(f.trash)), p.Page, p.Limit), nil
}

func (f *fakeProducts) DeleteTrashedProducts(_ context.Context) (int64, error) {
	n := int64(len(f.trash))
	f.trash = nil
	return n, nil
}

type fakeImages struct {
	domain.ImagesRepo
	byProduct map[int64][]domain.Image
	unlinked  []int64
}

func (f *fakeImages) ProductImages(_ context.Context, productID int64) ([]domain.Image, error) {
	return f.byProduct[productID], nil
}

func (f *fakeImages) UnlinkEntityImages(_ context.Context, _ string, entityID int64) ([]int64, error) {
	f.unlinked = append(f.unlinked, entityID)
	return nil, nil
}

type fakeRelations struct {
	domain.RelationsRepo
	byProduct map[int64][]int64
	set       map[int64][]int64
}

func (f *fakeRelations) CategoryIDsForProduct(_ context.Context, id int64) ([]int64, error) {
	return f.byProduct[id], nil
}

func (f *fakeRelations) SetCategoriesForProduct(_ context.Context, id int64, ids []int64) error {
	f.set[id] = ids
	return nil
}

type fakeConditions struct {
	domain.ConditionsRepo
	byID map[int64]domain.Condition
}

func (f *fakeConditions) ConditionByID(_ context.Context, id int64) (domain.Condition, error) {
	c, ok := f.byID[id]
	if !ok {
		return domain.Condition{}, domain.ErrNotFound
	}
	return c, nil
}

type fakeStorage struct {
	domain.BlobStorage
}

func (fakeStorage) URL(key string) string { return "https://cdn.example/" + key }

type spyInvalidator struct {
	entities []string
}

func (s *spyInvalidator) Invalidate(_ context.Context, entity, _ string) {
	s.entities = append(s.entities, entity)
}

func newHandler(products *fakeProducts) (*Handler, *fakeRelations, *fakeImages, *spyInvalidator) {
	rel := &fakeRelations{byProduct: map[int64][]int64{}, set: map[int64][]int64{}}
	imgs := &fakeImages{byProduct: map[int64][]domain.Image{}}
	inv := &spyInvalidator{}
	h := &Handler{
		Log:      log.New(io.Discard, "", 0),
		Products: products, Relations: rel, Images: imgs,
		Conditions: &fakeConditions{byID: map[int64]domain.Condition{
			3: {ID: 3, LabelIta: "Nuovo", LabelEng: "New"},
		}},
		Storage: fakeStorage{}, Cache: inv,
	}
	return h, rel, imgs, inv
}

func serve(t *testing.T, pattern string, h http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestGetPublicProjection(t *testing.T) {
	condID := int64(3)
	products := &fakeProducts{byID: map[int64]domain.Product{
		5: {ID: 5, LabelIta: "Robot", LabelEng: "Robot", Quantity: 1,
			Creator: "admin", ConditionID: &condID},
	}}
	h, _, imgs, _ := newHandler(products)
	imgs.byProduct[5] = []domain.Image{{ID: 9, Path: "images/product/a.webp"}}

	rec := serve(t, "GET /product/get/{id}", h.GetPublic, http.MethodGet, "/product/get/5")
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	// admin lifecycle fields never reach the public payload
	assert.NotContains(t, env.Data, "draft")
	assert.NotContains(t, env.Data, "deleting")
	assert.NotContains(t, env.Data, "creator")
	assert.NotContains(t, env.Data, "in_evidence")
	assert.NotContains(t, env.Data, "created_at")

	assert.Equal(t, "Robot", env.Data["label_ita"])
	assert.Equal(t, []any{"https://cdn.example/images/product/a.webp"}, env.Data["images_url"])
	cond := env.Data["condition"].(map[string]any)
	assert.Equal(t, "New", cond["label_eng"])
}

func TestGetPublicHidesDraftsAndTrash(t *testing.T) {
	products := &fakeProducts{byID: map[int64]domain.Product{
		1: {ID: 1, LabelIta: "Bozza", LabelEng: "Draft", Draft: true},
		2: {ID: 2, LabelIta: "Cestino", LabelEng: "Binned", Deleting: true},
	}}
	h, _, _, _ := newHandler(products)

	for _, id := range []string{"1", "2"} {
		rec := serve(t, "GET /product/get/{id}", h.GetPublic, http.MethodGet, "/product/get/"+id)
		assert.Equal(t, http.StatusNotFound, rec.Code, "id=%s", id)
	}
}

func TestFilterDraftVisibility(t *testing.T) {
	products := &fakeProducts{}
	h, _, _, _ := newHandler(products)

	rec := serve(t, "GET /product/filter", h.Filter, http.MethodGet, "/product/filter")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, products.lastFilter.IncludeDrafts)

	rec = serve(t, "GET /product/filter", h.FilterAll, http.MethodGet, "/product/filter")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, products.lastFilter.IncludeDrafts)
}

func TestEmptyTrashWalksEveryPage(t *testing.T) {
	products := &fakeProducts{}
	for i := int64(1); i <= 150; i++ {
		products.trash = append(products.trash, domain.Product{ID: i, Deleting: true})
	}
	h, _, imgs, _ := newHandler(products)

	rec := serve(t, "DELETE /product/trash/empty", h.EmptyTrash, http.MethodDelete, "/product/trash/empty")
	require.Equal(t, http.StatusOK, rec.Code)

	// every trashed product gets its gallery unlinked, not just page one
	assert.Len(t, imgs.unlinked, 150)
	assert.JSONEq(t, `{"status":"success","data":{"deleted":150}}`, rec.Body.String())
}

func TestCloneCreatesDraftCopy(t *testing.T) {
	price := 9.5
	products := &fakeProducts{byID: map[int64]domain.Product{
		5: {ID: 5, LabelIta: "Robot", LabelEng: "Robot", Price: &price,
			InEvidence: true, Creator: "original"},
	}}
	h, rel, _, inv := newHandler(products)
	rel.byProduct[5] = []int64{7, 8}

	rec := serve(t, "POST /product/clone/{id}", h.Clone, http.MethodPost, "/product/clone/5")
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Len(t, products.created, 1)
	clone := products.created[0]
	assert.Equal(t, "Robot (Clone)", clone.LabelIta)
	assert.Equal(t, "Robot (Clone)", clone.LabelEng)
	assert.True(t, clone.Draft)
	assert.False(t, clone.InEvidence)
	assert.False(t, clone.Deleting)
	assert.Equal(t, &price, clone.Price)

	assert.Equal(t, []int64{7, 8}, rel.set[clone.ID])
	assert.Contains(t, inv.entities, "product")
}

func TestCloneBlockedByLiveClone(t *testing.T) {
	products := &fakeProducts{
		byID: map[int64]domain.Product{5: {ID: 5, LabelIta: "Robot", LabelEng: "Robot"}},
		dupe: &domain.Product{ID: 6, LabelIta: "Robot (Clone)", LabelEng: "Robot (Clone)"},
	}
	h, _, _, _ := newHandler(products)

	rec := serve(t, "POST /product/clone/{id}", h.Clone, http.MethodPost, "/product/clone/5")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, products.created)
}

func TestCloneReplacesTrashedClone(t *testing.T) {
	products := &fakeProducts{
		byID: map[int64]domain.Product{5: {ID: 5, LabelIta: "Robot", LabelEng: "Robot"}},
		dupe: &domain.Product{ID: 6, LabelIta: "Robot (Clone)", LabelEng: "Robot (Clone)", Deleting: true},
	}
	h, _, _, _ := newHandler(products)

	rec := serve(t, "POST /product/clone/{id}", h.Clone, http.MethodPost, "/product/clone/5")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []int64{6}, products.hardWiped)
	require.Len(t, products.created, 1)
}
