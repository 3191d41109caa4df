package v1

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrBadParams, http.StatusBadRequest},
		{domain.ErrUnauth, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
		{domain.ErrDuplicate, http.StatusUnprocessableEntity},
		{domain.ErrValidation, http.StatusUnprocessableEntity},
		{domain.ErrHasAssociations, http.StatusInternalServerError},
		{domain.ErrUnexpected, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", domain.ErrNotFound), http.StatusNotFound},
	}
	for _, tc := range cases {
		status, env := MapDomainError(tc.err)
		assert.Equal(t, tc.status, status, "err=%v", tc.err)
		assert.Equal(t, "error", env.Status)
	}
}

func TestMapDomainErrorValidationFields(t *testing.T) {
	ve := domain.NewValidationError()
	ve.Add("label_ita", "required")

	status, env := MapDomainError(ve)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.IsType(t, map[string][]string{}, env.Message)
	assert.Equal(t, []string{"required"}, env.Message.(map[string][]string)["label_ita"])
}

func TestWriteEnvelopeHeadHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/api/public/faq", nil)
	WriteOKMessage(rec, req, "ok")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Body.String())
}

func TestWriteEmptyEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/public/faq", nil)
	WriteEmpty(rec, req, "no faqs")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"empty","message":"no faqs"}`, rec.Body.String())
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got int64
	var gotErr error
	mux.HandleFunc("GET /product/get/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, gotErr = PathID(r)
	})

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/get/42", nil))
	require.NoError(t, gotErr)
	assert.Equal(t, int64(42), got)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/get/abc", nil))
	assert.ErrorIs(t, gotErr, domain.ErrBadParams)

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/product/get/0", nil))
	assert.ErrorIs(t, gotErr, domain.ErrBadParams)
}

func TestListParamsFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?page=3&limit=25&order_by=created_at&order=ASC", nil)
	p := ListParamsFromQuery(req)
	assert.Equal(t, domain.ListParams{Page: 3, Limit: 25, OrderBy: "created_at", Order: "asc"}, p)

	req = httptest.NewRequest(http.MethodGet, "/x?page=junk&limit=9999", nil)
	p = ListParamsFromQuery(req)
	assert.Equal(t, domain.ListParams{Page: 1, Limit: 10, OrderBy: "updated_at", Order: "desc"}, p)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Login string `json:"login"`
	}
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"login":"admin"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "admin", dst.Login)

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{not json`))
	assert.ErrorIs(t, DecodeJSON(req, &dst), domain.ErrBadParams)
}
