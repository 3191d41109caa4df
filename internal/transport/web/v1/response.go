package v1

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ValerioGc/shop-manager/internal/domain"
)

// MapDomainError picks the HTTP status and envelope for a business error.
func MapDomainError(err error) (int, domain.APIEnvelope) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusUnprocessableEntity, domain.Fail(ve.Fields)
	}

	switch {
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, domain.Fail("bad params")
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, domain.Fail("unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.Fail("forbidden")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.Fail("not found")
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, domain.Fail("method not allowed")
	case errors.Is(err, domain.ErrDuplicate):
		return http.StatusUnprocessableEntity, domain.Fail("duplicate record")
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, domain.Fail("validation failed")
	case errors.Is(err, domain.ErrHasAssociations):
		return http.StatusInternalServerError, domain.Fail("record has associations")
	default:
		return http.StatusInternalServerError, domain.Fail("unexpected")
	}
}

func WriteEnvelope(w http.ResponseWriter, r *http.Request, status int, env domain.APIEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(env)
}

func WriteOKData(w http.ResponseWriter, r *http.Request, data any) {
	WriteEnvelope(w, r, http.StatusOK, domain.OkData(data))
}

func WriteCreated(w http.ResponseWriter, r *http.Request, data any) {
	WriteEnvelope(w, r, http.StatusCreated, domain.OkData(data))
}

func WriteOKMessage(w http.ResponseWriter, r *http.Request, msg string) {
	WriteEnvelope(w, r, http.StatusOK, domain.OkMessage(msg))
}

// WriteEmpty reports that the underlying table holds no rows at all.
func WriteEmpty(w http.ResponseWriter, r *http.Request, msg string) {
	WriteEnvelope(w, r, http.StatusOK, domain.Empty(msg))
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := MapDomainError(err)
	WriteEnvelope(w, r, status, env)
}

// PathID parses the trailing {id} path value.
func PathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrBadParams
	}
	return id, nil
}

// ListParamsFromQuery reads the shared paginate/order query parameters.
func ListParamsFromQuery(r *http.Request) domain.ListParams {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return domain.ListParams{
		Page:    page,
		Limit:   limit,
		OrderBy: strings.TrimSpace(q.Get("order_by")),
		Order:   strings.ToLower(strings.TrimSpace(q.Get("order"))),
	}.Normalize()
}

func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrBadParams
	}
	return nil
}
