package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListParamsNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   ListParams
		want ListParams
	}{
		{"defaults", ListParams{},
			ListParams{Page: 1, Limit: 10, OrderBy: "updated_at", Order: "desc"}},
		{"negative page", ListParams{Page: -3, Limit: 20, OrderBy: "id", Order: "asc"},
			ListParams{Page: 1, Limit: 20, OrderBy: "id", Order: "asc"}},
		{"limit over cap", ListParams{Page: 2, Limit: 500},
			ListParams{Page: 2, Limit: 10, OrderBy: "updated_at", Order: "desc"}},
		{"bogus order", ListParams{Page: 1, Limit: 10, Order: "sideways"},
			ListParams{Page: 1, Limit: 10, OrderBy: "updated_at", Order: "desc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	p := ListParams{Page: 3, Limit: 10}
	assert.Equal(t, uint64(20), p.Offset())
}

func TestNewPageLastPage(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 1},
		{5, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{30, 10, 3},
	}
	for _, tc := range cases {
		p := NewPage[int](nil, tc.total, 1, tc.limit)
		assert.Equal(t, tc.want, p.LastPage, "total=%d limit=%d", tc.total, tc.limit)
		require.NotNil(t, p.Data, "nil data must become an empty slice")
	}
}

func TestValidationError(t *testing.T) {
	ve := NewValidationError()
	assert.True(t, ve.Empty())

	ve.Add("label_ita", "required")
	ve.Add("label_ita", "too short")
	ve.Add("price", "must be positive")

	assert.False(t, ve.Empty())
	assert.Len(t, ve.Fields["label_ita"], 2)
	assert.True(t, errors.Is(ve, ErrValidation))
}
