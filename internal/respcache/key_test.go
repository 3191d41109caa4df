package respcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "response_cache_api/public/product/get/5",
		BuildKey("/api/public/product/get/5", ""))
	assert.Equal(t, "response_cache_api/public/product/paginate?page=2&limit=10",
		BuildKey("/api/public/product/paginate", "page=2&limit=10"))
}

func TestBuildKeyQueryOrderSensitive(t *testing.T) {
	a := BuildKey("/api/public/product/paginate", "page=2&limit=10")
	b := BuildKey("/api/public/product/paginate", "limit=10&page=2")
	assert.NotEqual(t, a, b)
}

func TestBuildKeyDeterministic(t *testing.T) {
	a := BuildKey("/api/public/faq", "")
	b := BuildKey("/api/public/faq", "")
	assert.Equal(t, a, b)
}

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("response_cache_api/public/product/get/5")
	require.True(t, ok)
	assert.Equal(t, "public", k.Scope)
	assert.Equal(t, "product", k.Entity)
	assert.Equal(t, "get/5", k.Rest)

	k, ok = ParseKey("response_cache_api/private/search?query=abc")
	require.True(t, ok)
	assert.Equal(t, "private", k.Scope)
	assert.Equal(t, "search", k.Entity)
	assert.Empty(t, k.Rest)
}

func TestParseKeyEntityIsExactSegment(t *testing.T) {
	// "show" and "shows" are different entities, substring matching
	// would conflate them
	k, ok := ParseKey("response_cache_api/public/shows/old")
	require.True(t, ok)
	assert.Equal(t, "shows", k.Entity)
	assert.NotEqual(t, "show", k.Entity)
}

func TestParseKeyRejectsForeignKeys(t *testing.T) {
	cases := []string{
		"jti:abc123",
		"response_cache_other/public/product",
		"response_cache_api/internal/product",
		"response_cache_api/public",
	}
	for _, raw := range cases {
		_, ok := ParseKey(raw)
		assert.False(t, ok, "key %q should not parse", raw)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	body := []byte(`{"status":"success","data":[1,2,3]}`)
	stored, err := encodeBody(body)
	require.NoError(t, err)
	assert.NotEqual(t, body, stored)

	out, err := decodeBody(stored)
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestDecodeBodyGarbage(t *testing.T) {
	_, err := decodeBody([]byte("not base64 at all!!!"))
	assert.Error(t, err)

	// valid base64, invalid zlib stream
	_, err = decodeBody([]byte("aGVsbG8gd29ybGQ="))
	assert.Error(t, err)
}
