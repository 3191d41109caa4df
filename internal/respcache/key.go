package respcache

import "strings"

// KeyPrefix is the fixed prefix of every response-cache key. The full key
// shape is "response_cache_<path>[?<query>]" with the path stripped of its
// leading slash, e.g. "response_cache_api/public/product/get/5".
const KeyPrefix = "response_cache_"

// BuildKey derives the cache key from the request path and the literal
// query string. The query is appended as sent by the client: reordering
// parameters yields a different key. Known limitation, kept for parity
// with the legacy contract.
func BuildKey(path, rawQuery string) string {
	p := strings.TrimPrefix(path, "/")
	if rawQuery != "" {
		p += "?" + rawQuery
	}
	return KeyPrefix + p
}

// Key is the structured form of an entity-scoped cache key. Matching on
// parsed fields instead of substrings avoids collisions between entity
// names ("show" inside "shows").
type Key struct {
	Scope  string // "public" or "private"
	Entity string
	Rest   string // path remainder after the entity segment, no query
}

// ParseKey decomposes "response_cache_api/<scope>/<entity>[/...][?query]".
// Keys outside the api/<scope>/<entity> shape report ok=false.
func ParseKey(raw string) (Key, bool) {
	tail, found := strings.CutPrefix(raw, KeyPrefix+"api/")
	if !found {
		return Key{}, false
	}
	if i := strings.IndexByte(tail, '?'); i >= 0 {
		tail = tail[:i]
	}
	parts := strings.SplitN(tail, "/", 3)
	if len(parts) < 2 || (parts[0] != "public" && parts[0] != "private") || parts[1] == "" {
		return Key{}, false
	}
	k := Key{Scope: parts[0], Entity: parts[1]}
	if len(parts) == 3 {
		k.Rest = parts[2]
	}
	return k, true
}
