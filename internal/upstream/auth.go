package upstream

import "net/http"

// AuthHeader maps an optional bearer token to the headers an upstream call carries.
// An empty token yields an empty header set.
func AuthHeader(token string) http.Header {
	h := http.Header{}
	if token == "" {
		return h
	}
	h.Set("Authorization", "Bearer "+token)
	return h
}
