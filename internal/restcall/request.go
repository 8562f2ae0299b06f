package restcall

import "net/http"

// RequestOption modifies an outgoing request.
type RequestOption func(*http.Request)

// BasicAuth adds an "Authorization: Basic base64(username:password)" header.
func BasicAuth(username, password string) RequestOption {
	return func(req *http.Request) {
		req.SetBasicAuth(username, password)
	}
}

// Header sets a request header.
func Header(name, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(name, value)
	}
}
