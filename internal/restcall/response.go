package restcall

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the result of a call: status, headers and the raw body, which may be empty.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// IsSuccessStatusCode reports whether the status is in the 2xx range.
func (r *Response) IsSuccessStatusCode() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HasContent reports whether the response carried a body.
func (r *Response) HasContent() bool {
	return len(r.Body) > 0
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v interface{}) error {
	if !r.HasContent() {
		return fmt.Errorf("response with HTTP %d has no content", r.StatusCode)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Content returns the body decoded without a target type. A response without a body
// yields nil.
func (r *Response) Content() (interface{}, error) {
	if !r.HasContent() {
		return nil, nil
	}
	var v interface{}
	if err := r.DecodeJSON(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Content decodes the body of r as a T.
func Content[T any](r *Response) (T, error) {
	var v T
	err := r.DecodeJSON(&v)
	return v, err
}
