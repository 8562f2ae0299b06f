package restcall

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"atr/internal/domain"
	"atr/internal/logging"
	"atr/internal/variables"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func TestClient_GetResolvesVariables(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithJSONResponse(sample{ID: 1, Name: "Name1"}, nil))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		vars := variables.New(map[string]string{"baseUrl": server.URL, "id": "1"})
		c := New(vars)

		resp, err := c.Get(context.Background(), "${baseUrl}/v1/Samples/${id}")
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, resp.IsSuccessStatusCode())

		item, err := Content[sample](resp)
		require.NoError(t, err)
		assert.Equal(t, sample{ID: 1, Name: "Name1"}, item)

		untyped, err := resp.Content()
		require.NoError(t, err)
		assert.Equal(t, "Name1", untyped.(map[string]interface{})["name"])

		info := <-requests
		assert.Equal(t, "GET", info.Request.Method)
		assert.Equal(t, "/v1/Samples/1", info.Request.URL.Path)
	})
}

func TestClient_UnresolvedVariableFailsWithoutSending(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(variables.New(map[string]string{"baseUrl": server.URL}))

		_, err := c.Get(context.Background(), "${baseUrl}/v1/Samples/${id}")
		require.Error(t, err)

		var cfgErr *domain.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "id", cfgErr.Variable)
		assert.Len(t, requests, 0)
	})
}

func TestClient_VerbsAndBodies(t *testing.T) {
	verbs := []struct {
		method  string
		call    func(c *Client, uri string) (*Response, error)
		hasBody bool
	}{
		{"POST", func(c *Client, uri string) (*Response, error) {
			return c.Post(context.Background(), uri, sample{Name: "new"})
		}, true},
		{"PUT", func(c *Client, uri string) (*Response, error) {
			return c.Put(context.Background(), uri, sample{ID: 1, Name: "changed"})
		}, true},
		{"DELETE", func(c *Client, uri string) (*Response, error) {
			return c.Delete(context.Background(), uri)
		}, false},
		{"OPTIONS", func(c *Client, uri string) (*Response, error) {
			return c.Options(context.Background(), uri)
		}, false},
	}

	for _, v := range verbs {
		t.Run(v.method, func(t *testing.T) {
			handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
			httphelpers.WithServer(handler, func(server *httptest.Server) {
				c := New(variables.Empty())
				resp, err := v.call(c, server.URL+"/v1/Samples/1")
				require.NoError(t, err)
				assert.Equal(t, 204, resp.StatusCode)
				assert.False(t, resp.HasContent())

				info := <-requests
				assert.Equal(t, v.method, info.Request.Method)
				if v.hasBody {
					assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))
					assert.NotEmpty(t, info.Body)
				} else {
					assert.Empty(t, info.Body)
				}
			})
		})
	}
}

func TestClient_BasicAuth(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := New(variables.Empty())
		_, err := c.Get(context.Background(), server.URL, BasicAuth("user", "pa:ss"))
		require.NoError(t, err)

		info := <-requests
		expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("user:pa:ss"))
		assert.Equal(t, expected, info.Request.Header.Get("Authorization"))
	})
}

func TestClient_PatchIsNotImplemented(t *testing.T) {
	c := New(variables.Empty())

	for _, uri := range []string{"http://localhost/v1/Samples/1", "${missing}", ""} {
		resp, err := c.Patch(context.Background(), uri, sample{ID: 1})
		assert.Nil(t, resp)

		var notImpl *domain.NotImplementedError
		require.True(t, errors.As(err, &notImpl))
		assert.Equal(t, domain.KindNotImplemented, domain.KindOf(err))
	}
}

func TestClient_WithLoggerCapturesRequests(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(http.StatusCreated), func(server *httptest.Server) {
		captured := logging.NewUnitCapture()
		c := New(variables.Empty()).WithLogger(captured)

		_, err := c.Post(context.Background(), server.URL, sample{Name: "x"})
		require.NoError(t, err)

		output := captured.Entries()
		require.Len(t, output, 2)
		assert.Contains(t, output[1].Message, "HTTP 201")
	})
}

func TestResponse_DecodeWithoutContent(t *testing.T) {
	r := &Response{StatusCode: 204}
	_, err := Content[sample](r)
	assert.Error(t, err)

	v, err := r.Content()
	assert.NoError(t, err)
	assert.Nil(t, v)
}
