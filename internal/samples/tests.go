// Package samples holds the sample test container and the demonstration API it calls.
package samples

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"atr/internal/registry"
	"atr/internal/restcall"
)

// ServerVariable names the variable holding the base URL of the Samples API.
const ServerVariable = "server"

// Module registers SamplesTests. The markers are declared in samples.yaml next to this file.
type Module struct{}

func (Module) Name() string { return "samples" }

func (Module) Register(r *registry.Registry) {
	registry.Class(r, "SamplesTests", NewSamplesTests).
		PreTest("PreTestActions", (*SamplesTests).PreTestActions).
		PostTest("PostTestActions", (*SamplesTests).PostTestActions).
		Test("CallingGetAllEndpointReturnsOk", (*SamplesTests).CallingGetAllEndpointReturnsOk).
		Test("CallingGetAllEndPointReturnsOkButFailAnyway", (*SamplesTests).CallingGetAllEndPointReturnsOkButFailAnyway).
		Test("CallingBySingleEndpointReturnsOk", (*SamplesTests).CallingBySingleEndpointReturnsOk).
		Test("CallingPostReturnsCreated", (*SamplesTests).CallingPostReturnsCreated).
		Test("CallingPutReturnsOk", (*SamplesTests).CallingPutReturnsOk).
		Test("CallingDeleteReturnsOk", (*SamplesTests).CallingDeleteReturnsOk).
		Test("CallingOptionsReturnsOk", (*SamplesTests).CallingOptionsReturnsOk).
		Test("CallingOptionsByIdReturnsOk", (*SamplesTests).CallingOptionsByIdReturnsOk)
}

// scope brackets a single test between the pre-test and post-test hooks.
type scope struct {
	opened time.Time
}

// SamplesTests exercises the Samples API at ${server}.
type SamplesTests struct {
	mu    sync.Mutex
	scope *scope
}

// NewSamplesTests creates the container.
func NewSamplesTests() (*SamplesTests, error) {
	return &SamplesTests{}, nil
}

func (t *SamplesTests) PreTestActions(ctx context.Context, rc *restcall.Client) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scope = &scope{opened: time.Now()}
	return nil
}

func (t *SamplesTests) PostTestActions(ctx context.Context, rc *restcall.Client) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.scope == nil {
		return errors.New("no open scope to dispose")
	}
	t.scope = nil
	return nil
}

func (t *SamplesTests) CallingGetAllEndpointReturnsOk(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Get(ctx, "${server}/v1/Samples")
	if err != nil {
		return err
	}
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	items, err := restcall.Content[[]GetItemList](resp)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("expected at least one sample")
	}
	return nil
}

// CallingGetAllEndPointReturnsOkButFailAnyway demonstrates a failing test: the call
// succeeds and the test expects it not to.
func (t *SamplesTests) CallingGetAllEndPointReturnsOkButFailAnyway(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Get(ctx, "${server}/v1/Samples")
	if err != nil {
		return err
	}
	if resp.IsSuccessStatusCode() {
		return fmt.Errorf("expected a failure status, got HTTP %d", resp.StatusCode)
	}
	return nil
}

func (t *SamplesTests) CallingBySingleEndpointReturnsOk(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Get(ctx, "${server}/v1/Samples/1")
	if err != nil {
		return err
	}
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}
	item, err := restcall.Content[GetItem](resp)
	if err != nil {
		return err
	}
	if item.Id != 1 {
		return fmt.Errorf("expected sample 1, got %d", item.Id)
	}
	return nil
}

func (t *SamplesTests) CallingPostReturnsCreated(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Post(ctx, "${server}/v1/Samples", PostItem{})
	if err != nil {
		return err
	}
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}
	if resp.Header.Get("Location") == "" {
		return errors.New("expected a Location header")
	}
	return nil
}

func (t *SamplesTests) CallingPutReturnsOk(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Put(ctx, "${server}/v1/Samples/1", PutItem{})
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusOK)
}

func (t *SamplesTests) CallingDeleteReturnsOk(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Delete(ctx, "${server}/v1/Samples/1")
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusOK)
}

func (t *SamplesTests) CallingOptionsReturnsOk(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Options(ctx, "${server}/v1/Samples")
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusOK)
}

func (t *SamplesTests) CallingOptionsByIdReturnsOk(ctx context.Context, rc *restcall.Client) error {
	resp, err := rc.Options(ctx, "${server}/v1/Samples/1")
	if err != nil {
		return err
	}
	return expectStatus(resp, http.StatusOK)
}

func expectStatus(resp *restcall.Response, want int) error {
	if resp.StatusCode != want {
		return fmt.Errorf("expected HTTP %d, got %d", want, resp.StatusCode)
	}
	return nil
}
