package api

import (
	"context"
	"io"
	"net/http"
	"time"
)

// HTTPDoer abstracts request execution for testing
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TimeoutDoer sends requests with a default per-request timeout
type TimeoutDoer struct {
	Client  *http.Client
	Timeout time.Duration
}

// Do executes req, adding Timeout if the request context has no deadline
func (d *TimeoutDoer) Do(req *http.Request) (*http.Response, error) {
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	if _, hasDeadline := req.Context().Deadline(); hasDeadline || d.Timeout <= 0 {
		return client.Do(req)
	}

	ctx, cancel := context.WithTimeout(req.Context(), d.Timeout)
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelBody releases the timeout context once the body is closed
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
