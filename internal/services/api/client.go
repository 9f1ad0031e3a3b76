// Package api is the client for the ERP REST API: task stages and
// work-breakdown items.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/riordanpawley/wbsboard/internal/domain"
)

const (
	resourceStages = "taskStages"
	resourceItems  = "wbsItems"

	// IdempotencyHeader carries the creation request id so a retried POST
	// does not create a second entity
	IdempotencyHeader = "Idempotency-Key"
	tenantHeader      = "X-Tenant"

	maxErrorBody = 4096
)

// Options configures a Client
type Options struct {
	BaseURL string
	Token   string
	Tenant  string
	// MaxTries bounds attempts of idempotent reads. Mutations are sent once.
	MaxTries uint
	// RetryInterval is the first backoff interval between read attempts
	RetryInterval time.Duration
}

// Client talks to the ERP REST API
type Client struct {
	http    HTTPDoer
	opts    Options
	logger  *slog.Logger
	backoff func() backoff.BackOff
}

// NewClient creates a new API client with dependency injection
func NewClient(doer HTTPDoer, opts Options, logger *slog.Logger) *Client {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.MaxTries == 0 {
		opts.MaxTries = 1
	}
	if opts.RetryInterval <= 0 {
		opts.RetryInterval = 200 * time.Millisecond
	}
	interval := opts.RetryInterval
	return &Client{
		http:   doer,
		opts:   opts,
		logger: logger,
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = interval
			b.MaxInterval = 20 * interval
			return b
		},
	}
}

// ListStages fetches the stages of a stage set using GET /taskStages?taskStageSet=id
func (c *Client) ListStages(ctx context.Context, stageSetID string) ([]domain.Stage, error) {
	c.logger.Debug("fetching stages", "stageSet", stageSetID)

	var stages []domain.Stage
	path := resourceStages + "?" + url.Values{"taskStageSet": {stageSetID}}.Encode()
	if err := c.list(ctx, resourceStages, path, &stages); err != nil {
		return nil, err
	}
	for i := range stages {
		if stages[i].StageSetID == "" {
			stages[i].StageSetID = stageSetID
		}
	}

	c.logger.Debug("fetched stages", "count", len(stages))
	return stages, nil
}

// ListWorkItems fetches a project's work items using GET /wbsItems?project=id
func (c *Client) ListWorkItems(ctx context.Context, projectID string) ([]domain.WorkItem, error) {
	c.logger.Debug("fetching work items", "project", projectID)

	var items []domain.WorkItem
	path := resourceItems + "?" + url.Values{"project": {projectID}}.Encode()
	if err := c.list(ctx, resourceItems, path, &items); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProjectID == "" {
			items[i].ProjectID = projectID
		}
	}

	c.logger.Debug("fetched work items", "count", len(items))
	return items, nil
}

// PatchStage updates a stage's ordering using PATCH /taskStages/{id}
func (c *Client) PatchStage(ctx context.Context, id string, patch domain.StagePatch) (domain.Stage, error) {
	c.logger.Debug("patching stage", "id", id)

	var stage domain.Stage
	req := request{op: "patch", resource: resourceStages, id: id, method: http.MethodPatch, body: patch}
	if err := c.send(ctx, req, &stage); err != nil {
		return domain.Stage{}, err
	}

	c.logger.Debug("stage patched", "id", id)
	return stage, nil
}

// PatchWorkItem updates a work item's stage and/or order using PATCH /wbsItems/{id}
func (c *Client) PatchWorkItem(ctx context.Context, id string, patch domain.WorkItemPatch) (domain.WorkItem, error) {
	c.logger.Debug("patching work item", "id", id)

	var item domain.WorkItem
	req := request{op: "patch", resource: resourceItems, id: id, method: http.MethodPatch, body: patch}
	if err := c.send(ctx, req, &item); err != nil {
		return domain.WorkItem{}, err
	}

	c.logger.Debug("work item patched", "id", id)
	return item, nil
}

// CreateStage creates a stage using POST /taskStages. requestID is sent as
// the idempotency key.
func (c *Client) CreateStage(ctx context.Context, stage domain.Stage, requestID string) (domain.Stage, error) {
	c.logger.Debug("creating stage", "name", stage.Name, "request", requestID)

	stage.ID = ""
	var created domain.Stage
	req := request{op: "create", resource: resourceStages, method: http.MethodPost, body: stage, requestID: requestID}
	if err := c.send(ctx, req, &created); err != nil {
		return domain.Stage{}, err
	}

	c.logger.Debug("stage created", "id", created.ID)
	return created, nil
}

// CreateWorkItem creates a work item using POST /wbsItems. requestID is sent
// as the idempotency key.
func (c *Client) CreateWorkItem(ctx context.Context, item domain.WorkItem, requestID string) (domain.WorkItem, error) {
	c.logger.Debug("creating work item", "title", item.Title, "request", requestID)

	item.ID = ""
	var created domain.WorkItem
	req := request{op: "create", resource: resourceItems, method: http.MethodPost, body: item, requestID: requestID}
	if err := c.send(ctx, req, &created); err != nil {
		return domain.WorkItem{}, err
	}

	c.logger.Debug("work item created", "id", created.ID)
	return created, nil
}

type request struct {
	op        string
	resource  string
	id        string
	method    string
	path      string
	body      any
	requestID string
}

// list GETs a collection, retrying transient failures with backoff
func (c *Client) list(ctx context.Context, resource, path string, out any) error {
	req := request{op: "list", resource: resource, method: http.MethodGet, path: path}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.send(ctx, req, &listTarget{out})
		var apiErr *domain.APIError
		if err == nil || (errors.As(err, &apiErr) && apiErr.Temporary() && ctx.Err() == nil) {
			if err != nil {
				c.logger.Debug("retrying request", "resource", resource, "attempt", attempt, "error", err)
			}
			return struct{}{}, err
		}
		return struct{}{}, backoff.Permanent(err)
	},
		backoff.WithBackOff(c.backoff()),
		backoff.WithMaxTries(c.opts.MaxTries),
	)
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return permanent.Unwrap()
	}
	return err
}

// send performs one request and decodes the response into out
func (c *Client) send(ctx context.Context, r request, out any) error {
	path := r.path
	if path == "" {
		path = r.resource
		if r.id != "" {
			path += "/" + url.PathEscape(r.id)
		}
	}

	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return &domain.APIError{Op: r.op, Resource: r.resource, ID: r.id, Message: "failed to encode body", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.opts.BaseURL+"/"+path, body)
	if err != nil {
		return &domain.APIError{Op: r.op, Resource: r.resource, ID: r.id, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}
	if c.opts.Tenant != "" {
		req.Header.Set(tenantHeader, c.opts.Tenant)
	}
	if r.requestID != "" {
		req.Header.Set(IdempotencyHeader, r.requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			err = ctx.Err()
		case unreachable(err):
			err = fmt.Errorf("%w: %w", domain.ErrOffline, err)
		}
		return &domain.APIError{Op: r.op, Resource: r.resource, ID: r.id, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(r, resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &domain.APIError{Op: r.op, Resource: r.resource, ID: r.id, Message: "failed to parse JSON", Err: err}
	}
	return nil
}

// unreachable reports whether err means the server could not be reached
// at all: the host did not resolve or the connection was never made
func unreachable(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func statusError(r request, resp *http.Response) error {
	apiErr := &domain.APIError{
		Op:         r.op,
		Resource:   r.resource,
		ID:         r.id,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.Body),
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		apiErr.Err = domain.ErrNotFound
	case http.StatusConflict, http.StatusPreconditionFailed:
		apiErr.Err = domain.ErrConflict
	default:
		apiErr.Err = fmt.Errorf("unexpected status %s", resp.Status)
	}
	return apiErr
}

// errorMessage extracts {"message": ...} from an error body, falling back
// to the trimmed raw text
func errorMessage(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}

// listTarget accepts both a bare JSON array and the {"data": [...]}
// envelope some ERP endpoints wrap collections in
type listTarget struct {
	out any
}

func (t listTarget) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		if envelope.Data == nil {
			return errors.New("missing data field")
		}
		trimmed = envelope.Data
	}
	return json.Unmarshal(trimmed, t.out)
}
