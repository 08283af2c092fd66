// Package client wraps every task operation with bearer-token attachment,
// typed error translation, and read-cache coordination.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"taskify/internal/apierr"
	"taskify/internal/models"
	"taskify/internal/taskcache"

	"github.com/gofrs/uuid"
)

// TaskClient talks to the remote task store. Every mutation invalidates
// the injected read cache after the remote call succeeds, so no stale
// snapshot survives a known mutation.
type TaskClient struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	cache      *taskcache.Cache
}

func NewTaskClient(httpClient *http.Client, baseURL string, tokens TokenSource, cache *taskcache.Cache) *TaskClient {
	if cache == nil {
		cache = taskcache.New(taskcache.DefaultTTL)
	}
	return &TaskClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     tokens,
		cache:      cache,
	}
}

// List is read-through: within the cache TTL and without force it serves
// the cached snapshot with no network call.
func (c *TaskClient) List(ctx context.Context, forceRefresh bool) ([]models.Task, error) {
	return c.cache.Read(ctx, forceRefresh, func(ctx context.Context) ([]models.Task, error) {
		var tasks []models.Task
		if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	})
}

func (c *TaskClient) Create(ctx context.Context, title string, description *string) (models.Task, error) {
	normalized, err := models.NormalizeTitle(title)
	if err != nil {
		return models.Task{}, apierr.Wrap(apierr.CodeValidation, err.Error(), err)
	}

	payload := struct {
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
	}{Title: normalized, Description: models.NormalizeDescription(description)}

	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", payload, &task); err != nil {
		return models.Task{}, err
	}
	c.cache.Invalidate()
	return task, nil
}

func (c *TaskClient) Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil {
		normalized, err := models.NormalizeTitle(*patch.Title)
		if err != nil {
			return models.Task{}, apierr.Wrap(apierr.CodeValidation, err.Error(), err)
		}
		patch.Title = &normalized
	}

	var task models.Task
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+id.String(), patch, &task); err != nil {
		return models.Task{}, err
	}
	c.cache.Invalidate()
	return task, nil
}

func (c *TaskClient) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.do(ctx, http.MethodDelete, "/tasks/"+id.String(), nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate()
	return nil
}

func (c *TaskClient) Complete(ctx context.Context, id uuid.UUID) (models.Task, error) {
	return c.setCompleted(ctx, id, true)
}

func (c *TaskClient) Uncomplete(ctx context.Context, id uuid.UUID) (models.Task, error) {
	return c.setCompleted(ctx, id, false)
}

func (c *TaskClient) setCompleted(ctx context.Context, id uuid.UUID, completed bool) (models.Task, error) {
	method := http.MethodPost
	if !completed {
		method = http.MethodDelete
	}

	var task models.Task
	if err := c.do(ctx, method, "/tasks/"+id.String()+"/complete", nil, &task); err != nil {
		return models.Task{}, err
	}
	c.cache.Invalidate()
	return task, nil
}

// InvalidateCache drops the read snapshot; used on logout so no residual
// task data can be served mid-teardown.
func (c *TaskClient) InvalidateCache() {
	c.cache.Invalidate()
}

// do runs the shared request contract: acquire a token (failing fast as
// UNAUTHORIZED when the session is gone), attach headers, translate any
// non-2xx into a typed error, and decode the body into out when present.
func (c *TaskClient) do(ctx context.Context, method, path string, payload, out interface{}) error {
	token, ok, err := c.tokens.AcquireToken(ctx)
	if err != nil {
		return apierr.Wrap(apierr.CodeTransport, "could not reach the identity provider", err)
	}
	if !ok {
		return apierr.New(apierr.CodeUnauthorized, "not authenticated")
	}

	var body *bytes.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apierr.Wrap(apierr.CodeTransport, "could not reach the task store", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// decodeError parses the structured error body; an unparsable body is
// surfaced as UNKNOWN with a generic message.
func decodeError(resp *http.Response) error {
	var body apierr.Body
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == nil || body.Error.Code == "" {
		return apierr.New(apierr.CodeUnknown, fmt.Sprintf("request failed with status %d", resp.StatusCode))
	}
	return body.Error
}
