// Package dashboard orchestrates the task list view: fetch-on-mount,
// per-mutation list updates, auth-failure redirects, and user-visible
// notifications.
package dashboard

import (
	"context"
	"sync"

	"taskify/internal/apierr"
	"taskify/internal/models"
	"taskify/internal/session"

	"github.com/gofrs/uuid"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseErrored
)

type SessionProvider interface {
	Current(ctx context.Context) (session.State, *models.User)
	SignOut(ctx context.Context) error
}

type TaskAPI interface {
	List(ctx context.Context, forceRefresh bool) ([]models.Task, error)
	Create(ctx context.Context, title string, description *string) (models.Task, error)
	Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Complete(ctx context.Context, id uuid.UUID) (models.Task, error)
	Uncomplete(ctx context.Context, id uuid.UUID) (models.Task, error)
	InvalidateCache()
}

type Navigator interface {
	NavigateToLogin()
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

// Controller is the single place deciding the UI consequence of an error:
// UNAUTHORIZED redirects to login, anything else becomes a banner or
// toast. A mutex serializes state transitions.
type Controller struct {
	api      TaskAPI
	sessions SessionProvider
	nav      Navigator
	notify   Notifier

	mu      sync.Mutex
	phase   Phase
	tasks   []models.Task
	lastErr string
}

func NewController(api TaskAPI, sessions SessionProvider, nav Navigator, notify Notifier) *Controller {
	return &Controller{
		api:      api,
		sessions: sessions,
		nav:      nav,
		notify:   notify,
		phase:    PhaseLoading,
	}
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Tasks returns the rendered list, newest-first as served.
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	tasks := make([]models.Task, len(c.tasks))
	copy(tasks, c.tasks)
	return tasks
}

func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Mount drives the initial state: pending stays loading, absent redirects
// to login, ready triggers a forced refresh.
func (c *Controller) Mount(ctx context.Context) {
	state, _ := c.sessions.Current(ctx)
	switch state {
	case session.StatePending:
		c.setPhase(PhaseLoading)
	case session.StateAbsent:
		c.nav.NavigateToLogin()
	case session.StateReady:
		c.refresh(ctx)
	}
}

// Retry re-issues the forced fetch after an inline error.
func (c *Controller) Retry(ctx context.Context) {
	c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) {
	tasks, err := c.api.List(ctx, true)
	if err != nil {
		if apierr.IsUnauthorized(err) {
			// Silent session expiry: leave no task data behind and send
			// the user back to login.
			c.setTasks(nil, PhaseLoading, "")
			c.nav.NavigateToLogin()
			return
		}
		c.setTasks(nil, PhaseErrored, "Could not load your tasks. Please try again.")
		return
	}
	c.setTasks(tasks, PhaseReady, "")
}

// CreateTask prepends the server-assigned task so newest-first ordering
// holds without a refetch. The error is returned as well as toasted so the
// submitting form can keep its state.
func (c *Controller) CreateTask(ctx context.Context, title string, description *string) (models.Task, error) {
	task, err := c.api.Create(ctx, title, description)
	if err != nil {
		c.notify.Error(mutationMessage(err, "Could not create the task."))
		return models.Task{}, err
	}

	c.mu.Lock()
	c.tasks = append([]models.Task{task}, c.tasks...)
	c.mu.Unlock()

	c.notify.Success("Task created.")
	return task, nil
}

func (c *Controller) UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	task, err := c.api.Update(ctx, id, patch)
	if err != nil {
		c.notify.Error(mutationMessage(err, "Could not update the task."))
		return models.Task{}, err
	}

	c.replaceTask(task)
	c.notify.Success("Task updated.")
	return task, nil
}

// ToggleComplete replaces the task with the server-returned authoritative
// value; the new completion state is never guessed locally.
func (c *Controller) ToggleComplete(ctx context.Context, id uuid.UUID, completed bool) (models.Task, error) {
	var task models.Task
	var err error
	if completed {
		task, err = c.api.Complete(ctx, id)
	} else {
		task, err = c.api.Uncomplete(ctx, id)
	}
	if err != nil {
		c.notify.Error(mutationMessage(err, "Could not update the task."))
		return models.Task{}, err
	}

	c.replaceTask(task)
	c.notify.Success("Task updated.")
	return task, nil
}

// DeleteTask removes the task from the list only after the remote delete
// confirmed, so there is nothing to roll back on failure.
func (c *Controller) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := c.api.Delete(ctx, id); err != nil {
		c.notify.Error(mutationMessage(err, "Could not delete the task."))
		return err
	}

	c.mu.Lock()
	filtered := c.tasks[:0]
	for _, task := range c.tasks {
		if task.ID != id {
			filtered = append(filtered, task)
		}
	}
	c.tasks = filtered
	c.mu.Unlock()

	c.notify.Success("Task deleted.")
	return nil
}

// Logout tears down in a fixed order: cache first, then the session, then
// navigation. Even a failed session end still clears the cache and
// navigates, so no residual task data can be served.
func (c *Controller) Logout(ctx context.Context) error {
	c.api.InvalidateCache()
	c.setTasks(nil, PhaseLoading, "")

	err := c.sessions.SignOut(ctx)
	c.nav.NavigateToLogin()
	return err
}

func (c *Controller) replaceTask(updated models.Task) {
	c.mu.Lock()
	for i := range c.tasks {
		if c.tasks[i].ID == updated.ID {
			c.tasks[i] = updated
			break
		}
	}
	c.mu.Unlock()
}

func (c *Controller) setPhase(phase Phase) {
	c.mu.Lock()
	c.phase = phase
	c.mu.Unlock()
}

func (c *Controller) setTasks(tasks []models.Task, phase Phase, errMsg string) {
	c.mu.Lock()
	c.tasks = tasks
	c.phase = phase
	c.lastErr = errMsg
	c.mu.Unlock()
}

// mutationMessage prefers the remote validation message, which names the
// offending field, over the generic fallback.
func mutationMessage(err error, fallback string) string {
	if apiErr := apierr.FromError(err); apiErr != nil && apiErr.Code == apierr.CodeValidation {
		return apiErr.Message
	}
	return fallback
}
