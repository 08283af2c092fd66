package dashboard

import (
	"context"
	"errors"
	"testing"

	"taskify/internal/apierr"
	"taskify/internal/models"
	"taskify/internal/session"

	"github.com/gofrs/uuid"
)

type fakeSessions struct {
	state      session.State
	user       *models.User
	signOutErr error
	signedOut  bool
}

func (f *fakeSessions) Current(ctx context.Context) (session.State, *models.User) {
	return f.state, f.user
}

func (f *fakeSessions) SignOut(ctx context.Context) error {
	f.signedOut = true
	return f.signOutErr
}

type fakeAPI struct {
	tasks       []models.Task
	listErr     error
	createErr   error
	updateErr   error
	deleteErr   error
	invalidated int
	listCalls   int
}

func (f *fakeAPI) List(ctx context.Context, force bool) ([]models.Task, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tasks, nil
}

func (f *fakeAPI) Create(ctx context.Context, title string, description *string) (models.Task, error) {
	if f.createErr != nil {
		return models.Task{}, f.createErr
	}
	return models.Task{ID: uuid.Must(uuid.NewV4()), Title: title, Description: description}, nil
}

func (f *fakeAPI) Update(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (models.Task, error) {
	if f.updateErr != nil {
		return models.Task{}, f.updateErr
	}
	task := models.Task{ID: id, Title: "updated"}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	return task, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id uuid.UUID) error {
	return f.deleteErr
}

func (f *fakeAPI) Complete(ctx context.Context, id uuid.UUID) (models.Task, error) {
	if f.updateErr != nil {
		return models.Task{}, f.updateErr
	}
	return models.Task{ID: id, IsCompleted: true}, nil
}

func (f *fakeAPI) Uncomplete(ctx context.Context, id uuid.UUID) (models.Task, error) {
	return models.Task{ID: id, IsCompleted: false}, nil
}

func (f *fakeAPI) InvalidateCache() {
	f.invalidated++
}

type fakeNav struct {
	redirects int
}

func (f *fakeNav) NavigateToLogin() { f.redirects++ }

type fakeNotify struct {
	successes []string
	errs      []string
}

func (f *fakeNotify) Success(message string) { f.successes = append(f.successes, message) }
func (f *fakeNotify) Error(message string)   { f.errs = append(f.errs, message) }

func newTestController(sessions *fakeSessions, api *fakeAPI) (*Controller, *fakeNav, *fakeNotify) {
	nav := &fakeNav{}
	notify := &fakeNotify{}
	return NewController(api, sessions, nav, notify), nav, notify
}

func someUser() *models.User {
	return &models.User{ID: uuid.Must(uuid.NewV4()), Email: "a@example.com"}
}

func taskList(titles ...string) []models.Task {
	tasks := make([]models.Task, len(titles))
	for i, title := range titles {
		tasks[i] = models.Task{ID: uuid.Must(uuid.NewV4()), Title: title}
	}
	return tasks
}

func TestMount_PendingSessionStaysLoading(t *testing.T) {
	api := &fakeAPI{}
	ctrl, nav, _ := newTestController(&fakeSessions{state: session.StatePending}, api)

	ctrl.Mount(context.Background())

	if ctrl.Phase() != PhaseLoading {
		t.Errorf("expected loading phase, got %v", ctrl.Phase())
	}
	if api.listCalls != 0 {
		t.Error("expected no fetch while the session is pending")
	}
	if nav.redirects != 0 {
		t.Error("expected no redirect while pending")
	}
}

func TestMount_AbsentSessionRedirects(t *testing.T) {
	api := &fakeAPI{}
	ctrl, nav, _ := newTestController(&fakeSessions{state: session.StateAbsent}, api)

	ctrl.Mount(context.Background())

	if nav.redirects != 1 {
		t.Errorf("expected one redirect to login, got %d", nav.redirects)
	}
	if api.listCalls != 0 {
		t.Error("expected no fetch for an absent session")
	}
}

func TestMount_ReadySessionFetchesAndRenders(t *testing.T) {
	api := &fakeAPI{tasks: taskList("newest", "older")}
	ctrl, _, _ := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)

	ctrl.Mount(context.Background())

	if ctrl.Phase() != PhaseReady {
		t.Fatalf("expected ready phase, got %v", ctrl.Phase())
	}
	tasks := ctrl.Tasks()
	if len(tasks) != 2 || tasks[0].Title != "newest" {
		t.Errorf("expected server order preserved, got %+v", tasks)
	}
}

func TestMount_UnauthorizedFetchRedirectsWithNoData(t *testing.T) {
	api := &fakeAPI{listErr: apierr.New(apierr.CodeUnauthorized, "not authenticated")}
	ctrl, nav, _ := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)

	ctrl.Mount(context.Background())

	if nav.redirects != 1 {
		t.Errorf("expected redirect on silent session expiry, got %d", nav.redirects)
	}
	if len(ctrl.Tasks()) != 0 {
		t.Error("expected no task data rendered after auth failure")
	}
}

func TestMount_OtherFailureShowsRetryableError(t *testing.T) {
	api := &fakeAPI{listErr: apierr.New(apierr.CodeTransport, "network down")}
	ctrl, nav, _ := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)

	ctrl.Mount(context.Background())

	if ctrl.Phase() != PhaseErrored {
		t.Fatalf("expected errored phase, got %v", ctrl.Phase())
	}
	if ctrl.ErrorMessage() == "" {
		t.Error("expected a user-visible error message")
	}
	if nav.redirects != 0 {
		t.Error("a transport failure must not redirect to login")
	}

	// Retry recovers once the network is back.
	api.listErr = nil
	api.tasks = taskList("a")
	ctrl.Retry(context.Background())

	if ctrl.Phase() != PhaseReady {
		t.Errorf("expected ready after retry, got %v", ctrl.Phase())
	}
	if api.listCalls != 2 {
		t.Errorf("expected retry to re-issue the fetch, got %d calls", api.listCalls)
	}
}

func TestCreateTask_PrependsAndNotifies(t *testing.T) {
	api := &fakeAPI{tasks: taskList("existing")}
	ctrl, _, notify := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)
	ctrl.Mount(context.Background())

	created, err := ctrl.CreateTask(context.Background(), "Buy milk", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := ctrl.Tasks()
	if len(tasks) != 2 || tasks[0].ID != created.ID {
		t.Errorf("expected the new task first, got %+v", tasks)
	}
	if len(notify.successes) != 1 {
		t.Errorf("expected one success toast, got %d", len(notify.successes))
	}
}

func TestCreateTask_FailureToastsAndReturnsError(t *testing.T) {
	api := &fakeAPI{createErr: apierr.New(apierr.CodeValidation, "title must not be empty")}
	ctrl, _, notify := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)

	_, err := ctrl.CreateTask(context.Background(), "", nil)
	if err == nil {
		t.Fatal("expected the error to be returned for the submitting form")
	}
	if len(notify.errs) != 1 {
		t.Errorf("expected one error toast, got %d", len(notify.errs))
	}
	if notify.errs[0] != "title must not be empty" {
		t.Errorf("expected the validation message to surface, got %q", notify.errs[0])
	}
}

func TestUpdateTask_ReplacesByIDWithServerValue(t *testing.T) {
	existing := taskList("old title", "other")
	api := &fakeAPI{tasks: existing}
	ctrl, _, _ := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)
	ctrl.Mount(context.Background())

	newTitle := "new title"
	_, err := ctrl.UpdateTask(context.Background(), existing[0].ID, models.TaskPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := ctrl.Tasks()
	if tasks[0].Title != "new title" {
		t.Errorf("expected in-place replacement, got %q", tasks[0].Title)
	}
	if tasks[1].Title != "other" {
		t.Error("expected unrelated tasks untouched")
	}
}

func TestToggleComplete_UsesServerState(t *testing.T) {
	existing := taskList("a")
	api := &fakeAPI{tasks: existing}
	ctrl, _, _ := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)
	ctrl.Mount(context.Background())

	task, err := ctrl.ToggleComplete(context.Background(), existing[0].ID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.IsCompleted {
		t.Error("expected the server-confirmed completion state")
	}
	if !ctrl.Tasks()[0].IsCompleted {
		t.Error("expected the list entry replaced with the server value")
	}
}

func TestDeleteTask_RemovesOnlyAfterConfirmation(t *testing.T) {
	existing := taskList("keep", "drop")
	api := &fakeAPI{tasks: existing}
	ctrl, _, notify := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)
	ctrl.Mount(context.Background())

	if err := ctrl.DeleteTask(context.Background(), existing[1].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tasks := ctrl.Tasks()
	if len(tasks) != 1 || tasks[0].Title != "keep" {
		t.Errorf("expected only the deleted task removed, got %+v", tasks)
	}
	if len(notify.successes) != 1 {
		t.Errorf("expected a success toast, got %d", len(notify.successes))
	}
}

func TestDeleteTask_FailureLeavesListIntact(t *testing.T) {
	existing := taskList("a", "b")
	api := &fakeAPI{tasks: existing}
	ctrl, _, notify := newTestController(&fakeSessions{state: session.StateReady, user: someUser()}, api)
	ctrl.Mount(context.Background())

	api.deleteErr = apierr.New(apierr.CodeInternal, "boom")
	if err := ctrl.DeleteTask(context.Background(), existing[0].ID); err == nil {
		t.Fatal("expected the delete error to propagate")
	}

	if len(ctrl.Tasks()) != 2 {
		t.Error("the list must not be mutated before the delete is confirmed")
	}
	if len(notify.errs) != 1 {
		t.Errorf("expected an error toast, got %d", len(notify.errs))
	}
}

func TestLogout_OrderingHoldsEvenWhenSessionEndFails(t *testing.T) {
	sessions := &fakeSessions{state: session.StateReady, user: someUser(), signOutErr: errors.New("provider down")}
	api := &fakeAPI{tasks: taskList("a")}
	ctrl, nav, _ := newTestController(sessions, api)
	ctrl.Mount(context.Background())

	err := ctrl.Logout(context.Background())
	if err == nil {
		t.Error("expected the sign-out failure to be reported")
	}

	if api.invalidated != 1 {
		t.Errorf("expected the cache invalidated exactly once, got %d", api.invalidated)
	}
	if !sessions.signedOut {
		t.Error("expected the session end to be attempted")
	}
	if nav.redirects != 1 {
		t.Errorf("expected navigation to login regardless of failure, got %d", nav.redirects)
	}
	if len(ctrl.Tasks()) != 0 {
		t.Error("expected no residual task data after logout")
	}
}
