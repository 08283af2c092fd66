package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"taskify/internal/models"

	"github.com/gofrs/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestCreateTask_NormalizesInput(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	desc := "   "
	task, err := svc.CreateTask(db, userID, "  Buy milk  ", &desc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Description != nil {
		t.Error("whitespace-only description must be stored as absent")
	}
	if task.IsCompleted {
		t.Error("new tasks must default to not completed")
	}
}

func TestCreateTask_TitleBounds(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	tests := []struct {
		name    string
		title   string
		wantErr error
	}{
		{"empty", "", models.ErrTitleEmpty},
		{"whitespace", "   ", models.ErrTitleEmpty},
		{"201 chars", strings.Repeat("x", 201), models.ErrTitleTooLong},
		{"200 chars", strings.Repeat("x", 200), nil},
		{"200 multibyte chars", strings.Repeat("é", 200), nil},
		{"201 multibyte chars", strings.Repeat("é", 201), models.ErrTitleTooLong},
		{"1 char", "x", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(db, userID, tt.title, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestListTasks_NewestFirst(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	// Insert directly to control created_at precisely.
	base := time.Now().UTC()
	for i, title := range []string{"oldest", "middle", "newest"} {
		task := models.Task{
			ID:        uuid.Must(uuid.NewV4()),
			UserID:    userID,
			Title:     title,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}
		if err := db.Create(&task).Error; err != nil {
			t.Fatalf("failed to seed task: %v", err)
		}
	}

	tasks, err := svc.ListTasks(db, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []string{tasks[0].Title, tasks[1].Title, tasks[2].Title}
	want := []string{"newest", "middle", "oldest"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestListTasks_ScopedToOwner(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	svc.CreateTask(db, alice, "alice task", nil)
	svc.CreateTask(db, bob, "bob task", nil)

	tasks, err := svc.ListTasks(db, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "alice task" {
		t.Errorf("expected only alice's task, got %+v", tasks)
	}
}

func TestUpdateTask_PartialPatch(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	desc := "original description"
	task, _ := svc.CreateTask(db, userID, "original", &desc)

	newTitle := "renamed"
	updated, err := svc.UpdateTask(db, userID, task.ID, models.TaskPatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Title != "renamed" {
		t.Errorf("expected title updated, got %q", updated.Title)
	}
	if updated.Description == nil || *updated.Description != "original description" {
		t.Error("untouched fields must survive a partial patch")
	}
	if updated.CreatedAt != task.CreatedAt {
		t.Error("created_at is immutable")
	}
}

func TestUpdateTask_ClearDescription(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	desc := "to be removed"
	task, _ := svc.CreateTask(db, userID, "task", &desc)

	empty := ""
	updated, err := svc.UpdateTask(db, userID, task.ID, models.TaskPatch{Description: &empty})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != nil {
		t.Error("an empty description patch must clear the field to absent")
	}
}

func TestUpdateTask_CrossOwnerIsNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	alice := uuid.Must(uuid.NewV4())
	bob := uuid.Must(uuid.NewV4())

	task, _ := svc.CreateTask(db, alice, "alice task", nil)

	title := "stolen"
	_, err := svc.UpdateTask(db, bob, task.ID, models.TaskPatch{Title: &title})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("cross-owner access must read as not found, got %v", err)
	}
}

func TestSetCompleted_Idempotent(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	task, _ := svc.CreateTask(db, userID, "task", nil)

	for i := 0; i < 2; i++ {
		updated, err := svc.SetCompleted(db, userID, task.ID, true)
		if err != nil {
			t.Fatalf("complete call %d failed: %v", i+1, err)
		}
		if !updated.IsCompleted {
			t.Fatalf("expected is_completed true on call %d", i+1)
		}
	}

	for i := 0; i < 2; i++ {
		updated, err := svc.SetCompleted(db, userID, task.ID, false)
		if err != nil {
			t.Fatalf("uncomplete call %d failed: %v", i+1, err)
		}
		if updated.IsCompleted {
			t.Fatalf("expected is_completed false on call %d", i+1)
		}
	}
}

func TestDeleteTask(t *testing.T) {
	db := testDB(t)
	svc := NewTaskService()
	userID := uuid.Must(uuid.NewV4())

	task, _ := svc.CreateTask(db, userID, "doomed", nil)

	if err := svc.DeleteTask(db, userID, task.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteTask(db, userID, task.ID); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("deleting a missing task must be not found, got %v", err)
	}

	tasks, _ := svc.ListTasks(db, userID)
	if len(tasks) != 0 {
		t.Errorf("expected an empty list after delete, got %d tasks", len(tasks))
	}
}
