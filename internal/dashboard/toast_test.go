package dashboard

import (
	"testing"
	"time"
)

func TestToastCenter_AutoDismiss(t *testing.T) {
	center := NewToastCenter(20 * time.Millisecond)
	center.Success("saved")

	if len(center.Active()) != 1 {
		t.Fatalf("expected one active toast, got %d", len(center.Active()))
	}

	deadline := time.After(500 * time.Millisecond)
	for len(center.Active()) > 0 {
		select {
		case <-deadline:
			t.Fatal("toast was not auto-dismissed")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestToastCenter_ManualDismiss(t *testing.T) {
	center := NewToastCenter(time.Hour)
	center.Error("failed")
	center.Success("ok")

	active := center.Active()
	if len(active) != 2 {
		t.Fatalf("expected two toasts, got %d", len(active))
	}

	center.Dismiss(active[0].ID)

	remaining := center.Active()
	if len(remaining) != 1 || remaining[0].Message != "ok" {
		t.Errorf("expected only the second toast to remain, got %+v", remaining)
	}

	// Dismissing again is a no-op.
	center.Dismiss(active[0].ID)
	if len(center.Active()) != 1 {
		t.Error("repeat dismissal must not remove other toasts")
	}
}

func TestToastCenter_LevelsPreserved(t *testing.T) {
	center := NewToastCenter(time.Hour)
	center.Success("a")
	center.Error("b")

	active := center.Active()
	if active[0].Level != ToastSuccess || active[1].Level != ToastError {
		t.Errorf("expected levels preserved in order, got %+v", active)
	}
}
