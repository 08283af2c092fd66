package dashboard

import (
	"sync"
	"time"
)

type ToastLevel int

const (
	ToastSuccess ToastLevel = iota
	ToastError
)

type Toast struct {
	ID        int
	Level     ToastLevel
	Message   string
	CreatedAt time.Time
}

const DefaultToastTTL = 4 * time.Second

// ToastCenter is a Notifier that auto-dismisses toasts after a TTL while
// always allowing manual dismissal.
type ToastCenter struct {
	mu     sync.Mutex
	toasts []Toast
	timers map[int]*time.Timer
	nextID int
	ttl    time.Duration
}

func NewToastCenter(ttl time.Duration) *ToastCenter {
	if ttl <= 0 {
		ttl = DefaultToastTTL
	}
	return &ToastCenter{
		timers: make(map[int]*time.Timer),
		ttl:    ttl,
	}
}

func (t *ToastCenter) Success(message string) {
	t.push(ToastSuccess, message)
}

func (t *ToastCenter) Error(message string) {
	t.push(ToastError, message)
}

func (t *ToastCenter) push(level ToastLevel, message string) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.toasts = append(t.toasts, Toast{
		ID:        id,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	t.timers[id] = time.AfterFunc(t.ttl, func() {
		t.Dismiss(id)
	})
	t.mu.Unlock()
}

// Dismiss removes a toast by id; safe to call after auto-dismissal.
func (t *ToastCenter) Dismiss(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if timer, exists := t.timers[id]; exists {
		timer.Stop()
		delete(t.timers, id)
	}

	for i, toast := range t.toasts {
		if toast.ID == id {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			break
		}
	}
}

func (t *ToastCenter) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	active := make([]Toast, len(t.toasts))
	copy(active, t.toasts)
	return active
}
