package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofrs/uuid"
)

const (
	TitleMinLength = 1
	TitleMaxLength = 200
)

var (
	ErrTitleEmpty   = errors.New("title must not be empty")
	ErrTitleTooLong = errors.New("title must be at most 200 characters")
)

type Task struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description *string   `json:"description,omitempty"`
	IsCompleted bool      `json:"is_completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch is a partial task update. Nil fields are left unchanged; a
// present-but-empty description clears it.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	IsCompleted *bool   `json:"is_completed,omitempty"`
}

// NormalizeTitle trims surrounding whitespace and enforces the 1-200
// character bound. The bound counts characters, not bytes, so multibyte
// titles are not penalized. Both the client and the server validate
// through this.
func NormalizeTitle(title string) (string, error) {
	trimmed := strings.TrimSpace(title)
	length := utf8.RuneCountInString(trimmed)
	if length < TitleMinLength {
		return "", ErrTitleEmpty
	}
	if length > TitleMaxLength {
		return "", ErrTitleTooLong
	}
	return trimmed, nil
}

// NormalizeDescription maps empty or whitespace-only input to the absent
// value so "no description" is never stored as an empty string.
func NormalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
