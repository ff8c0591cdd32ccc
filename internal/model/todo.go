package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TodoStatus represents the lifecycle state of a TODO item.
type TodoStatus string

const (
	TodoStatusPending  TodoStatus = "pending"
	TodoStatusResolved TodoStatus = "resolved"
)

// Todo is a tracked work item with an optional due date.
// ResolvedAt is set if and only if Status is resolved.
type Todo struct {
	ID          uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Description *string    `json:"description" gorm:"type:text"`
	DueDate     *time.Time `json:"due_date" gorm:"index"`
	Status      TodoStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// BeforeCreate sets UUID and the initial status before creating the record.
func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TodoStatusPending
	}
	return nil
}

// MarkResolved moves a pending item to resolved. It reports false and leaves
// the item untouched when it is already resolved.
func (t *Todo) MarkResolved(now time.Time) bool {
	if t.Status != TodoStatusPending {
		return false
	}
	t.Status = TodoStatusResolved
	t.ResolvedAt = &now
	return true
}

// MarkPending moves a resolved item back to pending, clearing ResolvedAt.
func (t *Todo) MarkPending() bool {
	if t.Status != TodoStatusResolved {
		return false
	}
	t.Status = TodoStatusPending
	t.ResolvedAt = nil
	return true
}

// IsOverdue reports whether a pending item's due date has passed.
func (t *Todo) IsOverdue(now time.Time) bool {
	if t.Status != TodoStatusPending || t.DueDate == nil {
		return false
	}
	return t.DueDate.Before(now)
}

// Valid reports whether s is a known status.
func (s TodoStatus) Valid() bool {
	return s == TodoStatusPending || s == TodoStatusResolved
}
