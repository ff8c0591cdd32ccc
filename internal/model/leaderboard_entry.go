package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnknownPlayer is recorded when a score is submitted without a username.
const UnknownPlayer = "Unknown"

// LeaderboardEntry is an append-only score record.
type LeaderboardEntry struct {
	ID       uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username string    `json:"username" gorm:"size:100;not null;index"`
	Score    int       `json:"score" gorm:"not null;index"`
	Mode     GameMode  `json:"mode" gorm:"type:varchar(20);not null;index"`
	Date     Date      `json:"date" gorm:"type:date;not null"`
	// CreatedAt breaks score ties in insertion order.
	CreatedAt time.Time `json:"-" gorm:"index"`
}

// BeforeCreate sets UUID before creating the record.
func (e *LeaderboardEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
