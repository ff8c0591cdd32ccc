package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GameSession tracks a game in progress or a finished one.
type GameSession struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username  string    `json:"username" gorm:"size:100;not null;index"`
	Score     int       `json:"score" gorm:"not null;default:0"`
	Mode      GameMode  `json:"mode" gorm:"type:varchar(20);not null"`
	IsLive    bool      `json:"isLive" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate sets UUID before creating the record.
func (s *GameSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
