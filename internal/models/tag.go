package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag names are unique across the whole system; the creator is recorded
// but does not scope lookups.
type Tag struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"creator_id"`
	Creator     *User     `gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
