package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase holds a user's spendable point balance. One row per user.
type Purchase struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Points    int       `gorm:"not null;check:points >= 0" json:"points"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Purchase) TableName() string { return "purchase" }

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
