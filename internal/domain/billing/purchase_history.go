package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	KindCredit = "credit"
	KindDebit  = "debit"
)

const (
	ReasonSignup   = "signup"
	ReasonPurchase = "purchase"
	ReasonChannel  = "channel_run"
)

type PurchaseHistory struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PurchaseID uuid.UUID  `gorm:"type:uuid;index;not null" json:"purchase_id"`
	Purchase   *Purchase  `gorm:"constraint:OnDelete:CASCADE;foreignKey:PurchaseID;references:ID" json:"-"`
	Amount     float64    `gorm:"not null" json:"amount"`
	Kind       string     `gorm:"not null;size:16" json:"kind"`
	Reason     string     `gorm:"size:64" json:"reason"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Channel    *string    `gorm:"size:32" json:"channel,omitempty"`
	PaymentRef *string    `gorm:"size:128;uniqueIndex" json:"payment_ref,omitempty"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (PurchaseHistory) TableName() string { return "purchase_history" }

func (h *PurchaseHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
