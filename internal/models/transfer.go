package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"schedpay/internal/calendar"
)

// Transfer is a scheduled bank transfer and the fee charged for it.
type Transfer struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OriginAccount      string          `gorm:"size:64;not null;index" json:"originAccount"`
	DestinationAccount string          `gorm:"size:64;not null;index" json:"destinationAccount"`
	Amount             decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"amount"`
	ScheduledDate      calendar.Date   `gorm:"type:date;not null;index" json:"scheduledDate"`
	Fee                decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"fee"`
	FeeRule            string          `gorm:"size:8;not null" json:"feeRule"`
	CreatedAt          time.Time       `gorm:"not null;index" json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func (Transfer) TableName() string { return "transfers" }

// BeforeCreate assigns an identity when the caller did not.
func (t *Transfer) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
