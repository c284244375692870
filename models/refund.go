package models

import "time"

type RefundStatus string

const (
	RefundStatusInitiated RefundStatus = "INITIATED"
	RefundStatusSuccess   RefundStatus = "SUCCESS"
	RefundStatusFailed    RefundStatus = "FAILED"
)

type Refund struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	PaymentID uint     `gorm:"uniqueIndex;not null" json:"payment_id"` // at most one refund per payment
	Payment   *Payment `gorm:"foreignKey:PaymentID" json:"-"`

	Amount           float64      `gorm:"type:numeric(10,2)" json:"amount"` // copied from the payment
	Status           RefundStatus `gorm:"type:VARCHAR(10)" json:"status"`
	ProviderRefundID string       `json:"provider_refund_id"`
	CreatedAt        time.Time    `json:"created_at"`
}
