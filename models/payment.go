package models

import "time"

type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "ONLINE"
	PaymentMethodCOD    PaymentMethod = "COD"
)

type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "INITIATED" // online payment started
	PaymentStatusSuccess   PaymentStatus = "SUCCESS"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"

	PaymentStatusCodPending PaymentStatus = "COD_PENDING" // awaiting collection at delivery
	PaymentStatusCodPaid    PaymentStatus = "COD_PAID"
)

// Terminal reports whether no further gateway transition applies.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed ||
		s == PaymentStatusRefunded || s == PaymentStatusCodPaid
}

type Payment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID uint   `gorm:"uniqueIndex;not null" json:"order_id"` // at most one payment per order
	Order   *Order `gorm:"foreignKey:OrderID" json:"-"`

	Amount            float64       `gorm:"type:numeric(10,2)" json:"amount"`
	Method            PaymentMethod `gorm:"type:VARCHAR(10)" json:"method"`
	Status            PaymentStatus `gorm:"type:VARCHAR(15)" json:"status"`
	Provider          string        `json:"provider"`
	ProviderPaymentID string        `json:"provider_payment_id"`
	TransactionID     string        `json:"transaction_id"`
	CreatedAt         time.Time     `json:"created_at"`
}
