package refundControllers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

// Create opens a refund for a successful payment and marks the payment
// REFUNDED, on the caller's transaction. The payment_id unique index
// rejects a second refund for the same payment.
func Create(tx *gorm.DB, payment *models.Payment, performedBy, role, ip string) (*models.Refund, error) {
	var existing models.Refund
	if err := tx.Where("payment_id = ?", payment.ID).First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("Refund already initiated for this payment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	refund := models.Refund{
		PaymentID: payment.ID,
		Amount:    payment.Amount,
		Status:    models.RefundStatusInitiated,
	}
	if err := tx.Create(&refund).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("Refund already initiated for this payment")
		}
		return nil, err
	}

	oldStatus := payment.Status
	payment.Status = models.PaymentStatusRefunded
	if err := tx.Save(payment).Error; err != nil {
		return nil, err
	}

	if err := audit.Log(tx, audit.Entry{
		Action:      "REFUND_INITIATED",
		EntityType:  "REFUND",
		EntityID:    refund.ID,
		OldValue:    string(oldStatus),
		NewValue:    string(models.RefundStatusInitiated),
		PerformedBy: performedBy,
		Role:        role,
		IPAddress:   ip,
	}); err != nil {
		return nil, err
	}
	return &refund, nil
}

// InitiateRefund refunds a cancelled order whose online payment
// succeeded. Any other combination is an illegal transition.
func InitiateRefund(db *gorm.DB, orderID uint, performedBy, role, ip string) (*models.Refund, error) {
	var refund *models.Refund
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Order not found")
			}
			return err
		}
		if order.Status != models.OrderStatusCancelled {
			return apperr.InvalidState("Order is not cancelled")
		}

		var payment models.Payment
		if err := tx.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Payment not found for this order")
			}
			return err
		}
		if payment.Status != models.PaymentStatusSuccess {
			return apperr.InvalidState("Payment is not successful, refund not allowed")
		}

		var err error
		refund, err = Create(tx, &payment, performedBy, role, ip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return refund, nil
}

// MarkRefundSuccess is a terminal transition with no further side effects.
func MarkRefundSuccess(db *gorm.DB, refundID uint, providerRefundID string) error {
	var refund models.Refund
	if err := db.First(&refund, refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Refund not found")
		}
		return err
	}

	refund.Status = models.RefundStatusSuccess
	refund.ProviderRefundID = providerRefundID
	return db.Save(&refund).Error
}

// MarkRefundFailed is a terminal transition with no further side effects.
func MarkRefundFailed(db *gorm.DB, refundID uint) error {
	var refund models.Refund
	if err := db.First(&refund, refundID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Refund not found")
		}
		return err
	}

	refund.Status = models.RefundStatusFailed
	return db.Save(&refund).Error
}
