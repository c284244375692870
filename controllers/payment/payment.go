package paymentControllers

import (
	"errors"

	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/events"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

// InitiatePayment opens an ONLINE payment for an order. The order_id
// unique index guarantees at most one payment per order even under
// concurrent initiation.
func InitiatePayment(db *gorm.DB, orderID uint, provider, userEmail, ip string) (*models.Payment, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Payment
		if err := tx.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
			return apperr.Duplicate("Payment already exists for this order")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		payment = models.Payment{
			OrderID:  order.ID,
			Amount:   order.TotalAmount,
			Method:   models.PaymentMethodOnline,
			Provider: provider,
			Status:   models.PaymentStatusInitiated,
		}
		if err := tx.Create(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Duplicate("Payment already exists for this order")
			}
			return err
		}

		return audit.Log(tx, audit.Entry{
			Action:      "PAYMENT_INITIATED",
			EntityType:  "PAYMENT",
			EntityID:    payment.ID,
			NewValue:    string(models.PaymentStatusInitiated),
			PerformedBy: userEmail,
			Role:        string(models.RoleUser),
			IPAddress:   ip,
		})
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// CreateCodPayment records a cash-on-delivery payment and confirms the
// order. It runs on the caller's transaction so checkout stays atomic.
func CreateCodPayment(tx *gorm.DB, order *models.Order, performedBy, ip string) (*models.Payment, error) {
	var existing models.Payment
	if err := tx.Where("order_id = ?", order.ID).First(&existing).Error; err == nil {
		return nil, apperr.Duplicate("Payment already exists for this order")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	payment := models.Payment{
		OrderID:  order.ID,
		Amount:   order.TotalAmount,
		Method:   models.PaymentMethodCOD,
		Provider: "COD",
		Status:   models.PaymentStatusCodPending,
	}
	if err := tx.Create(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Duplicate("Payment already exists for this order")
		}
		return nil, err
	}

	order.Status = models.OrderStatusConfirmed
	if err := tx.Save(order).Error; err != nil {
		return nil, err
	}

	if err := audit.Log(tx, audit.Entry{
		Action:      "COD_PAYMENT_CREATED",
		EntityType:  "PAYMENT",
		EntityID:    payment.ID,
		NewValue:    string(models.PaymentStatusCodPending),
		PerformedBy: performedBy,
		Role:        string(models.RoleUser),
		IPAddress:   ip,
	}); err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkPaymentSuccess finalizes a payment: COD moves to COD_PAID, ONLINE
// moves to SUCCESS and records the provider's payment id. The order is
// confirmed as a side effect; with strictConfirm set, an order that has
// already progressed past CONFIRMED is left where it is.
func MarkPaymentSuccess(db *gorm.DB, strictConfirm bool, paymentID uint, providerPaymentID, performedBy, role, ip string) error {
	var confirmedOrderID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Payment not found")
			}
			return err
		}

		oldStatus := payment.Status
		if payment.Method == models.PaymentMethodCOD {
			payment.Status = models.PaymentStatusCodPaid
		} else {
			payment.Status = models.PaymentStatusSuccess
			payment.ProviderPaymentID = providerPaymentID
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		var order models.Order
		if err := tx.First(&order, payment.OrderID).Error; err != nil {
			return err
		}
		oldOrderStatus := order.Status

		confirmOrder := true
		if strictConfirm && oldOrderStatus != models.OrderStatusPending {
			confirmOrder = false
		}
		if confirmOrder {
			order.Status = models.OrderStatusConfirmed
			if err := tx.Save(&order).Error; err != nil {
				return err
			}
			confirmedOrderID = order.ID
		}

		if err := audit.Log(tx, audit.Entry{
			Action:      "PAYMENT_SUCCESS",
			EntityType:  "PAYMENT",
			EntityID:    payment.ID,
			OldValue:    string(oldStatus),
			NewValue:    string(payment.Status),
			PerformedBy: performedBy,
			Role:        role,
			IPAddress:   ip,
		}); err != nil {
			return err
		}
		if !confirmOrder {
			return nil
		}
		return audit.Log(tx, audit.Entry{
			Action:      "ORDER_CONFIRMED_AFTER_PAYMENT",
			EntityType:  "ORDER",
			EntityID:    order.ID,
			OldValue:    string(oldOrderStatus),
			NewValue:    string(models.OrderStatusConfirmed),
			PerformedBy: performedBy,
			Role:        role,
			IPAddress:   ip,
		})
	})
	if err != nil {
		return err
	}
	if confirmedOrderID != 0 {
		events.PublishOrderStatus(confirmedOrderID, models.OrderStatusConfirmed)
	}
	return nil
}

// MarkPaymentFailed fails an ONLINE payment. COD payments cannot fail:
// after creation they only stay pending or get collected.
func MarkPaymentFailed(db *gorm.DB, paymentID uint, userEmail, ip string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var payment models.Payment
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("Payment not found")
			}
			return err
		}

		if payment.Method == models.PaymentMethodCOD {
			return apperr.InvalidOperation("COD payment cannot fail")
		}

		oldStatus := payment.Status
		payment.Status = models.PaymentStatusFailed
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		return audit.Log(tx, audit.Entry{
			Action:      "PAYMENT_FAILED",
			EntityType:  "PAYMENT",
			EntityID:    payment.ID,
			OldValue:    string(oldStatus),
			NewValue:    string(models.PaymentStatusFailed),
			PerformedBy: userEmail,
			Role:        string(models.RoleUser),
			IPAddress:   ip,
		})
	})
}

// GetPaymentByOrder returns the payment attached to an order.
func GetPaymentByOrder(db *gorm.DB, orderID uint) (*models.Payment, error) {
	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}

	var payment models.Payment
	if err := db.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Payment not found")
		}
		return nil, err
	}
	return &payment, nil
}
