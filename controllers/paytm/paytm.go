package paytmControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/audit"
	"github.com/amitrajwar906/celebrationpoint-backend/config"
	"github.com/amitrajwar906/celebrationpoint-backend/events"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
	"github.com/amitrajwar906/celebrationpoint-backend/paytm"
	paymentControllers "github.com/amitrajwar906/celebrationpoint-backend/controllers/payment"
)

type InitiateRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// POST /paytm/initiate
//
// Opens an ONLINE payment for the order and returns the signed parameter
// set the frontend posts to the Paytm gateway. The checksum is computed
// here; the merchant key never reaches the client.
func InitiateHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Paytm.Configured() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Paytm gateway is not configured"})
			return
		}

		var req InitiateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		userEmail := middleware.Email(c)

		var user models.User
		if err := db.Where("email = ?", userEmail).First(&user).Error; err != nil {
			apperr.Respond(c, apperr.NotFound("User not found"))
			return
		}

		payment, err := paymentControllers.InitiatePayment(db, req.OrderID, "PAYTM", userEmail, audit.ClientIP(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		phone := user.Phone
		if phone == "" {
			phone = "9999999999"
		}
		params := paytm.TransactionParams(cfg.Paytm, req.OrderID, amountString(payment.Amount), userEmail, phone)

		c.JSON(http.StatusOK, gin.H{
			"payment_id":   payment.ID,
			"order_id":     req.OrderID,
			"amount":       amountString(payment.Amount),
			"paytm_params": params,
		})
	}
}

// POST /paytm/callback  (public webhook)
//
// The checksum is the only thing that authenticates this request: on any
// mismatch we fail closed and touch nothing. Replays of a payment that
// already reached a terminal state only re-issue the redirect.
func CallbackHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Paytm.Configured() {
			apperr.Respond(c, apperr.Verification("Paytm gateway is not configured"))
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed callback"})
			return
		}
		params := make(map[string]string, len(c.Request.PostForm))
		for k := range c.Request.PostForm {
			params[k] = c.Request.PostForm.Get(k)
		}

		received := params["CHECKSUMHASH"]
		if received == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Checksum missing in callback"})
			return
		}
		if !paytm.VerifyChecksum(cfg.Paytm.MerchantKey, params, received) {
			apperr.Respond(c, apperr.Verification("Checksum verification failed"))
			return
		}

		orderIDStr := params["CUST_ID"]
		txnStatus := params["STATUS"]
		txnID := params["TXNID"]
		bankTxnID := params["BANKTXNID"]
		if orderIDStr == "" || txnStatus == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback parameters"})
			return
		}

		log.WithFields(log.Fields{
			"order_id": orderIDStr,
			"status":   txnStatus,
			"txn_id":   txnID,
		}).Info("paytm callback")

		orderID, err := parseID(orderIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback parameters"})
			return
		}

		success := txnStatus == "TXN_SUCCESS"
		err = db.Transaction(func(tx *gorm.DB) error {
			var order models.Order
			if err := tx.First(&order, orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("Order not found in callback")
				}
				return err
			}

			var payment models.Payment
			if err := tx.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFound("Payment not found in callback")
				}
				return err
			}

			// Replayed callback: the payment already settled, nothing to apply.
			if payment.Status.Terminal() {
				return nil
			}

			oldStatus := payment.Status
			oldOrderStatus := order.Status

			if success {
				payment.Status = models.PaymentStatusSuccess
				payment.TransactionID = txnID
				if bankTxnID != "" {
					payment.ProviderPaymentID = bankTxnID
				} else {
					payment.ProviderPaymentID = txnID
				}
				if err := tx.Save(&payment).Error; err != nil {
					return err
				}

				order.Status = models.OrderStatusConfirmed
				if err := tx.Save(&order).Error; err != nil {
					return err
				}

				if err := audit.Log(tx, audit.Entry{
					Action:      "PAYMENT_SUCCESS",
					EntityType:  "PAYMENT",
					EntityID:    payment.ID,
					OldValue:    string(oldStatus),
					NewValue:    string(models.PaymentStatusSuccess),
					PerformedBy: "PAYTM",
					Role:        "GATEWAY",
					IPAddress:   audit.ClientIP(c),
				}); err != nil {
					return err
				}
				return audit.Log(tx, audit.Entry{
					Action:      "ORDER_CONFIRMED_AFTER_PAYMENT",
					EntityType:  "ORDER",
					EntityID:    order.ID,
					OldValue:    string(oldOrderStatus),
					NewValue:    string(models.OrderStatusConfirmed),
					PerformedBy: "PAYTM",
					Role:        "GATEWAY",
					IPAddress:   audit.ClientIP(c),
				})
			}

			payment.Status = models.PaymentStatusFailed
			payment.TransactionID = txnID
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}
			return audit.Log(tx, audit.Entry{
				Action:      "PAYMENT_FAILED",
				EntityType:  "PAYMENT",
				EntityID:    payment.ID,
				OldValue:    string(oldStatus),
				NewValue:    string(models.PaymentStatusFailed),
				PerformedBy: "PAYTM",
				Role:        "GATEWAY",
				IPAddress:   audit.ClientIP(c),
			})
		})
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		if success {
			events.PublishOrderStatus(orderID, models.OrderStatusConfirmed)
			c.Redirect(http.StatusFound, cfg.FrontendCallback("/paytm-callback?status=SUCCESS&orderId="+orderIDStr))
			return
		}
		c.Redirect(http.StatusFound, cfg.FrontendCallback("/paytm-callback?status=FAILED&orderId="+orderIDStr))
	}
}

// GET /paytm/gateway-url
func GatewayURLHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"gateway_url": cfg.Paytm.GatewayURL + "/order/process"})
	}
}
