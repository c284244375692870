package invoiceControllers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/middleware"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

func getOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("User").Preload("Items").First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Order not found")
		}
		return nil, err
	}
	return &order, nil
}

// ensurePaid rejects the order unless its payment settled (online
// SUCCESS or COD collected). Invoices never exist for unpaid orders.
func ensurePaid(db *gorm.DB, order *models.Order) error {
	var payment models.Payment
	if err := db.Where("order_id = ?", order.ID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Payment not found for order")
		}
		return err
	}

	paid := payment.Status == models.PaymentStatusSuccess || payment.Status == models.PaymentStatusCodPaid
	if !paid {
		return apperr.InvalidState("Invoice available only for paid orders")
	}
	return nil
}

// Generate renders the invoice PDF for a paid order.
func Generate(db *gorm.DB, orderID uint) ([]byte, error) {
	order, err := getOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if err := ensurePaid(db, order); err != nil {
		return nil, err
	}
	return renderPDF(order)
}

// GenerateForUser is the owner-checked variant. Ownership is decided
// before the payment is even looked at, so a non-owner learns nothing
// about the order's payment state.
func GenerateForUser(db *gorm.DB, orderID uint, email string) ([]byte, error) {
	order, err := getOrder(db, orderID)
	if err != nil {
		return nil, err
	}
	if order.User == nil || order.User.Email != email {
		return nil, apperr.Forbidden("You are not allowed to access this invoice")
	}
	if err := ensurePaid(db, order); err != nil {
		return nil, err
	}
	return renderPDF(order)
}

func renderPDF(order *models.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "CELEBRATION POINT")
	pdf.Ln(12)
	pdf.Cell(0, 10, "Invoice")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order ID: %d", order.ID))
	pdf.Ln(8)
	pdf.Cell(0, 8, "Name: "+order.FullName)
	pdf.Ln(8)
	pdf.Cell(0, 8, "Phone: "+order.Phone)
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Address: %s, %s, %s - %s", order.AddressLine, order.City, order.State, order.PostalCode))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "Items:")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	for _, item := range order.Items {
		pdf.Cell(0, 8, fmt.Sprintf("%s | Qty: %d | Price: %.2f", item.ProductName, item.Quantity, item.Price))
		pdf.Ln(8)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, fmt.Sprintf("Total Amount: %.2f", order.TotalAmount))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GET /user/orders/:order_id/invoice
func UserInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		data, err := GenerateForUser(db, uint(orderID), middleware.Email(c))
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", orderID))
		c.Data(http.StatusOK, "application/pdf", data)
	}
}

// GET /admin/orders/:order_id/invoice
func AdminInvoiceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("order_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		data, err := Generate(db, uint(orderID))
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%d.pdf", orderID))
		c.Data(http.StatusOK, "application/pdf", data)
	}
}
