package invoiceControllers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/apperr"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Order{}, &models.OrderItem{}, &models.Payment{},
	))
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, paymentStatus models.PaymentStatus) *models.Order {
	t.Helper()
	user := models.User{FullName: "Buyer", Email: "buyer@example.com", Password: "x", Role: models.RoleUser, Active: true}
	require.NoError(t, db.Create(&user).Error)
	order := models.Order{
		OrderRef:    "ref-" + strings.ReplaceAll(t.Name(), "/", "_"),
		UserID:      user.ID,
		TotalAmount: 450,
		Status:      models.OrderStatusConfirmed,
		FullName:    "Buyer",
		Phone:       "9876543210",
		AddressLine: "12 Main Street",
		City:        "Pune",
		PostalCode:  "411001",
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Cake", Price: 450, Quantity: 1},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	payment := models.Payment{
		OrderID: order.ID, Amount: 450,
		Method: models.PaymentMethodOnline, Provider: "PAYTM",
		Status: paymentStatus,
	}
	require.NoError(t, db.Create(&payment).Error)
	return &order
}

func TestGenerateProducesPDF(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, models.PaymentStatusSuccess)

	buf, err := Generate(db, order.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(buf), "%PDF"))
}

func TestGenerateRejectsUnpaidOrder(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, models.PaymentStatusInitiated)

	_, err := Generate(db, order.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestGenerateAllowsCodPaid(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, models.PaymentStatusCodPaid)

	_, err := Generate(db, order.ID)
	assert.NoError(t, err)
}

func TestGenerateForUserChecksOwnership(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, models.PaymentStatusSuccess)

	_, err := GenerateForUser(db, order.ID, "buyer@example.com")
	assert.NoError(t, err)

	_, err = GenerateForUser(db, order.ID, "stranger@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestGenerateForUserOwnershipDecidedFirst(t *testing.T) {
	db := newTestDB(t)
	order := seedOrder(t, db, models.PaymentStatusInitiated)

	// A stranger probing an unpaid order gets Forbidden, not the
	// unpaid-order error, so payment state never leaks to non-owners.
	_, err := GenerateForUser(db, order.ID, "stranger@example.com")
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestGenerateUnknownOrder(t *testing.T) {
	db := newTestDB(t)
	_, err := Generate(db, 9999)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
