package orderControllers

import (
	"fmt"
	"strings"
	"testing"
	"time"

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
		&models.User{}, &models.Category{}, &models.Product{},
		&models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Payment{}, &models.Refund{}, &models.AuditLog{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{FullName: "Test Buyer", Email: email, Password: "x", Role: models.RoleUser, Active: true}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

// seedCart fills the user's cart with lines at the given snapshot prices
// and quantities.
func seedCart(t *testing.T, db *gorm.DB, userID uint, lines ...models.CartItem) {
	t.Helper()
	cart := models.Cart{UserID: userID}
	require.NoError(t, db.Create(&cart).Error)
	for i := range lines {
		lines[i].CartID = cart.CartID
		lines[i].AddedAt = time.Now()
		require.NoError(t, db.Create(&lines[i]).Error)
	}
}

func shippingRequest(method string) CheckoutRequest {
	return CheckoutRequest{
		PaymentMethod: method,
		FullName:      "Test Buyer",
		Phone:         "9876543210",
		AddressLine:   "12 Main Street",
		City:          "Pune",
		State:         "MH",
		PostalCode:    "411001",
	}
}

func TestCheckoutTotalFromSnapshots(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	product := models.Product{Name: "Balloons", Price: 99.0, Active: true}
	require.NoError(t, db.Create(&product).Error)
	seedCart(t, db, user.ID,
		models.CartItem{ProductID: product.ID, ProductName: "Balloons", Price: 10.0, Quantity: 2},
		models.CartItem{ProductID: product.ID + 100, ProductName: "Candles", Price: 5.0, Quantity: 3},
	)

	// Live catalog price is 99 but the snapshot says 10; totals follow
	// the snapshot.
	order, err := Checkout(db, user.ID, shippingRequest("ONLINE"), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 35.0, order.TotalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Balloons", order.Items[0].ProductName)
	assert.Equal(t, 10.0, order.Items[0].Price)

	// Cart is cleared atomically with order creation.
	var itemCount int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 0, itemCount)

	var log models.AuditLog
	require.NoError(t, db.Where("action = ?", "ORDER_CREATED").First(&log).Error)
	assert.Equal(t, "buyer@example.com", log.PerformedBy)
	assert.Equal(t, "127.0.0.1", log.IPAddress)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")

	_, err := Checkout(db, user.ID, shippingRequest("COD"), "127.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyCart))

	// A cart that exists but has no lines is just as empty.
	seedCart(t, db, user.ID)
	_, err = Checkout(db, user.ID, shippingRequest("COD"), "127.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindEmptyCart))
}

func TestCheckoutRejectsUnknownMethod(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")

	_, err := Checkout(db, user.ID, shippingRequest("UPI"), "127.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCheckoutCODConfirmsAndCreatesPayment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	seedCart(t, db, user.ID, models.CartItem{ProductID: 1, ProductName: "Cake", Price: 450.0, Quantity: 1})

	order, err := Checkout(db, user.ID, shippingRequest("cod"), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)

	var payment models.Payment
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentMethodCOD, payment.Method)
	assert.Equal(t, models.PaymentStatusCodPending, payment.Status)
	assert.Equal(t, 450.0, payment.Amount)
}

func TestCheckoutOnlineStaysPendingWithoutPayment(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	seedCart(t, db, user.ID, models.CartItem{ProductID: 1, ProductName: "Cake", Price: 450.0, Quantity: 1})

	order, err := Checkout(db, user.ID, shippingRequest("ONLINE"), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	var count int64
	require.NoError(t, db.Model(&models.Payment{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func seedOrder(t *testing.T, db *gorm.DB, userID uint, status models.OrderStatus) *models.Order {
	t.Helper()
	order := models.Order{
		OrderRef:    fmt.Sprintf("ref-%s-%d", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano()),
		UserID:      userID,
		TotalAmount: 100,
		Status:      status,
	}
	require.NoError(t, db.Create(&order).Error)
	return &order
}

func TestUserCancelPendingOrder(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusPending)

	actor := Actor{UserID: user.ID, Email: user.Email, Role: models.RoleUser, IP: "127.0.0.1"}
	require.NoError(t, Cancel(db, order.ID, actor))

	var got models.Order
	require.NoError(t, db.First(&got, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, got.Status)

	var log models.AuditLog
	require.NoError(t, db.Where("action = ?", "ORDER_CANCELLED").First(&log).Error)
	assert.Equal(t, string(models.OrderStatusPending), log.OldValue)
}

func TestUserCannotCancelShipped(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusShipped)

	actor := Actor{UserID: user.ID, Email: user.Email, Role: models.RoleUser}
	err := Cancel(db, order.ID, actor)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestAdminCanCancelShipped(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusShipped)

	actor := Actor{Email: "admin@example.com", Role: models.RoleAdmin}
	require.NoError(t, Cancel(db, order.ID, actor))
}

func TestNobodyCancelsDelivered(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")

	order := seedOrder(t, db, user.ID, models.OrderStatusDelivered)
	err := Cancel(db, order.ID, Actor{UserID: user.ID, Email: user.Email, Role: models.RoleUser})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))

	err = Cancel(db, order.ID, Actor{Email: "admin@example.com", Role: models.RoleAdmin})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestCancelAlreadyCancelled(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusCancelled)

	err := Cancel(db, order.ID, Actor{Email: "admin@example.com", Role: models.RoleAdmin})
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidState))
}

func TestUserCannotCancelOthersOrder(t *testing.T) {
	db := newTestDB(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	order := seedOrder(t, db, owner.ID, models.OrderStatusPending)

	err := Cancel(db, order.ID, Actor{UserID: other.ID, Email: other.Email, Role: models.RoleUser})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestCancelOpensRefundForPaidOnlineOrder(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusConfirmed)
	payment := models.Payment{
		OrderID: order.ID, Amount: 100,
		Method: models.PaymentMethodOnline, Provider: "PAYTM",
		Status: models.PaymentStatusSuccess,
	}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, Cancel(db, order.ID, Actor{UserID: user.ID, Email: user.Email, Role: models.RoleUser, IP: "127.0.0.1"}))

	var refund models.Refund
	require.NoError(t, db.Where("payment_id = ?", payment.ID).First(&refund).Error)
	assert.Equal(t, models.RefundStatusInitiated, refund.Status)
	assert.Equal(t, 100.0, refund.Amount)

	var got models.Payment
	require.NoError(t, db.First(&got, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusRefunded, got.Status)
}

func TestCancelCODOrderCreatesNoRefund(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusConfirmed)
	payment := models.Payment{
		OrderID: order.ID, Amount: 100,
		Method: models.PaymentMethodCOD, Provider: "COD",
		Status: models.PaymentStatusCodPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	require.NoError(t, Cancel(db, order.ID, Actor{UserID: user.ID, Email: user.Email, Role: models.RoleUser}))

	var count int64
	require.NoError(t, db.Model(&models.Refund{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateOrderStatusRejectsUnknownValue(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusConfirmed)

	_, err := UpdateOrderStatus(db, order.ID, "LOST", "admin@example.com", "127.0.0.1")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdateOrderStatusDeliveredSettlesCOD(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")
	order := seedOrder(t, db, user.ID, models.OrderStatusShipped)
	payment := models.Payment{
		OrderID: order.ID, Amount: 100,
		Method: models.PaymentMethodCOD, Provider: "COD",
		Status: models.PaymentStatusCodPending,
	}
	require.NoError(t, db.Create(&payment).Error)

	got, err := UpdateOrderStatus(db, order.ID, models.OrderStatusDelivered, "admin@example.com", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)

	var settled models.Payment
	require.NoError(t, db.First(&settled, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusCodPaid, settled.Status)

	var log models.AuditLog
	require.NoError(t, db.Where("action = ?", "ORDER_STATUS_CHANGED").First(&log).Error)
	assert.Equal(t, string(models.OrderStatusShipped), log.OldValue)
	assert.Equal(t, string(models.OrderStatusDelivered), log.NewValue)
}

func TestGetOrdersByUserNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "buyer@example.com")

	first := seedOrder(t, db, user.ID, models.OrderStatusPending)
	require.NoError(t, db.Model(first).Update("created_at", time.Now().Add(-time.Hour)).Error)
	second := seedOrder(t, db, user.ID, models.OrderStatusPending)

	orders, err := GetOrdersByUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}
