package paytmControllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
	"github.com/amitrajwar906/celebrationpoint-backend/models"
	"github.com/amitrajwar906/celebrationpoint-backend/paytm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Order{}, &models.OrderItem{},
		&models.Payment{}, &models.Refund{}, &models.AuditLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		FrontendURL: "http://localhost:5173",
		Paytm: config.Paytm{
			MerchantID:   "TESTMID",
			MerchantKey:  "testkey",
			Website:      "WEBSTAGING",
			ChannelID:    "WEB",
			IndustryType: "Retail",
			GatewayURL:   "https://securegw-stage.paytm.in",
		},
	}
}

func seedPendingOrderWithPayment(t *testing.T, db *gorm.DB) (*models.Order, *models.Payment) {
	t.Helper()
	user := models.User{FullName: "Buyer", Email: "buyer@example.com", Password: "x", Role: models.RoleUser, Active: true}
	require.NoError(t, db.Create(&user).Error)
	order := models.Order{
		OrderRef:    "ref-" + strings.ReplaceAll(t.Name(), "/", "_"),
		UserID:      user.ID,
		TotalAmount: 250,
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)
	payment := models.Payment{
		OrderID: order.ID, Amount: 250,
		Method: models.PaymentMethodOnline, Provider: "PAYTM",
		Status: models.PaymentStatusInitiated,
	}
	require.NoError(t, db.Create(&payment).Error)
	return &order, &payment
}

func postCallback(t *testing.T, db *gorm.DB, cfg *config.Config, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/paytm/callback", CallbackHandler(db, cfg))

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	req := httptest.NewRequest(http.MethodPost, "/paytm/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signedParams(cfg *config.Config, orderID uint, status, txnID string) map[string]string {
	params := map[string]string{
		"MID":        cfg.Paytm.MerchantID,
		"CUST_ID":    fmt.Sprint(orderID),
		"STATUS":     status,
		"TXNID":      txnID,
		"BANKTXNID":  "BANK-" + txnID,
		"TXN_AMOUNT": "250.00",
	}
	params["CHECKSUMHASH"] = paytm.Checksum(cfg.Paytm.MerchantKey, params)
	return params
}

func TestCallbackSuccessConfirmsOrder(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	order, payment := seedPendingOrderWithPayment(t, db)

	w := postCallback(t, db, cfg, signedParams(cfg, order.ID, "TXN_SUCCESS", "TXN-1"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=SUCCESS")

	var gotPayment models.Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusSuccess, gotPayment.Status)
	assert.Equal(t, "TXN-1", gotPayment.TransactionID)
	assert.Equal(t, "BANK-TXN-1", gotPayment.ProviderPaymentID)

	var gotOrder models.Order
	require.NoError(t, db.First(&gotOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusConfirmed, gotOrder.Status)
}

func TestCallbackFailureMarksPaymentFailed(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	order, payment := seedPendingOrderWithPayment(t, db)

	w := postCallback(t, db, cfg, signedParams(cfg, order.ID, "TXN_FAILURE", "TXN-2"))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "status=FAILED")

	var gotPayment models.Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusFailed, gotPayment.Status)

	// A failed attempt does not cancel the order.
	var gotOrder models.Order
	require.NoError(t, db.First(&gotOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, gotOrder.Status)
}

func TestCallbackRejectsBadChecksum(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	order, payment := seedPendingOrderWithPayment(t, db)

	params := signedParams(cfg, order.ID, "TXN_SUCCESS", "TXN-3")
	params["TXN_AMOUNT"] = "1.00" // tampered after signing

	w := postCallback(t, db, cfg, params)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var gotPayment models.Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusInitiated, gotPayment.Status)
}

func TestCallbackRejectsMissingChecksum(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	order, _ := seedPendingOrderWithPayment(t, db)

	params := signedParams(cfg, order.ID, "TXN_SUCCESS", "TXN-4")
	delete(params, "CHECKSUMHASH")

	w := postCallback(t, db, cfg, params)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackReplayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	order, payment := seedPendingOrderWithPayment(t, db)

	params := signedParams(cfg, order.ID, "TXN_SUCCESS", "TXN-5")
	w := postCallback(t, db, cfg, params)
	assert.Equal(t, http.StatusFound, w.Code)

	// A replayed failure callback must not undo the settled payment; the
	// gateway just gets its redirect again.
	failure := signedParams(cfg, order.ID, "TXN_FAILURE", "TXN-6")
	w = postCallback(t, db, cfg, failure)
	assert.Equal(t, http.StatusFound, w.Code)

	var gotPayment models.Payment
	require.NoError(t, db.First(&gotPayment, payment.ID).Error)
	assert.Equal(t, models.PaymentStatusSuccess, gotPayment.Status)
	assert.Equal(t, "TXN-5", gotPayment.TransactionID)

	var successAudits int64
	require.NoError(t, db.Model(&models.AuditLog{}).Where("action = ?", "PAYMENT_SUCCESS").Count(&successAudits).Error)
	assert.EqualValues(t, 1, successAudits)
}

func TestCallbackUnconfiguredGateway(t *testing.T) {
	db := newTestDB(t)
	cfg := testConfig()
	cfg.Paytm.MerchantKey = ""

	w := postCallback(t, db, cfg, map[string]string{"STATUS": "TXN_SUCCESS"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransactionParamsAreSigned(t *testing.T) {
	cfg := testConfig()
	params := paytm.TransactionParams(cfg.Paytm, 42, "250.00", "buyer@example.com", "9876543210")

	assert.Equal(t, "TESTMID", params["MID"])
	assert.Equal(t, "42", params["CUST_ID"])
	assert.Equal(t, "250.00", params["TXN_AMOUNT"])
	assert.True(t, strings.HasPrefix(params["ORDER_ID"], "ORDER-42-"))
	assert.True(t, paytm.VerifyChecksum("testkey", params, params["CHECKSUMHASH"]))
}
