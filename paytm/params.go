package paytm

import (
	"fmt"
	"time"

	"github.com/amitrajwar906/celebrationpoint-backend/config"
)

// TransactionParams builds the signed parameter set POSTed to the Paytm
// gateway when redirecting a customer.
func TransactionParams(cfg config.Paytm, orderID uint, amount, email, phone string) map[string]string {
	params := map[string]string{
		"MID":              cfg.MerchantID,
		"ORDER_ID":         fmt.Sprintf("ORDER-%d-%d", orderID, time.Now().UnixMilli()),
		"CUST_ID":          fmt.Sprintf("%d", orderID),
		"TXN_AMOUNT":       amount,
		"CHANNEL_ID":       cfg.ChannelID,
		"WEBSITE":          cfg.Website,
		"INDUSTRY_TYPE_ID": cfg.IndustryType,
		"CALLBACK_URL":     cfg.CallbackURL,
		"EMAIL":            email,
		"MOBILE_NO":        phone,
	}
	params[checksumField] = Checksum(cfg.MerchantKey, params)
	return params
}
