package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecret   string `envconfig:"JWT_SECRET" required:"true"`
	FrontendURL string `envconfig:"FRONTEND_URL" default:"http://localhost:5173"`

	// When true, a successful payment never moves an order backwards:
	// orders already past CONFIRMED keep their status.
	StrictConfirm bool `envconfig:"PAYMENT_STRICT_CONFIRM" default:"false"`

	Paytm Paytm
}

// Paytm holds the gateway merchant credentials. The merchant key stays
// server-side; it is never written to logs or responses.
type Paytm struct {
	MerchantID   string `envconfig:"PAYTM_MERCHANT_ID"`
	MerchantKey  string `envconfig:"PAYTM_MERCHANT_KEY"`
	Website      string `envconfig:"PAYTM_WEBSITE" default:"WEBSTAGING"`
	ChannelID    string `envconfig:"PAYTM_CHANNEL_ID" default:"WEB"`
	IndustryType string `envconfig:"PAYTM_INDUSTRY_TYPE" default:"Retail"`
	CallbackURL  string `envconfig:"PAYTM_CALLBACK_URL"`
	GatewayURL   string `envconfig:"PAYTM_GATEWAY_URL" default:"https://securegw-stage.paytm.in"`
}

func (p Paytm) Configured() bool {
	return p.MerchantID != "" && p.MerchantKey != ""
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &cfg, nil
}

// FrontendCallback builds an absolute frontend URL for redirect targets,
// e.g. FrontendCallback("/paytm-callback?status=SUCCESS&orderId=1").
func (c *Config) FrontendCallback(path string) string {
	return c.FrontendURL + path
}
