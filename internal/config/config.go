package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime knob of the storefront. Business constants that
// changed across the shop's history (cart increment, shipping rule, delivery
// window) are configuration, not literals.
type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	DatabaseDSN    string        `envconfig:"DATABASE_DSN" required:"true"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	CORSAllowOrigins []string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`

	// AuthJWTSecret verifies tokens minted by the external auth provider.
	// Empty means every caller is treated as a guest.
	AuthJWTSecret string   `envconfig:"AUTH_JWT_SECRET"`
	AdminEmails   []string `envconfig:"ADMIN_EMAILS"`

	// StoreWhatsApp is the shop's own number, the target of checkout handoffs.
	// CustomerPhonePrefix is prepended to customer numbers on admin tickets.
	StoreWhatsApp       string `envconfig:"STORE_WHATSAPP" default:"522215306435"`
	CustomerPhonePrefix string `envconfig:"CUSTOMER_PHONE_PREFIX" default:"52"`

	FreeShippingThreshold float64 `envconfig:"FREE_SHIPPING_THRESHOLD" default:"100"`
	ShippingFee           float64 `envconfig:"SHIPPING_FEE" default:"30"`
	CartStep              float64 `envconfig:"CART_STEP" default:"0.25"`

	PrepMargin        time.Duration `envconfig:"PREP_MARGIN" default:"45m"`
	DeliveryOpenHour  int           `envconfig:"DELIVERY_OPEN_HOUR" default:"8"`
	DeliveryCloseHour int           `envconfig:"DELIVERY_CLOSE_HOUR" default:"19"`
	DeliverySlotStep  time.Duration `envconfig:"DELIVERY_SLOT_STEP" default:"30m"`

	OrderBoardLimit int `envconfig:"ORDER_BOARD_LIMIT" default:"20"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.CartStep <= 0 {
		return fmt.Errorf("CART_STEP must be positive, got %v", c.CartStep)
	}
	if c.DeliveryOpenHour < 0 || c.DeliveryCloseHour > 23 || c.DeliveryOpenHour >= c.DeliveryCloseHour {
		return fmt.Errorf("invalid delivery window %d-%d", c.DeliveryOpenHour, c.DeliveryCloseHour)
	}
	if c.DeliverySlotStep <= 0 {
		return fmt.Errorf("DELIVERY_SLOT_STEP must be positive, got %v", c.DeliverySlotStep)
	}
	if c.OrderBoardLimit <= 0 {
		return fmt.Errorf("ORDER_BOARD_LIMIT must be positive, got %d", c.OrderBoardLimit)
	}
	return nil
}
