package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan represents a hosting tier a client can subscribe to.
type Plan struct {
	gorm.Model
	Name        string `gorm:"not null;uniqueIndex" json:"name"` // free, pro, agency
	Description string `json:"description"`

	PriceCents int `gorm:"not null" json:"price_cents"`

	// Features
	MaxLPs          int  `gorm:"default:1" json:"max_lps"`
	CustomDomain    bool `gorm:"default:false" json:"custom_domain"`
	TrackingEnabled bool `gorm:"default:true" json:"tracking_enabled"`
	FormRelay       bool `gorm:"default:false" json:"form_relay"`

	// For display purposes
	DisplayPrice string `gorm:"-" json:"display_price"` // e.g. "$29"
	Recommended  bool   `gorm:"default:false" json:"recommended"`

	StripePriceID   string `json:"stripe_price_id"`                           // price_xxx from Stripe dashboard
	BillingInterval string `json:"billing_interval" gorm:"default:'monthly'"` // monthly, yearly
}

// Subscription links a client to a plan through Stripe.
type Subscription struct {
	gorm.Model
	ClientID uint `gorm:"not null;index" json:"client_id"`
	PlanID   uint `gorm:"not null" json:"plan_id"`

	Status               string `gorm:"default:'pending'" json:"status"` // pending, active, canceled
	StripeSubscriptionID string `gorm:"index" json:"stripe_subscription_id,omitempty"`
	StripePaymentIntent  string `json:"stripe_payment_intent,omitempty"`

	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
}
