package models

import (
	"time"

	"gorm.io/gorm"
)

// Client represents a dashboard account owning one or more landing pages.
// The ClientKey matches the tenant's content folder name.
type Client struct {
	gorm.Model

	ClientKey    string `gorm:"uniqueIndex;not null" json:"client_key"`
	Name         string `json:"name"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Account status
	IsActive bool `gorm:"default:true" json:"is_active"`

	// NotifyEmail receives relayed contact-form submissions.
	NotifyEmail string `json:"notify_email,omitempty"`

	// Plan information
	PlanID   *uint  `json:"plan_id,omitempty"`
	PlanName string `gorm:"default:'free'" json:"plan_name"` // free, pro, agency

	// Stripe integration
	StripeCustomerID *string `gorm:"index" json:"stripe_customer_id,omitempty"`

	// RepoToken is an AES-encrypted contents-API token for tenants that
	// deploy to their own repository instead of the platform one.
	RepoToken string `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	Subscriptions []Subscription `gorm:"foreignKey:ClientID" json:"subscriptions,omitempty"`
	Deploys       []DeployRecord `gorm:"foreignKey:ClientID" json:"deploys,omitempty"`
}
