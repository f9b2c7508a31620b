package models

import "gorm.io/gorm"

// Migrate runs schema migration for every relational model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&Plan{},
		&Subscription{},
		&ConversionEvent{},
		&FormSubmission{},
		&DeployRecord{},
		&DailyStat{},
	)
}

// CreateDefaultPlans seeds the plan table on first boot.
func CreateDefaultPlans(db *gorm.DB) error {
	defaultPlans := []Plan{
		{
			Name:            "free",
			Description:     "One landing page on the shared platform domain",
			PriceCents:      0,
			MaxLPs:          1,
			CustomDomain:    false,
			TrackingEnabled: true,
		},
		{
			Name:            "pro",
			Description:     "Custom domain, five landing pages and form relay",
			PriceCents:      2900, // $29
			MaxLPs:          5,
			CustomDomain:    true,
			TrackingEnabled: true,
			FormRelay:       true,
			DisplayPrice:    "$29",
			Recommended:     true,
		},
		{
			Name:            "agency",
			Description:     "Unlimited landing pages for agencies managing many clients",
			PriceCents:      9900, // $99
			MaxLPs:          100,
			CustomDomain:    true,
			TrackingEnabled: true,
			FormRelay:       true,
			DisplayPrice:    "$99",
		},
	}

	for _, plan := range defaultPlans {
		var existing Plan
		if err := db.Where("name = ?", plan.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&plan).Error; err != nil {
			return err
		}
	}
	return nil
}
