package models

import (
	"time"

	"gorm.io/gorm"
)

// ConversionEvent is one first-party conversion beacon fired from a
// rendered landing page.
type ConversionEvent struct {
	gorm.Model

	EventID        string `gorm:"uniqueIndex;not null" json:"event_id"`
	ClientKey      string `gorm:"index;not null" json:"client_key"`
	LPKey          string `gorm:"index" json:"lp_key"`
	ConversionID   string `gorm:"index" json:"conversion_id"`
	ConversionType string `json:"conversion_type"`
	Destination    string `json:"destination"`
	SourceSection  string `json:"source_section"`

	Referrer  string `json:"referrer,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
}

// FormSubmission stores a contact-form post before and after relay.
type FormSubmission struct {
	gorm.Model

	ClientKey string `gorm:"index;not null" json:"client_key"`
	LPKey     string `gorm:"index" json:"lp_key"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Message   string `json:"message"`

	RelayedAt  *time.Time `json:"relayed_at,omitempty"`
	RelayError string     `json:"relay_error,omitempty"`
}

// Deploy job lifecycle states.
const (
	DeployStatusQueued    = "queued"
	DeployStatusRunning   = "running"
	DeployStatusCompleted = "completed"
	DeployStatusFailed    = "failed"
)

// DeployRecord tracks one save-and-deploy job committing JSON documents
// to the remote content store.
type DeployRecord struct {
	gorm.Model

	JobID     string `gorm:"uniqueIndex;not null" json:"job_id"`
	ClientID  uint   `gorm:"index" json:"client_id"`
	ClientKey string `gorm:"index;not null" json:"client_key"`
	Status    string `gorm:"default:'queued'" json:"status"`
	FileCount int    `json:"file_count"`
	CommitSHA string `json:"commit_sha,omitempty"`
	Message   string `json:"message"`
	Error     string `json:"error,omitempty"`

	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// DailyStat is an aggregated per-day conversion count, maintained by the
// stats worker so dashboard reads avoid scanning raw events.
type DailyStat struct {
	gorm.Model

	ClientKey      string    `gorm:"index:idx_daily_stat,unique;not null" json:"client_key"`
	Day            time.Time `gorm:"index:idx_daily_stat,unique" json:"day"`
	ConversionType string    `gorm:"index:idx_daily_stat,unique" json:"conversion_type"`
	Count          int64     `json:"count"`
}
