package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment status values. An enrollment moves forward only:
// not_started -> in_progress -> completed.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type Module struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Description     string
	CoreValue       string // category tag: clean_air, clean_water, zero_waste, ...
	DurationMinutes int
	XPReward        int
	Content         datatypes.JSON `gorm:"type:jsonb"` // lesson structure from the module builder
}

type Enrollment struct {
	gorm.Model
	UserID           uint `gorm:"index;not null"`
	ModuleID         uint `gorm:"index;not null"`
	Module           Module
	Status           string `gorm:"default:not_started"`
	ProgressPct      float64
	XPEarned         int
	TimeSpentMinutes float64
	StartedAt        *time.Time
	CompletedAt      *time.Time
	PurchasedAt      *time.Time
}
