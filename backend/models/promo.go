package models

import (
	"time"

	"gorm.io/gorm"
)

type PromoCode struct {
	gorm.Model
	Code           string `gorm:"unique;not null"`
	DiscountPct    int
	ModuleID       *uint // nil means valid for any module
	MaxRedemptions int
	Redeemed       int `gorm:"default:0"`
	ExpiresAt      *time.Time
}

// Redeemable reports whether the code can still be applied at the given time.
func (p *PromoCode) Redeemable(now time.Time) bool {
	if p.ExpiresAt != nil && now.After(*p.ExpiresAt) {
		return false
	}
	if p.MaxRedemptions > 0 && p.Redeemed >= p.MaxRedemptions {
		return false
	}
	return true
}
