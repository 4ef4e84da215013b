package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Email              string `gorm:"unique;not null"`
	PasswordHash       string `gorm:"not null" json:"-"`
	FullName           string
	Role               string `gorm:"default:user"` // user, admin, corporate_admin
	CorporateAccountID *uint
}
