package models

import "gorm.io/gorm"

type CorporateAccount struct {
	gorm.Model
	Name          string `gorm:"not null"`
	Industry      string
	EmployeeCount int
	Active        bool `gorm:"default:true"`
}

type Employee struct {
	gorm.Model
	CorporateAccountID uint `gorm:"index;not null"`
	UserID             uint `gorm:"index;not null"`
	JobTitle           string
}
