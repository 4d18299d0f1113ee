// Package model defines database models and the JSON views built from them
package model

import "time"

type User struct {
	ID              string `gorm:"primaryKey;type:uuid"`
	FirstName       string `gorm:"size:250;not null"`
	LastName        string `gorm:"size:250;not null"`
	Email           string `gorm:"size:250;uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	IsEmailVerified bool   `gorm:"not null;default:false"`
	IsStaff         bool   `gorm:"not null;default:false"`
	IsSuperuser     bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
}

// FullName is used in reminder mails, last name first
func (u *User) FullName() string {
	return u.LastName + " " + u.FirstName
}
