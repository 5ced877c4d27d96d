// Package models contains data structures for the application's domain records.
package models

import (
	"time"
)

// User represents a registered author account. Email doubles as the login key;
// the distinguished administrator is identified by a reserved email address in
// configuration, not by a role flag on this record.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	FirstName    string    `gorm:"size:120;not null" json:"first_name"`
	LastName     string    `gorm:"size:120;not null" json:"last_name"`
	Address      string    `json:"address"`
	PhoneNumber  string    `gorm:"size:32" json:"phone_number"`
	Occupation   string    `gorm:"size:120" json:"occupation"`
	Email        string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"not null" json:"-"`
	ImageProfile string    `json:"image_profile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName is the "First Last" form snapshotted onto posts at creation time.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}
