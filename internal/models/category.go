package models

import "time"

// Category is an admin-managed browsing rubric. Posts reference categories by
// NAME as free-form string tags; referential integrity with this table is
// deliberately not enforced.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
