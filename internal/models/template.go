package models

import "time"

// Template is a named visual layout an author picks during post creation.
// Read-only reference data: rows come from seeding, never from the web routes.
type Template struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}
