package models

import (
	"time"
)

// Comment is embedded in its post's comment list. Username is free text, not a
// validated User reference; comments are append-only and are removed only when
// the whole post is deleted.
type Comment struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	ImageURL string `json:"image_url,omitempty"`
}

// Post is a document-style record: the category tag list and the embedded
// comment sequence live on the row as JSON columns rather than join tables.
//
// AccountName is a snapshot of the author's display name taken at creation
// time; it is never re-synced when the author later renames themselves.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ImagePost   string    `json:"image_post"`
	AccountID   uint      `gorm:"not null;index" json:"account_id"`
	AccountName string    `gorm:"size:241" json:"account_name"`
	Categories  []string  `gorm:"serializer:json" json:"categories"`
	TemplateID  uint      `json:"template_id"`
	Comments    []Comment `gorm:"serializer:json" json:"comments"`
	ViewsCount  int64     `gorm:"not null;default:0" json:"views_count"`
	ReportCount int64     `gorm:"not null;default:0" json:"report_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PostDraft is the in-transit shape between the creation form and the template
// picker. It is never persisted: if the client abandons the picker the draft is
// lost, which is accepted behavior.
type PostDraft struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ImagePost   string   `json:"image_post"`
	AccountID   uint     `json:"account_id"`
	AccountName string   `json:"account_name"`
	Categories  []string `json:"categories"`
}
