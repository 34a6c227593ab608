// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post represents a text post in the Quill application. Title and Body are
// stored as sanitized plain text; markdown rendering happens at display time.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	AuthorID  uint      `gorm:"not null;index" json:"-"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// PostView is a post enriched for a particular viewer: the author's public
// identity is embedded, the raw author id is stripped from the payload, and
// IsVisitorOwner is derived per request and never persisted.
type PostView struct {
	ID             uint       `json:"id"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	BodyHTML       string     `json:"body_html,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Author         PublicUser `json:"author"`
	IsVisitorOwner bool       `json:"is_visitor_owner"`
}
