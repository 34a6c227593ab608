// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Follow is a directed edge meaning "visitor follows followed". The composite
// unique index enforces the no-duplicate-edge invariant at the store level,
// so concurrent check-then-act follows cannot create a second edge.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_edge" json:"followed_id"`
	VisitorID  uint      `gorm:"not null;uniqueIndex:idx_follow_edge;index" json:"visitor_id"`
	CreatedAt  time.Time `json:"created_at"`

	Followed User `gorm:"foreignKey:FollowedID" json:"-"`
	Visitor  User `gorm:"foreignKey:VisitorID" json:"-"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
