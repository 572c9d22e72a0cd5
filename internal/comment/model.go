// Package comment provides the comment domain model and data access.
package comment

import "time"

// Comment is a user-authored note attached to a campground.
type Comment struct {
	ID           int64     `json:"id"`
	CampgroundID int64     `json:"campground_id"`
	UserID       int64     `json:"user_id"`
	Author       string    `json:"author"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
