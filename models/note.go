package models

import "time"

type Note struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
	IsArchived bool      `json:"isArchived"`
	// HTML is the rendered form of Text, filled in by the handler on single
	// reads and exports. Never stored.
	HTML string `json:"html,omitempty"`
}
