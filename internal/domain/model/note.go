package model

import "time"

// Note is one entry in the per-deployment note log. Notes live in a single
// flat collection keyed by creation time.
type Note struct {
	Text      string    `json:"text"`
	UserID    string    `json:"uid"`
	CreatedAt time.Time `json:"created_at"`
}
