package models

import "time"

// ListEntry is a row on a user's watchlist or favorites list. Both tables
// share the same shape so the services treat them uniformly.
type ListEntry struct {
	ID      int64     `json:"id"`
	UserID  int64     `json:"-"`
	Movie   *Movie    `json:"movie"`
	AddedAt time.Time `json:"added_at"`
}
