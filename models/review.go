package models

import "time"

type Review struct {
	ID         int64     `json:"id"`
	MovieID    int64     `json:"movie"`
	MovieTitle string    `json:"movie_title"`
	Username   string    `json:"user"`
	UserID     int64     `json:"-"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
