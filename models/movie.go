package models

import "time"

type Genre struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Movie struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Overview      string    `json:"overview"`
	ReleaseDate   *Date     `json:"release_date"`
	VoteAverage   float64   `json:"vote_average"`
	VoteCount     int       `json:"vote_count"`
	PosterPath    string    `json:"poster_path"`
	BackdropPath  string    `json:"backdrop_path"`
	Runtime       int       `json:"runtime"`
	Genres        []Genre   `json:"genres"`
	TMDBID        *int64    `json:"tmdb_id"`
	IMDBID        *string   `json:"imdb_id"`
	AverageRating *float64  `json:"average_rating"`
	ReviewCount   int       `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
