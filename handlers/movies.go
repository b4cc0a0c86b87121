package handlers

import (
	"net/http"
	"strconv"

	"Reelgo/models"
	"Reelgo/services"

	"github.com/go-chi/chi/v5"
)

type movieRequest struct {
	Title        string       `json:"title" validate:"required"`
	Overview     string       `json:"overview"`
	ReleaseDate  *models.Date `json:"release_date"`
	VoteAverage  float64      `json:"vote_average" validate:"gte=0,lte=10"`
	VoteCount    int          `json:"vote_count" validate:"gte=0"`
	Runtime      int          `json:"runtime" validate:"gte=0"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path"`
	TMDBID       *int64       `json:"tmdb_id"`
	IMDBID       *string      `json:"imdb_id"`
	GenreIDs     []int64      `json:"genre_ids"`
}

func (req movieRequest) toInput() services.MovieInput {
	return services.MovieInput{
		Title:        req.Title,
		Overview:     req.Overview,
		ReleaseDate:  req.ReleaseDate,
		VoteAverage:  req.VoteAverage,
		VoteCount:    req.VoteCount,
		Runtime:      req.Runtime,
		PosterPath:   req.PosterPath,
		BackdropPath: req.BackdropPath,
		TMDBID:       req.TMDBID,
		IMDBID:       req.IMDBID,
	}
}

type movieListResponse struct {
	Count   int            `json:"count"`
	Results []models.Movie `json:"results"`
}

func ListMoviesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := services.MovieFilters{
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	if filters.Search == "" {
		filters.Search = q.Get("q")
	}
	if yearStr := q.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeValidationError(w, map[string]string{"year": "must be an integer"})
			return
		}
		filters.Year = year
	}

	movies, err := services.GetMovies(r.Context(), filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movieListResponse{Count: len(movies), Results: movies})
}

// SearchMoviesHandler is the keyword/genre search endpoint. It reuses the
// list composition with the default ordering.
func SearchMoviesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := services.MovieFilters{
		Search: q.Get("q"),
		Genre:  q.Get("genre"),
	}

	movies, err := services.GetMovies(r.Context(), filters)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, movieListResponse{Count: len(movies), Results: movies})
}

func GetMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	movie, err := services.GetMovieByID(r.Context(), movieID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func CreateMovieHandler(w http.ResponseWriter, r *http.Request) {
	var req movieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, err := services.CreateCatalogMovie(r.Context(), req.toInput(), req.GenreIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, movie)
}

func UpdateMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req movieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, err := services.UpdateMovie(r.Context(), movieID, req.toInput(), req.GenreIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

func DeleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := services.DeleteMovie(r.Context(), movieID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses an integer URL parameter, writing the validation error
// itself on failure.
func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeValidationError(w, map[string]string{param: "must be an integer"})
		return 0, false
	}
	return id, true
}
