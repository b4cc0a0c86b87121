package handlers

import (
	"net/http"

	"Reelgo/services"
)

type genreRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func ListGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := services.GetGenres(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genres)
}

func GetGenreHandler(w http.ResponseWriter, r *http.Request) {
	genreID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	genre, err := services.GetGenreByID(r.Context(), genreID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func CreateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req genreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	genre, err := services.CreateGenre(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, genre)
}

func UpdateGenreHandler(w http.ResponseWriter, r *http.Request) {
	genreID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req genreRequest
	if !decodeBody(w, r, &req) {
		return
	}

	genre, err := services.UpdateGenre(r.Context(), genreID, req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, genre)
}

func DeleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	genreID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := services.DeleteGenre(r.Context(), genreID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
