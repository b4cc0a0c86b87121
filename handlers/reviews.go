package handlers

import (
	"net/http"

	"Reelgo/middleware"
	"Reelgo/services"
)

type reviewRequest struct {
	Rating  int     `json:"rating" validate:"required,gte=1,lte=10"`
	Comment *string `json:"comment"`
}

func ListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// The movie must exist; an empty review list on a real movie is not 404.
	if _, err := services.GetMovieByID(r.Context(), movieID); err != nil {
		writeServiceError(w, err)
		return
	}

	reviews, err := services.GetReviewsForMovie(r.Context(), movieID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func CreateReviewHandler(w http.ResponseWriter, r *http.Request) {
	movieID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.CurrentUser(r)
	review, err := services.CreateReview(r.Context(), movieID, user.ID, req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func GetReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	review, err := services.GetReviewByID(r.Context(), reviewID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func UpdateReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.CurrentUser(r)
	review, err := services.UpdateReview(r.Context(), reviewID, user.ID, req.Rating, req.Comment)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

func DeleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(r)
	if err := services.DeleteReview(r.Context(), reviewID, user.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
