package handlers

import (
	"context"
	"net/http"

	"Reelgo/middleware"
	"Reelgo/models"
	"Reelgo/services"
)

type listAddRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}

// The watchlist and favorites endpoints are the same handlers parameterized
// by the service functions they call.
type listService struct {
	list   func(ctx context.Context, userID int64) ([]models.ListEntry, error)
	add    func(ctx context.Context, userID, movieID int64) (*models.ListEntry, error)
	remove func(ctx context.Context, userID, movieID int64) error
}

var watchlistService = listService{
	list:   services.GetWatchlist,
	add:    services.AddToWatchlist,
	remove: services.RemoveFromWatchlist,
}

var favoritesService = listService{
	list:   services.GetFavorites,
	add:    services.AddToFavorites,
	remove: services.RemoveFromFavorites,
}

func ListWatchlistHandler(w http.ResponseWriter, r *http.Request) { listHandler(w, r, watchlistService) }

func AddWatchlistHandler(w http.ResponseWriter, r *http.Request) { addHandler(w, r, watchlistService) }

func RemoveWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	removeHandler(w, r, watchlistService)
}

func ListFavoritesHandler(w http.ResponseWriter, r *http.Request) { listHandler(w, r, favoritesService) }

func AddFavoriteHandler(w http.ResponseWriter, r *http.Request) { addHandler(w, r, favoritesService) }

func RemoveFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	removeHandler(w, r, favoritesService)
}

func listHandler(w http.ResponseWriter, r *http.Request, svc listService) {
	user := middleware.CurrentUser(r)
	entries, err := svc.list(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func addHandler(w http.ResponseWriter, r *http.Request, svc listService) {
	var req listAddRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user := middleware.CurrentUser(r)
	entry, err := svc.add(r.Context(), user.ID, req.MovieID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func removeHandler(w http.ResponseWriter, r *http.Request, svc listService) {
	movieID, ok := pathID(w, r, "movieID")
	if !ok {
		return
	}

	user := middleware.CurrentUser(r)
	if err := svc.remove(r.Context(), user.ID, movieID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
