package handlers

import (
	"net/http"
	"strconv"

	"Reelgo/models"
	"Reelgo/services"
)

var importer *services.Importer

// InitImporter wires the import pipelines into the handlers at boot.
func InitImporter(i *services.Importer) {
	importer = i
}

type importMovieRequest struct {
	TMDBID int64 `json:"tmdb_id" validate:"required,gt=0"`
}

type importMovieResponse struct {
	Message string        `json:"message"`
	Movie   *models.Movie `json:"movie"`
}

// ImportMovieHandler pulls one movie from the TMDB provider by id.
func ImportMovieHandler(w http.ResponseWriter, r *http.Request) {
	var req importMovieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	movie, created, err := importer.ImportMovieFromTMDB(r.Context(), req.TMDBID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Movie exists"
	if created {
		message = "Movie imported"
	}
	writeJSON(w, http.StatusOK, importMovieResponse{Message: message, Movie: movie})
}

// ImportIMDBHandler runs the bulk import and reports what it did. An
// unreachable upstream still answers 200 with the failure reason in the
// summary.
func ImportIMDBHandler(w http.ResponseWriter, r *http.Request) {
	summary := importer.ImportAllFromIMDB(r.Context())
	writeJSON(w, http.StatusOK, summary)
}

// ImportPopularHandler merges one page of the popular feed into the catalog.
func ImportPopularHandler(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		parsed, err := strconv.Atoi(pageStr)
		if err != nil || parsed < 1 {
			writeValidationError(w, map[string]string{"page": "must be a positive integer"})
			return
		}
		page = parsed
	}

	summary := importer.ImportPopularFromTMDB(r.Context(), page)
	writeJSON(w, http.StatusOK, summary)
}

// SearchImportCandidatesHandler searches the TMDB provider so callers can
// find the id to import.
func SearchImportCandidatesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeValidationError(w, map[string]string{"q": "must not be empty"})
		return
	}

	candidates, err := importer.SearchTMDB(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}
