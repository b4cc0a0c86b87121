package main

import (
	"log"
	"log/slog"
	"net/http"

	"Reelgo/config"
	"Reelgo/database"
	"Reelgo/handlers"
	"Reelgo/logger"
	"Reelgo/middleware"
	"Reelgo/services"

	"github.com/go-chi/chi/v5"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.Debug)

	slog.Info("Initializing Reelgo components...")

	// Initialize session store
	services.InitSessionStore(cfg)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed admin user and baseline genres
	if err := database.SeedAdminUser(); err != nil {
		log.Fatal("Failed to seed admin user:", err)
	}
	if err := database.SeedDefaultGenres(); err != nil {
		log.Fatal("Failed to seed genres:", err)
	}

	// Wire the import pipelines
	tmdb := services.NewTMDBService(cfg)
	imdb := services.NewIMDBService(cfg)
	handlers.InitImporter(services.NewImporter(tmdb, imdb, services.Catalog()))

	// Setup routes
	r := chi.NewRouter()
	r.Use(middleware.Logging)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public reads
		r.Get("/movies", handlers.ListMoviesHandler)
		r.Get("/movies/{id}", handlers.GetMovieHandler)
		r.Get("/movies/{id}/reviews", handlers.ListReviewsHandler)
		r.Get("/genres", handlers.ListGenresHandler)
		r.Get("/genres/{id}", handlers.GetGenreHandler)
		r.Get("/reviews/{id}", handlers.GetReviewHandler)
		r.Get("/search", handlers.SearchMoviesHandler)

		// Auth
		r.Post("/auth/register", handlers.RegisterHandler)
		r.Post("/auth/login", handlers.LoginHandler)
		r.Post("/auth/logout", handlers.LogoutHandler)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Post("/movies", handlers.CreateMovieHandler)
			r.Put("/movies/{id}", handlers.UpdateMovieHandler)
			r.Delete("/movies/{id}", handlers.DeleteMovieHandler)

			r.Post("/genres", handlers.CreateGenreHandler)
			r.Put("/genres/{id}", handlers.UpdateGenreHandler)
			r.Delete("/genres/{id}", handlers.DeleteGenreHandler)

			r.Post("/movies/{id}/reviews", handlers.CreateReviewHandler)
			r.Put("/reviews/{id}", handlers.UpdateReviewHandler)
			r.Delete("/reviews/{id}", handlers.DeleteReviewHandler)

			r.Get("/watchlist", handlers.ListWatchlistHandler)
			r.Post("/watchlist", handlers.AddWatchlistHandler)
			r.Delete("/watchlist/{movieID}", handlers.RemoveWatchlistHandler)

			r.Get("/favorites", handlers.ListFavoritesHandler)
			r.Post("/favorites", handlers.AddFavoriteHandler)
			r.Delete("/favorites/{movieID}", handlers.RemoveFavoriteHandler)

			r.Get("/movies/import/search", handlers.SearchImportCandidatesHandler)
			r.Post("/movies/import", handlers.ImportMovieHandler)
			r.Post("/import-imdb", handlers.ImportIMDBHandler)
			r.Post("/import-popular", handlers.ImportPopularHandler)
		})
	})

	addr := ":" + cfg.ServerPort
	slog.Info("Reelgo is starting", "addr", addr, "env", cfg.Environment, "debug", cfg.Debug)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("FATAL: Server failed to start: %v", err)
	}
}
