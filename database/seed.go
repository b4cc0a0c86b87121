package database

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

func SeedAdminUser() error {
	adminUsername := getenv("ADMIN_USERNAME", "admin")
	adminPassword := getenv("ADMIN_PASSWORD", "")
	adminEmail := getenv("ADMIN_EMAIL", "admin@reelgo.local")

	// If no password is set, skip seeding (user should set ADMIN_PASSWORD)
	if adminPassword == "" {
		return nil
	}

	var count int
	err := DB.QueryRow("SELECT COUNT(*) FROM users WHERE username = $1", adminUsername).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin user: %w", err)
	}

	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = DB.Exec(
		"INSERT INTO users (username, email, password_hash, is_admin) VALUES ($1, $2, $3, $4)",
		adminUsername,
		adminEmail,
		string(hashedPassword),
		true,
	)
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	return nil
}

// SeedDefaultGenres ensures the common genre set exists so fresh installs can
// filter immediately without waiting for an import run.
func SeedDefaultGenres() error {
	defaultGenres := []string{
		"Action", "Adventure", "Animation", "Comedy", "Crime",
		"Documentary", "Drama", "Family", "Fantasy", "History",
		"Horror", "Music", "Mystery", "Romance", "Science Fiction",
		"Thriller", "War", "Western",
	}

	for _, name := range defaultGenres {
		_, err := DB.Exec(
			`INSERT INTO genres (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name,
		)
		if err != nil {
			return fmt.Errorf("failed to seed genre %s: %w", name, err)
		}
	}

	return nil
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
