// internal/storage/database.go
package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // Driver registration

	"querydesk/config"
)

// ConnectPromptDB initializes the connection pool for the local prompt history
// SQLite database and ensures the 'prompts' table exists.
func ConnectPromptDB(cfg *config.Config) (*sql.DB, error) {
	dbPath := filepath.Join(cfg.PromptDbDir, cfg.PromptDbFile)
	log.Printf("Storage: Initializing prompt history database: %s", dbPath)

	// Ensure the data directory exists
	if err := os.MkdirAll(cfg.PromptDbDir, 0750); err != nil {
		log.Printf("Storage: Error creating data directory '%s': %v", cfg.PromptDbDir, err)
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		log.Printf("Storage: Failed to open prompt db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to open prompt db: %w", err)
	}

	// Verify connection is working
	if err = db.Ping(); err != nil {
		db.Close()
		log.Printf("Storage: Failed to ping prompt db '%s': %v", dbPath, err)
		return nil, fmt.Errorf("failed to connect to prompt db: %w", err)
	}

	createPromptsTableSQL := `
	CREATE TABLE IF NOT EXISTS prompts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL UNIQUE,
		db_type TEXT NOT NULL,
		use_count INTEGER NOT NULL DEFAULT 1,
		last_used_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err = db.Exec(createPromptsTableSQL); err != nil {
		db.Close()
		log.Printf("Storage: Failed to create prompts table: %v", err)
		return nil, fmt.Errorf("failed to ensure prompts table: %w", err)
	}
	log.Println("Storage: Prompts table ensured.")

	return db, nil
}
