// internal/storage/prompt_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Specific errors for prompt history operations
var (
	ErrEmptyPrompt = errors.New("prompt text is empty")
)

// Prompt is one remembered query with its usage bookkeeping.
type Prompt struct {
	ID         int64
	Text       string
	DBType     string
	UseCount   int
	LastUsedAt time.Time
}

// SavePrompt records a submitted query for later recall. Resubmitting the same
// text bumps its use count and recency instead of inserting a duplicate row.
func SavePrompt(ctx context.Context, db *sql.DB, text string, dbType string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyPrompt
	}
	sqlStatement := `
	INSERT INTO prompts (text, db_type) VALUES (?, ?)
	ON CONFLICT(text) DO UPDATE SET
		use_count = use_count + 1,
		db_type = excluded.db_type,
		last_used_at = CURRENT_TIMESTAMP`
	_, err := db.ExecContext(ctx, sqlStatement, text, dbType)
	if err != nil {
		log.Printf("Storage: Failed to save prompt: %v", err)
		return fmt.Errorf("database error saving prompt: %w", err)
	}
	return nil
}

// RecentPrompts returns up to limit prompts, most recently used first.
func RecentPrompts(ctx context.Context, db *sql.DB, limit int) ([]Prompt, error) {
	sqlStatement := `
	SELECT id, text, db_type, use_count, last_used_at
	FROM prompts
	ORDER BY last_used_at DESC, id DESC
	LIMIT ?`
	rows, err := db.QueryContext(ctx, sqlStatement, limit)
	if err != nil {
		log.Printf("Storage: Failed to query recent prompts: %v", err)
		return nil, fmt.Errorf("database error listing prompts: %w", err)
	}
	defer rows.Close()

	var prompts []Prompt
	for rows.Next() {
		var p Prompt
		if err := rows.Scan(&p.ID, &p.Text, &p.DBType, &p.UseCount, &p.LastUsedAt); err != nil {
			log.Printf("Storage: Failed to scan prompt row: %v", err)
			return nil, fmt.Errorf("database error scanning prompt: %w", err)
		}
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database error iterating prompts: %w", err)
	}
	return prompts, nil
}

// PrunePrompts deletes everything but the keep most recently used prompts so
// the history file stays small.
func PrunePrompts(ctx context.Context, db *sql.DB, keep int) error {
	sqlStatement := `
	DELETE FROM prompts WHERE id NOT IN (
		SELECT id FROM prompts ORDER BY last_used_at DESC, id DESC LIMIT ?
	)`
	_, err := db.ExecContext(ctx, sqlStatement, keep)
	if err != nil {
		log.Printf("Storage: Failed to prune prompts: %v", err)
		return fmt.Errorf("database error pruning prompts: %w", err)
	}
	return nil
}
