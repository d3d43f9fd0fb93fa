// internal/storage/prompt_repo_test.go
package storage

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querydesk/config"
)

func newTestPromptDB(t *testing.T) *sql.DB {
	t.Helper()
	cfg := &config.Config{
		PromptDbDir:  t.TempDir(),
		PromptDbFile: "prompts_test.db",
	}
	db, err := ConnectPromptDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSavePromptRejectsBlankText(t *testing.T) {
	db := newTestPromptDB(t)
	err := SavePrompt(context.Background(), db, "   \n", "postgresql")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestRecentPromptsMostRecentFirst(t *testing.T) {
	db := newTestPromptDB(t)
	ctx := context.Background()

	require.NoError(t, SavePrompt(ctx, db, "count students", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "list teachers", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "show enrollments", "mysql"))

	prompts, err := RecentPrompts(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, prompts, 3)
	assert.Equal(t, "show enrollments", prompts[0].Text)
	assert.Equal(t, "list teachers", prompts[1].Text)
	assert.Equal(t, "count students", prompts[2].Text)
	assert.Equal(t, "mysql", prompts[0].DBType)
}

func TestSavePromptDeduplicatesByText(t *testing.T) {
	db := newTestPromptDB(t)
	ctx := context.Background()

	require.NoError(t, SavePrompt(ctx, db, "count students", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "list teachers", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "count students", "supabase"))

	prompts, err := RecentPrompts(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, prompts, 2)

	byText := map[string]Prompt{}
	for _, p := range prompts {
		byText[p.Text] = p
	}
	assert.Equal(t, 2, byText["count students"].UseCount)
	assert.Equal(t, "supabase", byText["count students"].DBType)
	assert.Equal(t, 1, byText["list teachers"].UseCount)
}

func TestRecentPromptsHonorsLimit(t *testing.T) {
	db := newTestPromptDB(t)
	ctx := context.Background()

	require.NoError(t, SavePrompt(ctx, db, "one", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "two", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "three", "postgresql"))

	prompts, err := RecentPrompts(ctx, db, 2)
	require.NoError(t, err)
	require.Len(t, prompts, 2)
	assert.Equal(t, "three", prompts[0].Text)
	assert.Equal(t, "two", prompts[1].Text)
}

func TestPrunePromptsKeepsMostRecent(t *testing.T) {
	db := newTestPromptDB(t)
	ctx := context.Background()

	require.NoError(t, SavePrompt(ctx, db, "one", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "two", "postgresql"))
	require.NoError(t, SavePrompt(ctx, db, "three", "postgresql"))

	require.NoError(t, PrunePrompts(ctx, db, 1))

	prompts, err := RecentPrompts(ctx, db, 10)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	assert.Equal(t, "three", prompts[0].Text)
}
