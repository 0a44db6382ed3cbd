package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	statepkg "github.com/kk-code-lab/rcomments/internal/state"
	_ "modernc.org/sqlite"
)

const timeFormat = time.RFC3339Nano

const schema = `
CREATE TABLE IF NOT EXISTS comments (
    position INTEGER PRIMARY KEY,
    record   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS sync_state (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// SQLiteSource serves comments cached in a SQLite database. Each row keeps
// one comment's raw JSON so records round-trip without a fixed schema.
type SQLiteSource struct {
	path  string
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the cache database at path.
func OpenSQLite(path string) (*SQLiteSource, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	sqlDB, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteSource{path: cleanPath, sqlDB: sqlDB}, nil
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.path }

// Close closes the underlying SQLite database.
func (s *SQLiteSource) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Fetch returns the cached comments in their saved order. An empty cache
// yields an empty list.
func (s *SQLiteSource) Fetch(ctx context.Context) (statepkg.FetchCommentsAction, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT record FROM comments ORDER BY position`)
	if err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("query comments: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	comments := []statepkg.Comment{}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return statepkg.FetchCommentsAction{}, fmt.Errorf("scan comment: %w", err)
		}
		var comment statepkg.Comment
		if err := json.Unmarshal([]byte(record), &comment); err != nil {
			return statepkg.FetchCommentsAction{}, fmt.Errorf("decode cached comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return statepkg.FetchCommentsAction{}, fmt.Errorf("iterate comments: %w", err)
	}

	action := statepkg.FetchCommentsAction{
		Payload: &statepkg.CommentsPayload{Data: comments},
	}
	if syncedAt, err := s.SyncedAt(ctx); err == nil {
		action.At = syncedAt
	}
	return action, nil
}

// Save replaces the cached comments with comments in one transaction.
func (s *SQLiteSource) Save(ctx context.Context, comments []statepkg.Comment, syncedAt time.Time) (err error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM comments`); err != nil {
		return fmt.Errorf("clear comments: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO comments (position, record) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, comment := range comments {
		record, marshalErr := json.Marshal(comment)
		if marshalErr != nil {
			err = fmt.Errorf("encode comment %d: %w", i, marshalErr)
			return err
		}
		if _, err = stmt.ExecContext(ctx, i, string(record)); err != nil {
			return fmt.Errorf("insert comment %d: %w", i, err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sync_state (key, value) VALUES ('synced_at', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		syncedAt.UTC().Format(timeFormat),
	); err != nil {
		return fmt.Errorf("record sync time: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// SyncedAt reports when Save last ran.
func (s *SQLiteSource) SyncedAt(ctx context.Context) (time.Time, error) {
	var value string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM sync_state WHERE key = 'synced_at'`).Scan(&value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(timeFormat, value)
}
