// Package store persists transfer results so that running transfers can be
// polled and past transfers listed.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jpp0ca/playlist-transfer/internal/domain"
	"github.com/jpp0ca/playlist-transfer/internal/ports"
)

//go:embed schema.sql
var schema string

// SQLiteStore implements ports.TransferStore on SQLite. Failed track records
// are kept as a JSON column.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.TransferStore = (*SQLiteStore)(nil)

// OpenSQLite opens the database at path, which may be ":memory:", and applies
// the schema.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is a separate database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save inserts or replaces the transfer row.
func (s *SQLiteStore) Save(ctx context.Context, r *domain.TransferResult) error {
	failed := r.FailedTracks
	if failed == nil {
		failed = []domain.FailedTrackRecord{}
	}
	records, err := json.Marshal(failed)
	if err != nil {
		return fmt.Errorf("failed to encode failed tracks: %w", err)
	}

	var completedAt any
	if r.CompletedAt != nil {
		completedAt = r.CompletedAt.UTC()
	}

	query := `
		INSERT OR REPLACE INTO transfers (
			id, user_id, source_provider, dest_provider, source_playlist_id,
			dest_playlist_id, dest_playlist_url, status, success, message,
			error_details, total_tracks, successful_tracks, failed_tracks,
			skipped_tracks, original_playlist_name, new_playlist_name,
			failed_track_records, started_at, completed_at, duration_ns, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		r.TransferID,
		r.UserID,
		r.SourceProvider,
		r.DestProvider,
		r.SourcePlaylistID,
		r.DestPlaylistID,
		r.DestPlaylistURL,
		string(r.Status),
		r.Success,
		r.Message,
		r.ErrorDetails,
		r.Statistics.TotalTracks,
		r.Statistics.SuccessfulTracks,
		r.Statistics.FailedTracks,
		r.Statistics.SkippedTracks,
		r.Statistics.OriginalPlaylistName,
		r.Statistics.NewPlaylistName,
		string(records),
		r.StartedAt.UTC(),
		completedAt,
		int64(r.Duration),
		s.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save transfer %s: %w", r.TransferID, err)
	}
	return nil
}

const selectColumns = `
	SELECT
		id, user_id, source_provider, dest_provider, source_playlist_id,
		dest_playlist_id, dest_playlist_url, status, success, message,
		error_details, total_tracks, successful_tracks, failed_tracks,
		skipped_tracks, original_playlist_name, new_playlist_name,
		failed_track_records, started_at, completed_at, duration_ns
	FROM transfers
`

func (s *SQLiteStore) Get(ctx context.Context, transferID string) (*domain.TransferResult, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", transferID)
	r, err := scanTransfer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, transferID)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// List returns a page of a user's transfers, newest first. An empty userID
// lists every transfer.
func (s *SQLiteStore) List(ctx context.Context, userID string, page, pageSize int) ([]domain.TransferResult, error) {
	offset, limit := pageBounds(page, pageSize)

	query := selectColumns
	args := []any{}
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY started_at DESC, id LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	out := []domain.TransferResult{}
	for rows.Next() {
		r, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row scanner) (*domain.TransferResult, error) {
	var (
		r             domain.TransferResult
		status        string
		destID, url   sql.NullString
		message       sql.NullString
		errorDetails  sql.NullString
		originalName  sql.NullString
		newName       sql.NullString
		records       string
		completedAt   sql.NullTime
		durationNanos int64
	)

	err := row.Scan(
		&r.TransferID,
		&r.UserID,
		&r.SourceProvider,
		&r.DestProvider,
		&r.SourcePlaylistID,
		&destID,
		&url,
		&status,
		&r.Success,
		&message,
		&errorDetails,
		&r.Statistics.TotalTracks,
		&r.Statistics.SuccessfulTracks,
		&r.Statistics.FailedTracks,
		&r.Statistics.SkippedTracks,
		&originalName,
		&newName,
		&records,
		&r.StartedAt,
		&completedAt,
		&durationNanos,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan transfer: %w", err)
	}

	r.Status = domain.TransferStatus(status)
	r.DestPlaylistID = destID.String
	r.DestPlaylistURL = url.String
	r.Message = message.String
	r.ErrorDetails = errorDetails.String
	r.Statistics.OriginalPlaylistName = originalName.String
	r.Statistics.NewPlaylistName = newName.String
	r.Statistics.StartedAt = r.StartedAt
	r.Duration = time.Duration(durationNanos)
	if completedAt.Valid {
		t := completedAt.Time
		r.CompletedAt = &t
		r.Statistics.CompletedAt = &t
	}

	if err := json.Unmarshal([]byte(records), &r.FailedTracks); err != nil {
		return nil, fmt.Errorf("failed to decode failed tracks of %s: %w", r.TransferID, err)
	}
	return &r, nil
}

func pageBounds(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return (page - 1) * pageSize, pageSize
}
