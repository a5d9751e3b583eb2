package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/nanobridge/internal/core"
	"github.com/sandevgo/nanobridge/pkg/log"
)

// ArchiveRepo persists conversation snapshots. A snapshot replaces whatever
// was stored for the session before; the archive mirrors the live store, it
// does not accumulate history of its own.
type ArchiveRepo struct {
	db *sql.DB
}

func NewArchiveRepo(db *sql.DB) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

func (r *ArchiveRepo) SaveSnapshot(ctx context.Context, sessionID string, snap core.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO sessions (id, system_directive, turn_limit, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			system_directive = excluded.system_directive,
			turn_limit = excluded.turn_limit,
			updated_at = CURRENT_TIMESTAMP`
	if _, err := tx.ExecContext(ctx, query, sessionID, snap.SystemDirective, snap.TurnLimit); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to clear old messages: %w", err)
	}

	// The directive is stored on the session row, so only the turns are
	// written out.
	pos := 0
	for _, msg := range snap.Messages {
		if msg.Role == core.RoleSystem {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO messages (session_id, position, role, content) VALUES (?, ?, ?, ?)`,
			sessionID, pos, string(msg.Role), msg.Content)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		pos++
	}

	return tx.Commit()
}

func (r *ArchiveRepo) LoadSnapshot(ctx context.Context, sessionID string) (core.Snapshot, error) {
	var snap core.Snapshot

	row := r.db.QueryRowContext(ctx,
		`SELECT system_directive, turn_limit, updated_at FROM sessions WHERE id = ?`, sessionID)
	if err := row.Scan(&snap.SystemDirective, &snap.TurnLimit, &snap.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Snapshot{}, core.ErrSessionNotFound
		}
		return core.Snapshot{}, fmt.Errorf("failed to load session: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT role, content FROM messages WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	if snap.SystemDirective != "" {
		snap.Messages = append(snap.Messages, core.Message{Role: core.RoleSystem, Content: snap.SystemDirective})
	}

	for rows.Next() {
		var roleStr string
		var content sql.NullString
		if err := rows.Scan(&roleStr, &content); err != nil {
			return core.Snapshot{}, fmt.Errorf("failed to scan message: %w", err)
		}

		role, err := core.ParseRole(roleStr)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("corrupt archive row: %w", err)
		}

		snap.Messages = append(snap.Messages, core.Message{Role: role, Content: content.String})
		if role == core.RoleUser {
			snap.TurnCount++
		}
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, err
	}

	log.FromCtx(ctx).Debug().Str("session", sessionID).Int("messages", len(snap.Messages)).Msg("loaded archived conversation")
	return snap, nil
}

func (r *ArchiveRepo) Sessions(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ArchiveRepo) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
