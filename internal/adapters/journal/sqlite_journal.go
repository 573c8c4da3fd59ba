package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// SQLiteJournal is an append-only record of flag and block decisions, kept
// for operator review. It is not a cache: judgments always come from the
// in-memory pipeline.
type SQLiteJournal struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteJournal creates a new SQLite journal
func NewSQLiteJournal(dbPath string, logger *zap.Logger) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Create table if it doesn't exist
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_id TEXT NOT NULL,
			acct TEXT NOT NULL,
			verdict TEXT NOT NULL,
			action TEXT NOT NULL,
			decided_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteJournal{
		db:     db,
		logger: logger,
	}, nil
}

// Record appends a decision
func (j *SQLiteJournal) Record(ctx context.Context, decision core.Decision) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO decisions (account_id, acct, verdict, action, decided_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		string(decision.Account.ID),
		decision.Account.Acct,
		decision.Verdict.String(),
		decision.Action.String(),
		decision.DecidedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}

	j.logger.Debug("Recorded decision",
		zap.String("acct", decision.Account.Acct),
		zap.String("action", decision.Action.String()))
	return nil
}

// Close closes the underlying database
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
