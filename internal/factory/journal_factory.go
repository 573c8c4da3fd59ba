package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/adapters/journal"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
)

// JournalFactory creates the optional decision journal
type JournalFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewJournalFactory creates a new journal factory
func NewJournalFactory(cfg *config.Config, logger *zap.Logger) *JournalFactory {
	return &JournalFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateJournal creates the journal, or nil when journaling is disabled
func (f *JournalFactory) CreateJournal() (core.Journal, error) {
	if !f.cfg.GetBool("journal.enabled") {
		return nil, nil
	}

	path := f.cfg.GetString("journal.sqlite_path")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}
	return journal.NewSQLiteJournal(path, f.logger)
}
