package notify

import (
	"context"

	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// LogNotifier reports decisions through the process log only
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs a decision
func (n *LogNotifier) Notify(_ context.Context, decision core.Decision) error {
	n.logger.Info("Decision",
		zap.String("acct", decision.Account.Acct),
		zap.String("account_id", string(decision.Account.ID)),
		zap.String("verdict", decision.Verdict.String()),
		zap.String("action", decision.Action.String()))
	return nil
}
