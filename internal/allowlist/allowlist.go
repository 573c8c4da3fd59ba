package allowlist

import (
	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/utils"
)

// Checker exempts configured account handles from judgment
type Checker struct {
	accounts map[string]struct{}
	logger   *zap.Logger
}

// NewChecker creates a new allowlist checker
func NewChecker(accounts []string, logger *zap.Logger) *Checker {
	normalized := make(map[string]struct{}, len(accounts))
	for _, acct := range accounts {
		if acct = utils.NormalizeAcct(acct); acct != "" {
			normalized[acct] = struct{}{}
		}
	}

	if len(normalized) > 0 && logger != nil {
		logger.Info("Initialized account allowlist", zap.Int("accounts", len(normalized)))
	}

	return &Checker{
		accounts: normalized,
		logger:   logger,
	}
}

// Contains checks if an account handle is allowlisted
func (c *Checker) Contains(acct string) bool {
	if len(c.accounts) == 0 {
		return false
	}

	_, ok := c.accounts[utils.NormalizeAcct(acct)]
	if ok && c.logger != nil {
		c.logger.Debug("Account is allowlisted", zap.String("acct", acct))
	}
	return ok
}
