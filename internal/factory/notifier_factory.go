package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/avatar-blocker/internal/adapters/notify"
	"github.com/mikey/avatar-blocker/internal/config"
	"github.com/mikey/avatar-blocker/internal/core"
)

// NotifierFactory creates decision notifiers based on configuration
type NotifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewNotifierFactory creates a new notifier factory
func NewNotifierFactory(cfg *config.Config, logger *zap.Logger) *NotifierFactory {
	return &NotifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateNotifier creates a notifier based on the configuration
func (f *NotifierFactory) CreateNotifier() (core.Notifier, error) {
	notifierType := f.cfg.GetString("notify.type")

	switch notifierType {
	case "log":
		return notify.NewLogNotifier(f.logger), nil
	case "smtp":
		address := f.cfg.GetString("notify.smtp.address")
		from := f.cfg.GetString("notify.smtp.from")
		to := f.cfg.GetString("notify.smtp.to")
		if address == "" || from == "" || to == "" {
			return nil, fmt.Errorf("smtp notifier requires notify.smtp.address, .from and .to")
		}
		return notify.NewSMTPNotifier(
			address,
			from,
			to,
			f.cfg.GetString("notify.smtp.username"),
			f.cfg.GetString("notify.smtp.password"),
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported notifier type: %s", notifierType)
	}
}
