package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// SMTPNotifier mails the operator about every flag and block decision
type SMTPNotifier struct {
	address  string
	from     string
	to       string
	username string
	password string
	logger   *zap.Logger
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(address, from, to, username, password string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		address:  address,
		from:     from,
		to:       to,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Notify sends one message per decision
func (n *SMTPNotifier) Notify(_ context.Context, decision core.Decision) error {
	subject := fmt.Sprintf("[avatar-blocker] %s: @%s", decision.Action, decision.Account.Acct)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", n.from)
	fmt.Fprintf(&msg, "To: %s\r\n", n.to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", decision.DecidedAt.Format(time.RFC1123Z))
	msg.WriteString("\r\n")
	fmt.Fprintf(&msg, "Account @%s (id %s) was judged %s; action taken: %s.\r\n",
		decision.Account.Acct, decision.Account.ID, decision.Verdict, decision.Action)
	if decision.Account.AvatarURL != "" {
		fmt.Fprintf(&msg, "Avatar: %s\r\n", decision.Account.AvatarURL)
	}

	var auth sasl.Client
	if n.username != "" {
		auth = sasl.NewPlainClient("", n.username, n.password)
	}

	if err := smtp.SendMail(n.address, auth, n.from, []string{n.to}, strings.NewReader(msg.String())); err != nil {
		return fmt.Errorf("failed to send notification mail: %w", err)
	}

	n.logger.Debug("Sent notification mail",
		zap.String("to", n.to),
		zap.String("acct", decision.Account.Acct))
	return nil
}
