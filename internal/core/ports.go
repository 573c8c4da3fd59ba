package core

import (
	"context"
)

// Classifier defines the interface for the external image-classification model
type Classifier interface {
	// Classify returns the ranked (label, score) pairs for a normalized avatar
	Classify(ctx context.Context, avatar *Avatar) ([]Label, error)
}

// SocialGraph defines the interface for relationship lookups and block actions
// against the social-network instance
type SocialGraph interface {
	// Relationships returns the relationship records for an account. The API
	// may return more than one record; the first is authoritative.
	Relationships(ctx context.Context, id AccountID) ([]RelationshipFacts, error)

	// Block blocks an account. Fire-and-forget from the caller's perspective;
	// failures are reported, not retried.
	Block(ctx context.Context, id AccountID) error
}

// EventSource emits account observations from one stream or timeline. The
// returned channel closes when the source is exhausted (backfill) or the
// context is cancelled; live sources reconnect internally and keep the
// channel open.
type EventSource interface {
	Name() string
	Stream(ctx context.Context) (<-chan AccountSnapshot, error)
}

// Notifier reports flag and block decisions to the operator
type Notifier interface {
	Notify(ctx context.Context, decision Decision) error
}

// Journal records decisions for later review
type Journal interface {
	Record(ctx context.Context, decision Decision) error
	Close() error
}

// Allowlist exempts accounts from judgment entirely
type Allowlist interface {
	Contains(acct string) bool
}
