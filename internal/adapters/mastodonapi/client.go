package mastodonapi

import (
	"context"
	"fmt"

	"github.com/mattn/go-mastodon"
	"github.com/mikey/avatar-blocker/internal/core"
	"go.uber.org/zap"
)

// Client wraps a Mastodon API client as the core's SocialGraph collaborator
// and as a factory for event sources.
type Client struct {
	api    *mastodon.Client
	logger *zap.Logger
}

// NewClient creates a Mastodon client for an instance. instance is the bare
// host name, without the scheme.
func NewClient(instance, accessToken, userAgent string, logger *zap.Logger) *Client {
	api := mastodon.NewClient(&mastodon.Config{
		Server:      "https://" + instance,
		AccessToken: accessToken,
	})
	api.UserAgent = userAgent

	return &Client{
		api:    api,
		logger: logger,
	}
}

// VerifyCredentials checks the access token by loading the operator's own
// account. Callers treat failure as fatal: no judgment can happen without an
// authenticated session.
func (c *Client) VerifyCredentials(ctx context.Context) (string, error) {
	me, err := c.api.GetAccountCurrentUser(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to log into mastodon: %w", err)
	}
	return me.Acct, nil
}

// Relationships returns the relationship records for an account
func (c *Client) Relationships(ctx context.Context, id core.AccountID) ([]core.RelationshipFacts, error) {
	rels, err := c.api.GetAccountRelationships(ctx, []string{string(id)})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account relationships: %w", err)
	}

	facts := make([]core.RelationshipFacts, 0, len(rels))
	for _, rel := range rels {
		facts = append(facts, core.RelationshipFacts{
			Known:      true,
			Following:  rel.Following,
			FollowedBy: rel.FollowedBy,
		})
	}
	return facts, nil
}

// Block blocks an account
func (c *Client) Block(ctx context.Context, id core.AccountID) error {
	if _, err := c.api.AccountBlock(ctx, mastodon.ID(id)); err != nil {
		return fmt.Errorf("failed to block account: %w", err)
	}
	return nil
}

// snapshotFromAccount maps a Mastodon account to the core snapshot. The
// static avatar URL is preferred so animated avatars classify on a still
// frame, matching what the web UI shows by default.
func snapshotFromAccount(account mastodon.Account) core.AccountSnapshot {
	avatarURL := account.AvatarStatic
	if avatarURL == "" {
		avatarURL = account.Avatar
	}
	return core.AccountSnapshot{
		ID:        core.AccountID(account.ID),
		Acct:      account.Acct,
		AvatarURL: avatarURL,
	}
}
