package core

import (
	"time"
)

// AccountID is the opaque stable identifier of an account. It is the sole
// cache key across the avatar, relationship and verdict caches; two events
// for the same account always carry the same AccountID regardless of which
// stream produced them.
type AccountID string

// AccountSnapshot is the transient account data embedded in an observation
// event. It is read-only and discarded after dispatch; only facts derived
// from it are cached.
type AccountSnapshot struct {
	ID        AccountID
	Acct      string
	AvatarURL string
}

// Avatar is a downloaded, decoded and normalized profile image, or the
// unavailable sentinel when the account has a placeholder avatar or the
// download/decode failed.
type Avatar struct {
	// Bytes is the normalized image re-encoded as PNG, sized for the
	// classifier. Empty when Unavailable.
	Bytes       []byte
	Unavailable bool
}

// UnavailableAvatar is the shared sentinel for accounts without a usable avatar.
var UnavailableAvatar = &Avatar{Unavailable: true}

// RelationshipFacts describes the mutual relationship with an account.
// The zero value means the relationship is unknown (lookup failed).
type RelationshipFacts struct {
	Known      bool
	Following  bool
	FollowedBy bool
}

// Verdict is the judgment of an account's avatar.
type Verdict int

const (
	// VerdictIndeterminate means the account could not be judged on image
	// grounds (placeholder avatar, failed download).
	VerdictIndeterminate Verdict = iota
	VerdictNotBad
	VerdictBad
)

func (v Verdict) String() string {
	switch v {
	case VerdictBad:
		return "bad"
	case VerdictNotBad:
		return "not_bad"
	default:
		return "indeterminate"
	}
}

// Action is what the policy engine decided to do about an account.
type Action int

const (
	ActionNone Action = iota
	ActionFlag
	ActionBlock
)

func (a Action) String() string {
	switch a {
	case ActionFlag:
		return "flag"
	case ActionBlock:
		return "block"
	default:
		return "none"
	}
}

// Label is a single classifier output: a label name with its confidence.
type Label struct {
	Name  string
	Score float64
}

// PolicyConfig is the operator-supplied judgment policy, immutable for the
// process lifetime.
type PolicyConfig struct {
	BadLabels        []string
	MinimumScore     float64
	IncludeFollowing bool
	ExcludeFollowers bool
	AutoBlock        bool
}

// Decision is a flag or block outcome for an account, handed to notifiers
// and the journal.
type Decision struct {
	Account   AccountSnapshot
	Verdict   Verdict
	Action    Action
	DecidedAt time.Time
}
