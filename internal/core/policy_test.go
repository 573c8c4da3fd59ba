package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	following := RelationshipFacts{Known: true, Following: true}
	follower := RelationshipFacts{Known: true, FollowedBy: true}
	stranger := RelationshipFacts{Known: true}
	unknown := RelationshipFacts{}

	tests := []struct {
		name    string
		verdict Verdict
		rel     RelationshipFacts
		cfg     PolicyConfig
		want    Action
	}{
		{"not bad is never acted on", VerdictNotBad, stranger, PolicyConfig{AutoBlock: true}, ActionNone},
		{"indeterminate is never acted on", VerdictIndeterminate, stranger, PolicyConfig{AutoBlock: true}, ActionNone},
		{"followed account gets a pass by default", VerdictBad, following, PolicyConfig{}, ActionNone},
		{"followed account judged when opted in", VerdictBad, following, PolicyConfig{IncludeFollowing: true}, ActionFlag},
		{"follower acted on by default", VerdictBad, follower, PolicyConfig{}, ActionFlag},
		{"follower gets a pass when excluded", VerdictBad, follower, PolicyConfig{ExcludeFollowers: true}, ActionNone},
		{"bad stranger is flagged", VerdictBad, stranger, PolicyConfig{}, ActionFlag},
		{"auto-block escalates flag to block", VerdictBad, stranger, PolicyConfig{AutoBlock: true}, ActionBlock},
		{"unknown relationship still acted on", VerdictBad, unknown, PolicyConfig{AutoBlock: true}, ActionBlock},
		{"exclusions win over auto-block", VerdictBad, following, PolicyConfig{AutoBlock: true}, ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.verdict, tt.rel, tt.cfg))
		})
	}
}
