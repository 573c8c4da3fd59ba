package core

// Decide combines a verdict with relationship facts and operator policy to
// produce an action. Pure function: no I/O, no mutation.
func Decide(verdict Verdict, rel RelationshipFacts, cfg PolicyConfig) Action {
	if verdict != VerdictBad {
		return ActionNone
	}

	// A followed account gets a pass unless the operator opts in to judging
	// accounts they follow.
	if !cfg.IncludeFollowing && rel.Following {
		return ActionNone
	}

	// A follower gets a pass only when the operator opts in to the exclusion.
	if cfg.ExcludeFollowers && rel.FollowedBy {
		return ActionNone
	}

	if cfg.AutoBlock {
		return ActionBlock
	}
	return ActionFlag
}
