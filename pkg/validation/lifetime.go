package validation

// AnalyzeScopeLifetimes compares the draft's access-token and
// authorization lifetimes against the maximums declared by each granted
// scope and returns one conflict per violated (scope, dimension) pair.
//
// Comparisons are strict: a scope maximum equal to the client lifetime is
// not a conflict. Scopes granted by the draft but absent from the
// metadata are not analyzed; missing data is never a negative finding.
//
// Result ordering follows the input scope ordering so the portal can
// present conflicts stably, traceable to the scope list.
func AnalyzeScopeLifetimes(draft ClientDraft, scopes []ScopeMetadata) []ScopeConflict {
	granted := make(map[string]bool, len(draft.ScopeNames))
	for _, name := range draft.ScopeNames {
		granted[name] = true
	}

	var conflicts []ScopeConflict
	for _, scope := range scopes {
		if !granted[scope.Name] {
			continue
		}

		// An authorization conflict silently truncates the session: the
		// user is logged out earlier than the client's setting implies.
		if max := scope.MaxAuthorizationLifetimeSeconds; max != nil && *max < draft.AuthorizationLifetimeSeconds {
			conflicts = append(conflicts, ScopeConflict{
				Type:           ConflictAuthorizationLifetime,
				ScopeName:      scope.Name,
				ScopeLifetime:  *max,
				ClientLifetime: draft.AuthorizationLifetimeSeconds,
				Severity:       SeverityHigh,
			})
		}

		// Tokens expiring early is an inconvenience, not a session loss.
		if max := scope.MaxAccessTokenLifetimeSeconds; max != nil && *max < draft.AccessTokenLifetimeSeconds {
			conflicts = append(conflicts, ScopeConflict{
				Type:           ConflictAccessTokenLifetime,
				ScopeName:      scope.Name,
				ScopeLifetime:  *max,
				ClientLifetime: draft.AccessTokenLifetimeSeconds,
				Severity:       SeverityMedium,
			})
		}
	}

	return conflicts
}
