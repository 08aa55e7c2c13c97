package validation

// Translation keys for remediation suggestions. The UI interpolates
// Remediation.Count and Remediation.MinScopeLifetime into the rendered
// text.
const (
	MsgSessionTruncatedByScopes   = "scopeConflict.sessionTruncated"
	MsgTokensExpireEarly          = "scopeConflict.tokensExpireEarly"
	MsgLowerAuthorizationLifetime = "scopeConflict.lowerAuthorizationLifetimeOrRemoveScope"
	MsgLowerAccessTokenLifetime   = "scopeConflict.lowerAccessTokenLifetimeOrRemoveScope"
)

// remediationTexts maps a conflict group to its fixed description and
// corrective-action keys.
var remediationTexts = map[ConflictType]struct {
	description string
	solution    string
}{
	ConflictAuthorizationLifetime: {MsgSessionTruncatedByScopes, MsgLowerAuthorizationLifetime},
	ConflictAccessTokenLifetime:   {MsgTokensExpireEarly, MsgLowerAccessTokenLifetime},
}

// Fixed group order so identical inputs always aggregate to identical
// reports.
var conflictGroupOrder = []ConflictType{
	ConflictAuthorizationLifetime,
	ConflictAccessTokenLifetime,
}

// Aggregate merges URI findings and scope conflicts into a single Report.
// Only failed findings are carried into URIErrors. One remediation is
// produced per conflict group, suggesting the client lifetime be lowered
// to the minimum offending scope lifetime or the scope removed. It is
// pure templating over already-computed data; no further validation
// happens here.
func Aggregate(findings []URIFinding, conflicts []ScopeConflict) Report {
	uriErrors := make([]URIFinding, 0)
	for _, f := range findings {
		if !f.Outcome.Success {
			uriErrors = append(uriErrors, f)
		}
	}

	if conflicts == nil {
		conflicts = make([]ScopeConflict, 0)
	}

	remediations := make([]Remediation, 0, len(conflictGroupOrder))
	for _, groupType := range conflictGroupOrder {
		count := 0
		minLifetime := 0
		for _, c := range conflicts {
			if c.Type != groupType {
				continue
			}
			if count == 0 || c.ScopeLifetime < minLifetime {
				minLifetime = c.ScopeLifetime
			}
			count++
		}
		if count == 0 {
			continue
		}
		texts := remediationTexts[groupType]
		remediations = append(remediations, Remediation{
			Type:             groupType,
			Count:            count,
			MinScopeLifetime: minLifetime,
			Description:      texts.description,
			Solution:         texts.solution,
		})
	}

	return Report{
		URIErrors:      uriErrors,
		ScopeConflicts: conflicts,
		Remediations:   remediations,
		HasIssues:      len(uriErrors) > 0 || len(conflicts) > 0,
	}
}
