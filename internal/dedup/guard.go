// Package dedup guards against repeat outreach: a recipient recorded in
// the outreach history ledger for an organization is never contacted
// again.
package dedup

type HistoryReader interface {
	HasContacted(orgID int, recipient string) (bool, error)
}

type Guard struct {
	History HistoryReader
}

// AlreadyContacted is a point lookup against the ledger. A lookup error
// means the state cannot be verified; callers must treat the recipient as
// not sendable (fail closed), because repeat contact is the costlier
// mistake.
func (g *Guard) AlreadyContacted(orgID int, recipient string) (bool, error) {
	return g.History.HasContacted(orgID, recipient)
}
