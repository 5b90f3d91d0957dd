package lifecycle

import "time"

// filterKind enumerates the closed set of list filters. Queries are
// built from these variants by the store instead of ad hoc clause
// chaining at call sites.
type filterKind int

const (
	filterAll filterKind = iota
	filterMine
	filterPending
	filterToday
	filterStatus
)

// Filter selects which requests ListByFilter returns.
type Filter struct {
	kind   filterKind
	userID string
	status Status
}

// All matches every request of the kind.
func All() Filter { return Filter{kind: filterAll} }

// Mine matches requests submitted by userID.
func Mine(userID string) Filter { return Filter{kind: filterMine, userID: userID} }

// PendingOnly matches requests still in the kind's initial state.
func PendingOnly() Filter { return Filter{kind: filterPending} }

// TodayOnly matches requests created within the server's current
// local calendar day.
func TodayOnly() Filter { return Filter{kind: filterToday} }

// StatusEquals matches requests in exactly the given state.
func StatusEquals(s Status) Filter { return Filter{kind: filterStatus, status: s} }

// UserID returns the submitter constraint, if any.
func (f Filter) UserID() (string, bool) { return f.userID, f.kind == filterMine }

// Status returns the status constraint, if any. PendingOnly is
// resolved against the kind's initial state by the store.
func (f Filter) Status() (Status, bool) { return f.status, f.kind == filterStatus }

// Pending reports whether the filter selects the initial state only.
func (f Filter) Pending() bool { return f.kind == filterPending }

// Today reports whether the filter constrains createdAt to the
// current local day.
func (f Filter) Today() bool { return f.kind == filterToday }

// DayWindow returns the local midnight-to-midnight window containing
// now. Not timezone-aware beyond the server's location, matching the
// observed reference behavior.
func DayWindow(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// Next calendar midnight, not start+24h, so DST-change days keep a
	// true midnight-to-midnight window.
	end = time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	return start, end
}

// Matches reports whether a record satisfies the filter, evaluated at
// now. Stores that can push filters into the query engine only use
// this for the in-memory path.
func (f Filter) Matches(rec Record, now time.Time) bool {
	switch f.kind {
	case filterMine:
		return rec.UserID == f.userID
	case filterPending:
		return rec.Status == InitialStatus(rec.Kind)
	case filterToday:
		start, end := DayWindow(now)
		return !rec.CreatedAt.Before(start) && rec.CreatedAt.Before(end)
	case filterStatus:
		return rec.Status == f.status
	}
	return true
}
