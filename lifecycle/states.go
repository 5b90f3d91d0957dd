package lifecycle

// Kind identifies one of the four request types sharing the lifecycle engine.
type Kind string

const (
	KindGuest       Kind = "guest"
	KindSleepover   Kind = "sleepover"
	KindMaintenance Kind = "maintenance"
	KindComplaint   Kind = "complaint"
)

// Status is a request's lifecycle state. Each kind accepts its own
// subset; see the tables below.
type Status string

const (
	StatusPending    Status = "pending"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusActive     Status = "active"
	StatusCheckedOut Status = "checked_out"
)

type stateTable struct {
	initial  Status
	valid    []Status
	terminal []Status
	allowed  map[Status][]Status
}

// Allowed states and transitions per kind as data, not per-kind code.
// Transitions only move forward; terminal states have no outgoing
// edges and absorb every attempt. The only sanctioned post-approval
// move is the sleepover approved -> completed checkout.
var stateTables = map[Kind]stateTable{
	KindGuest: {
		initial:  StatusActive,
		valid:    []Status{StatusActive, StatusCheckedOut},
		terminal: []Status{StatusCheckedOut},
		allowed: map[Status][]Status{
			StatusActive: {StatusCheckedOut},
		},
	},
	KindSleepover: {
		initial:  StatusPending,
		valid:    []Status{StatusPending, StatusApproved, StatusRejected, StatusCompleted},
		terminal: []Status{StatusRejected, StatusCompleted},
		allowed: map[Status][]Status{
			StatusPending:  {StatusApproved, StatusRejected},
			StatusApproved: {StatusCompleted},
		},
	},
	KindMaintenance: {
		initial:  StatusPending,
		valid:    []Status{StatusPending, StatusInProgress, StatusCompleted},
		terminal: []Status{StatusCompleted},
		allowed: map[Status][]Status{
			StatusPending:    {StatusInProgress, StatusCompleted},
			StatusInProgress: {StatusCompleted},
		},
	},
	KindComplaint: {
		initial:  StatusPending,
		valid:    []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected},
		terminal: []Status{StatusResolved, StatusRejected},
		allowed: map[Status][]Status{
			StatusPending:    {StatusInProgress, StatusResolved, StatusRejected},
			StatusInProgress: {StatusResolved, StatusRejected},
		},
	},
}

// ValidKind reports whether k is one of the four request kinds.
func ValidKind(k Kind) bool {
	_, ok := stateTables[k]
	return ok
}

// InitialStatus returns the state a freshly submitted request starts in.
func InitialStatus(k Kind) Status {
	return stateTables[k].initial
}

// ValidStatus reports whether s belongs to kind k's state vocabulary.
func ValidStatus(k Kind, s Status) bool {
	for _, v := range stateTables[k].valid {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is absorbing for kind k.
func IsTerminal(k Kind, s Status) bool {
	for _, t := range stateTables[k].terminal {
		if t == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether kind k permits the from -> to move.
// Backward moves are never in the table.
func CanTransition(k Kind, from, to Status) bool {
	for _, next := range stateTables[k].allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}
