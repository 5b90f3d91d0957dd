package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateVocabularies(t *testing.T) {
	assert.True(t, ValidKind(KindGuest))
	assert.True(t, ValidKind(KindSleepover))
	assert.True(t, ValidKind(KindMaintenance))
	assert.True(t, ValidKind(KindComplaint))
	assert.False(t, ValidKind("parcel"))

	assert.Equal(t, StatusActive, InitialStatus(KindGuest))
	assert.Equal(t, StatusPending, InitialStatus(KindSleepover))
	assert.Equal(t, StatusPending, InitialStatus(KindMaintenance))
	assert.Equal(t, StatusPending, InitialStatus(KindComplaint))

	// Each kind only accepts its own vocabulary
	assert.True(t, ValidStatus(KindSleepover, StatusApproved))
	assert.False(t, ValidStatus(KindMaintenance, StatusApproved))
	assert.True(t, ValidStatus(KindComplaint, StatusResolved))
	assert.False(t, ValidStatus(KindSleepover, StatusResolved))
	assert.True(t, ValidStatus(KindGuest, StatusCheckedOut))
	assert.False(t, ValidStatus(KindComplaint, StatusCheckedOut))
}

func TestCanTransitionForwardOnly(t *testing.T) {
	assert.True(t, CanTransition(KindMaintenance, StatusPending, StatusInProgress))
	assert.True(t, CanTransition(KindMaintenance, StatusInProgress, StatusCompleted))
	assert.True(t, CanTransition(KindSleepover, StatusPending, StatusApproved))
	assert.True(t, CanTransition(KindSleepover, StatusPending, StatusRejected))
	assert.True(t, CanTransition(KindSleepover, StatusApproved, StatusCompleted))
	assert.True(t, CanTransition(KindComplaint, StatusInProgress, StatusResolved))
	assert.True(t, CanTransition(KindGuest, StatusActive, StatusCheckedOut))

	// No backward edges exist in any table.
	assert.False(t, CanTransition(KindMaintenance, StatusInProgress, StatusPending))
	assert.False(t, CanTransition(KindSleepover, StatusApproved, StatusPending))
	assert.False(t, CanTransition(KindSleepover, StatusApproved, StatusRejected))
	assert.False(t, CanTransition(KindComplaint, StatusResolved, StatusInProgress))
	assert.False(t, CanTransition(KindGuest, StatusCheckedOut, StatusActive))
}

func TestTerminalStates(t *testing.T) {
	terminal := map[Kind][]Status{
		KindGuest:       {StatusCheckedOut},
		KindSleepover:   {StatusRejected, StatusCompleted},
		KindMaintenance: {StatusCompleted},
		KindComplaint:   {StatusResolved, StatusRejected},
	}

	for kind, statuses := range terminal {
		for _, s := range statuses {
			assert.True(t, IsTerminal(kind, s), "%s/%s should be terminal", kind, s)
		}
		assert.False(t, IsTerminal(kind, InitialStatus(kind)), "%s initial state must not be terminal", kind)
	}
}
