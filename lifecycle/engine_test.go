package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu   sync.Mutex
	seq  int
	recs map[Kind]map[string]*Record
}

func newFakeStore() *fakeStore {
	recs := make(map[Kind]map[string]*Record)
	for _, k := range []Kind{KindGuest, KindSleepover, KindMaintenance, KindComplaint} {
		recs[k] = make(map[string]*Record)
	}
	return &fakeStore{recs: recs}
}

func (s *fakeStore) Create(_ context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	rec.ID = fmt.Sprintf("req-%d", s.seq)
	s.recs[rec.Kind][rec.ID] = &rec
	return rec.ID, nil
}

func (s *fakeStore) Get(_ context.Context, kind Kind, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) Query(_ context.Context, kind Kind, f Filter) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	out := []Record{}
	for _, rec := range s.recs[kind] {
		if f.Matches(*rec, now) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) Transition(ctx context.Context, kind Kind, id string, fn func(context.Context, Record) (*Patch, error)) (*Record, error) {
	s.mu.Lock()
	rec, ok := s.recs[kind][id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	cur := *rec
	s.mu.Unlock()

	// fn may read back through the store, so the lock is not held
	// while it runs.
	patch, err := fn(ctx, cur)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if patch != nil {
		if patch.Status != nil {
			rec.Status = *patch.Status
		}
		if patch.AdminResponse != nil {
			rec.AdminResponse = *patch.AdminResponse
		}
		if patch.IsActive != nil {
			rec.IsActive = *patch.IsActive
		}
		if patch.SignOutTime != nil {
			rec.SignOutTime = patch.SignOutTime
		}
		if patch.CheckoutTime != nil {
			rec.CheckoutTime = patch.CheckoutTime
		}
		rec.UpdatedAt = patch.UpdatedAt
	}
	cp := *rec
	return &cp, nil
}

func (s *fakeStore) ActiveGuestCount(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, rec := range s.recs[KindGuest] {
		if rec.UserID == userID && rec.Status == StatusActive {
			count += 1 + len(rec.AdditionalGuests)
		}
	}
	return count, nil
}

func (s *fakeStore) ActiveSleepover(_ context.Context, userID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.recs[KindSleepover] {
		if rec.UserID == userID && rec.Status == StatusApproved && rec.IsActive && rec.SignOutTime == nil {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *fakeNotifier) Notify(_ context.Context, userID string, kind Kind, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, fmt.Sprintf("%s/%s: %s", userID, kind, title))
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func newTestEngine() (*Engine, *fakeStore, *fakeNotifier) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	return NewEngine(store, notifier, ""), store, notifier
}

func sleepoverSubmission(userID string) Submission {
	return Submission{
		Kind:         KindSleepover,
		UserID:       userID,
		GuestName:    "Jane",
		GuestSurname: "Doe",
		GuestPhone:   "+27821234567",
		RoomNumber:   "12",
		StartDate:    time.Now().Add(-time.Hour),
		EndDate:      time.Now().Add(24 * time.Hour),
	}
}

func TestSubmitRequiredFields(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name string
		sub  Submission
	}{
		{"missing user", Submission{Kind: KindComplaint, Title: "Noise", Description: "Loud music"}},
		{"unknown kind", Submission{Kind: "parcel", UserID: "u1"}},
		{"complaint without title", Submission{Kind: KindComplaint, UserID: "u1", Description: "Loud music"}},
		{"maintenance without description", Submission{Kind: KindMaintenance, UserID: "u1", Title: "Leaky tap"}},
		{"sleepover without dates", Submission{Kind: KindSleepover, UserID: "u1", GuestName: "Jane", GuestSurname: "Doe", RoomNumber: "12"}},
		{"guest without room", Submission{Kind: KindGuest, UserID: "u1", GuestName: "Jane", GuestSurname: "Doe", StartDate: time.Now()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Submit(ctx, tt.sub)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestSubmitSetsInitialStatus(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, Submission{
		Kind: KindMaintenance, UserID: "u1",
		Title: "Leaky tap", Description: "Dripping all night", RoomNumber: "101", Priority: "high",
	})
	require.NoError(t, err)

	rec, err := store.Get(ctx, KindMaintenance, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)

	gid, err := engine.Submit(ctx, Submission{
		Kind: KindGuest, UserID: "u1",
		GuestName: "Sam", GuestSurname: "Nkosi", RoomNumber: "101", StartDate: time.Now(),
	})
	require.NoError(t, err)
	guest, err := store.Get(ctx, KindGuest, gid)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, guest.Status)
}

func TestSubmitCapacityRule(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	three := []Companion{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	two := []Companion{{Name: "A"}, {Name: "B"}}

	sub := sleepoverSubmission("u1")
	sub.AdditionalGuests = three
	_, err := engine.Submit(ctx, sub)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	sub.AdditionalGuests = two
	_, err = engine.Submit(ctx, sub)
	assert.NoError(t, err)
}

func TestSubmitGuestHeadcountAcrossActiveVisits(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	first := Submission{
		Kind: KindGuest, UserID: "u1",
		GuestName: "Sam", GuestSurname: "Nkosi", RoomNumber: "101", StartDate: time.Now(),
		AdditionalGuests: []Companion{{Name: "Thabo"}},
	}
	_, err := engine.Submit(ctx, first)
	require.NoError(t, err)

	// Two people already signed in; two more would exceed the limit.
	second := first
	second.AdditionalGuests = []Companion{{Name: "Lerato"}}
	_, err = engine.Submit(ctx, second)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	// One more is exactly at the limit.
	second.AdditionalGuests = nil
	_, err = engine.Submit(ctx, second)
	assert.NoError(t, err)
}

func TestMaintenanceScenarioWalk(t *testing.T) {
	engine, store, notifier := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, Submission{
		Kind: KindMaintenance, UserID: "u1",
		Title: "Leaky tap", Description: "Dripping all night", RoomNumber: "101", Priority: "high",
	})
	require.NoError(t, err)

	require.NoError(t, engine.Transition(ctx, KindMaintenance, id, StatusInProgress, "admin1", ""))
	rec, err := store.Get(ctx, KindMaintenance, id)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, rec.Status)
	assert.Empty(t, rec.AdminResponse)
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))

	require.NoError(t, engine.Transition(ctx, KindMaintenance, id, StatusCompleted, "admin1", "Fixed"))
	rec, err = store.Get(ctx, KindMaintenance, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, rec.Status)
	assert.Equal(t, "Fixed", rec.AdminResponse)

	err = engine.Transition(ctx, KindMaintenance, id, StatusPending, "admin1", "")
	assert.ErrorIs(t, err, ErrAlreadyFinalized)

	assert.Equal(t, 2, notifier.count())
}

func TestTransitionTerminalStatesAbsorb(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		kind     Kind
		sub      Submission
		path     []Status
		terminal Status
	}{
		{KindSleepover, sleepoverSubmission("u1"), []Status{StatusApproved}, StatusCompleted},
		{KindComplaint, Submission{Kind: KindComplaint, UserID: "u2", Title: "Noise", Description: "Loud"}, []Status{StatusInProgress}, StatusResolved},
		{KindComplaint, Submission{Kind: KindComplaint, UserID: "u3", Title: "Noise", Description: "Loud"}, nil, StatusRejected},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+string(tt.terminal), func(t *testing.T) {
			id, err := engine.Submit(ctx, tt.sub)
			require.NoError(t, err)
			for _, s := range tt.path {
				require.NoError(t, engine.Transition(ctx, tt.kind, id, s, "admin1", ""))
			}
			require.NoError(t, engine.Transition(ctx, tt.kind, id, tt.terminal, "admin1", ""))

			for _, s := range []Status{InitialStatus(tt.kind), tt.terminal} {
				err := engine.Transition(ctx, tt.kind, id, s, "admin1", "")
				if s == tt.terminal {
					// Idempotent re-application of the terminal state is a
					// no-op success.
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrAlreadyFinalized)
				}
			}
		})
	}
}

func TestTransitionIdempotent(t *testing.T) {
	engine, store, notifier := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, Submission{
		Kind: KindComplaint, UserID: "u1", Title: "Noise", Description: "Loud music at 2am",
	})
	require.NoError(t, err)

	require.NoError(t, engine.Transition(ctx, KindComplaint, id, StatusInProgress, "admin1", ""))
	before, err := store.Get(ctx, KindComplaint, id)
	require.NoError(t, err)
	sent := notifier.count()

	require.NoError(t, engine.Transition(ctx, KindComplaint, id, StatusInProgress, "admin1", ""))
	after, err := store.Get(ctx, KindComplaint, id)
	require.NoError(t, err)

	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, sent, notifier.count(), "no-op transition must not notify")
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, Submission{
		Kind: KindMaintenance, UserID: "u1", Title: "Broken window", Description: "Cracked pane",
	})
	require.NoError(t, err)

	// "resolved" belongs to complaints, not maintenance.
	err = engine.Transition(ctx, KindMaintenance, id, StatusResolved, "admin1", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	err = engine.Transition(ctx, KindMaintenance, "missing", StatusInProgress, "admin1", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransitionRejectsBackwardMoves(t *testing.T) {
	engine, store, notifier := newTestEngine()
	ctx := context.Background()

	mid, err := engine.Submit(ctx, Submission{
		Kind: KindMaintenance, UserID: "u1", Title: "Leaky tap", Description: "Dripping all night",
	})
	require.NoError(t, err)
	require.NoError(t, engine.Transition(ctx, KindMaintenance, mid, StatusInProgress, "admin1", ""))
	sent := notifier.count()

	err = engine.Transition(ctx, KindMaintenance, mid, StatusPending, "admin1", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	rec, err := store.Get(ctx, KindMaintenance, mid)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, rec.Status)
	assert.Equal(t, sent, notifier.count(), "rejected transition must not notify")

	// Un-approving a sleepover would strand isActive=true on a pending
	// record, so the move is refused outright.
	sid, err := engine.Submit(ctx, sleepoverSubmission("u2"))
	require.NoError(t, err)
	require.NoError(t, engine.Transition(ctx, KindSleepover, sid, StatusApproved, "admin1", ""))

	err = engine.Transition(ctx, KindSleepover, sid, StatusPending, "admin1", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	rec, err = store.Get(ctx, KindSleepover, sid)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rec.Status)
	assert.True(t, rec.IsActive)
}

func TestAdminCompleteSleepoverRetiresActiveFlag(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)
	require.NoError(t, engine.Transition(ctx, KindSleepover, id, StatusApproved, "admin1", ""))
	require.NoError(t, engine.Transition(ctx, KindSleepover, id, StatusCompleted, "admin1", ""))

	rec, err := store.Get(ctx, KindSleepover, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, rec.Status)
	assert.False(t, rec.IsActive, "completing a sleepover must retire the presence flag")

	// With no guest still marked present, the next sleepover can be
	// approved.
	next, err := engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)
	assert.NoError(t, engine.Transition(ctx, KindSleepover, next, StatusApproved, "admin1", ""))
}

func TestApproveSecondSleepoverWhileOneActive(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	first, err := engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)
	second, err := engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)

	require.NoError(t, engine.Transition(ctx, KindSleepover, first, StatusApproved, "admin1", ""))
	err = engine.Transition(ctx, KindSleepover, second, StatusApproved, "admin1", "")
	assert.ErrorIs(t, err, ErrActiveSleepoverExists)
}

func TestSleepoverScenarioWalk(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)

	require.NoError(t, engine.Transition(ctx, KindSleepover, id, StatusApproved, "admin1", ""))
	rec, err := store.Get(ctx, KindSleepover, id)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rec.Status)
	assert.True(t, rec.IsActive)

	out, err := engine.CheckoutSleepover(ctx, "u1", DefaultPin)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, out.Status)
	assert.False(t, out.IsActive)
	require.NotNil(t, out.SignOutTime)
}

func TestCheckoutSleepoverWrongPinLeavesStateUnchanged(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)
	require.NoError(t, engine.Transition(ctx, KindSleepover, id, StatusApproved, "admin1", ""))

	_, err = engine.CheckoutSleepover(ctx, "u1", "0000")
	assert.ErrorIs(t, err, ErrInvalidPin)

	rec, err := store.Get(ctx, KindSleepover, id)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rec.Status)
	assert.True(t, rec.IsActive)
	assert.Nil(t, rec.SignOutTime)
}

func TestCheckoutSleepoverWithoutActiveOne(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	_, err := engine.CheckoutSleepover(ctx, "u1", DefaultPin)
	assert.ErrorIs(t, err, ErrNoActiveSleepover)

	// Pending but not yet approved still does not count as active.
	_, err = engine.Submit(ctx, sleepoverSubmission("u1"))
	require.NoError(t, err)
	_, err = engine.CheckoutSleepover(ctx, "u1", DefaultPin)
	assert.ErrorIs(t, err, ErrNoActiveSleepover)
}

func TestCheckoutGuestVisit(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	id, err := engine.Submit(ctx, Submission{
		Kind: KindGuest, UserID: "u1",
		GuestName: "Sam", GuestSurname: "Nkosi", RoomNumber: "101", StartDate: time.Now(),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, engine.CheckoutGuestVisit(ctx, id, "0000"), ErrInvalidPin)
	assert.ErrorIs(t, engine.CheckoutGuestVisit(ctx, "missing", DefaultPin), ErrNotFound)

	require.NoError(t, engine.CheckoutGuestVisit(ctx, id, DefaultPin))
	rec, err := store.Get(ctx, KindGuest, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedOut, rec.Status)
	require.NotNil(t, rec.CheckoutTime)

	assert.ErrorIs(t, engine.CheckoutGuestVisit(ctx, id, DefaultPin), ErrAlreadyFinalized)
}

func TestSubmitListRoundTrip(t *testing.T) {
	engine, _, _ := newTestEngine()
	ctx := context.Background()

	sub := Submission{
		Kind: KindComplaint, UserID: "u1",
		Title: "Broken geyser", Description: "No hot water on floor 3", Category: "other",
	}
	_, err := engine.Submit(ctx, sub)
	require.NoError(t, err)
	_, err = engine.Submit(ctx, Submission{
		Kind: KindComplaint, UserID: "u2", Title: "Noise", Description: "Loud music",
	})
	require.NoError(t, err)

	mine, err := engine.ListByFilter(ctx, KindComplaint, Mine("u1"))
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, sub.Title, mine[0].Title)
	assert.Equal(t, sub.Description, mine[0].Description)
	assert.Equal(t, StatusPending, mine[0].Status)

	none, err := engine.ListByFilter(ctx, KindComplaint, Mine("u3"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListByFilterVariants(t *testing.T) {
	engine, store, _ := newTestEngine()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := engine.Submit(ctx, Submission{
			Kind: KindMaintenance, UserID: fmt.Sprintf("u%d", i),
			Title: fmt.Sprintf("Ticket %d", i), Description: "detail",
		})
		require.NoError(t, err)
	}
	all, err := engine.ListByFilter(ctx, KindMaintenance, All())
	require.NoError(t, err)
	require.Len(t, all, 3)

	require.NoError(t, engine.Transition(ctx, KindMaintenance, all[0].ID, StatusInProgress, "admin1", ""))

	pending, err := engine.ListByFilter(ctx, KindMaintenance, PendingOnly())
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	inProgress, err := engine.ListByFilter(ctx, KindMaintenance, StatusEquals(StatusInProgress))
	require.NoError(t, err)
	assert.Len(t, inProgress, 1)

	today, err := engine.ListByFilter(ctx, KindMaintenance, TodayOnly())
	require.NoError(t, err)
	assert.Len(t, today, 3)

	// A record created before midnight falls out of the today window.
	old, err := store.Get(ctx, KindMaintenance, all[1].ID)
	require.NoError(t, err)
	store.mu.Lock()
	store.recs[KindMaintenance][old.ID].CreatedAt = time.Now().Add(-48 * time.Hour)
	store.mu.Unlock()

	today, err = engine.ListByFilter(ctx, KindMaintenance, TodayOnly())
	require.NoError(t, err)
	assert.Len(t, today, 2)
}
