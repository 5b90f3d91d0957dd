package lifecycle

import (
	"context"
	"fmt"
	"time"
)

// DefaultPin is the shared 4-digit checkout secret used when
// CHECKOUT_PIN is not configured. A single code is issued to front-desk
// security for the whole residence; this is deliberate, not a
// per-tenant credential.
const DefaultPin = "3693"

const (
	maxAdditionalGuests = 2
	maxGuestHeadcount   = 3
)

// Companion is one extra person on a guest or sleepover submission.
type Companion struct {
	Name        string
	Surname     string
	PhoneNumber string
}

// Submission carries the kind-specific fields of a new request.
// Controllers map their wire DTOs into this shape.
type Submission struct {
	Kind   Kind
	UserID string

	// maintenance / complaint
	Title       string
	Description string
	Priority    string
	Category    string

	RoomNumber string

	// guest / sleepover
	GuestName        string
	GuestSurname     string
	GuestPhone       string
	Purpose          string
	TenantCode       string
	StartDate        time.Time
	EndDate          time.Time
	AdditionalGuests []Companion

	// maintenance evidence, populated after upload
	MediaTypes    []string
	MediaURLs     []string
	ThumbnailURLs []string
}

// Record is a stored request as the engine sees it.
type Record struct {
	ID string
	Submission
	Status        Status
	AdminResponse string
	IsActive      bool
	SignOutTime   *time.Time
	CheckoutTime  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Patch is a partial update applied on a transition. Nil fields are
// left untouched.
type Patch struct {
	Status        *Status
	AdminResponse *string
	IsActive      *bool
	SignOutTime   *time.Time
	CheckoutTime  *time.Time
	UpdatedAt     time.Time
}

// Store is the persistence boundary of the engine. Implementations are
// expected to run Transition's read-validate-write inside their native
// transaction primitive so two approvers acting at once cannot both
// win.
type Store interface {
	Create(ctx context.Context, rec Record) (string, error)
	Get(ctx context.Context, kind Kind, id string) (*Record, error)
	Query(ctx context.Context, kind Kind, f Filter) ([]Record, error)
	// Transition loads the document, passes it to fn and applies the
	// returned patch. A nil patch is a no-op success; an error from fn
	// aborts without writing. The context handed to fn carries the
	// store's transaction, so reads made through it see the same
	// snapshot as the final write.
	Transition(ctx context.Context, kind Kind, id string, fn func(ctx context.Context, cur Record) (*Patch, error)) (*Record, error)
	// ActiveGuestCount sums the people on the user's currently active
	// guest visits (primary plus additional guests).
	ActiveGuestCount(ctx context.Context, userID string) (int, error)
	// ActiveSleepover finds the user's approved, active, not signed-out
	// sleepover, or nil when there is none.
	ActiveSleepover(ctx context.Context, userID string) (*Record, error)
}

// Notifier delivers a notification to the affected submitter.
// Delivery is best-effort; implementations log failures and never
// block a transition.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind Kind, title, message string)
}

// Engine enforces the request lifecycle shared by guest visits,
// sleepovers, maintenance tickets and complaints.
type Engine struct {
	store    Store
	notifier Notifier
	pin      string
	now      func() time.Time
}

// NewEngine creates a lifecycle engine. An empty pin falls back to
// DefaultPin.
func NewEngine(store Store, notifier Notifier, pin string) *Engine {
	if pin == "" {
		pin = DefaultPin
	}
	return &Engine{store: store, notifier: notifier, pin: pin, now: time.Now}
}

// Submit validates and persists a new request, returning its id.
func (e *Engine) Submit(ctx context.Context, sub Submission) (string, error) {
	if !ValidKind(sub.Kind) {
		return "", fmt.Errorf("%w: unknown request kind %q", ErrValidation, sub.Kind)
	}
	if sub.UserID == "" {
		return "", fmt.Errorf("%w: userId is required", ErrValidation)
	}

	switch sub.Kind {
	case KindMaintenance, KindComplaint:
		if sub.Title == "" {
			return "", fmt.Errorf("%w: title is required", ErrValidation)
		}
		if sub.Description == "" {
			return "", fmt.Errorf("%w: description is required", ErrValidation)
		}
	case KindSleepover:
		if sub.GuestName == "" || sub.GuestSurname == "" {
			return "", fmt.Errorf("%w: guest name and surname are required", ErrValidation)
		}
		if sub.RoomNumber == "" {
			return "", fmt.Errorf("%w: roomNumber is required", ErrValidation)
		}
		if sub.StartDate.IsZero() || sub.EndDate.IsZero() {
			return "", fmt.Errorf("%w: startDate and endDate are required", ErrValidation)
		}
		if sub.EndDate.Before(sub.StartDate) {
			return "", fmt.Errorf("%w: endDate is before startDate", ErrValidation)
		}
	case KindGuest:
		if sub.GuestName == "" || sub.GuestSurname == "" {
			return "", fmt.Errorf("%w: guest first and last name are required", ErrValidation)
		}
		if sub.RoomNumber == "" {
			return "", fmt.Errorf("%w: roomNumber is required", ErrValidation)
		}
		if sub.StartDate.IsZero() {
			return "", fmt.Errorf("%w: fromDate is required", ErrValidation)
		}
	}

	if sub.Kind == KindGuest || sub.Kind == KindSleepover {
		if len(sub.AdditionalGuests) > maxAdditionalGuests {
			return "", ErrCapacityExceeded
		}
		if sub.Kind == KindGuest {
			active, err := e.store.ActiveGuestCount(ctx, sub.UserID)
			if err != nil {
				return "", err
			}
			if active+1+len(sub.AdditionalGuests) > maxGuestHeadcount {
				return "", ErrCapacityExceeded
			}
		}
	}

	now := e.now()
	rec := Record{
		Submission: sub,
		Status:     InitialStatus(sub.Kind),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return e.store.Create(ctx, rec)
}

// Transition moves a request to newStatus and records the
// administrative decision. Re-applying the current status is a no-op
// success; terminal states absorb every other attempt, and moves not
// in the kind's transition table are rejected.
func (e *Engine) Transition(ctx context.Context, kind Kind, id string, newStatus Status, approverID, adminResponse string) error {
	if !ValidKind(kind) {
		return fmt.Errorf("%w: unknown request kind %q", ErrValidation, kind)
	}
	if !ValidStatus(kind, newStatus) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}

	now := e.now()
	applied := false
	rec, err := e.store.Transition(ctx, kind, id, func(txCtx context.Context, cur Record) (*Patch, error) {
		if cur.Status == newStatus {
			return nil, nil
		}
		if IsTerminal(kind, cur.Status) {
			return nil, ErrAlreadyFinalized
		}
		if !CanTransition(kind, cur.Status, newStatus) {
			return nil, fmt.Errorf("%w: cannot move from %q to %q", ErrInvalidStatus, cur.Status, newStatus)
		}

		patch := &Patch{Status: &newStatus, UpdatedAt: now}
		if adminResponse != "" {
			patch.AdminResponse = &adminResponse
		}
		if kind == KindSleepover {
			if newStatus == StatusApproved {
				// One active sleepover per user; checked inside the
				// transaction so the read and the approval write share a
				// snapshot.
				existing, err := e.store.ActiveSleepover(txCtx, cur.UserID)
				if err != nil {
					return nil, err
				}
				if existing != nil && existing.ID != cur.ID {
					return nil, ErrActiveSleepoverExists
				}
				active := true
				patch.IsActive = &active
			} else if cur.IsActive {
				// Leaving approved retires the guest's presence flag.
				inactive := false
				patch.IsActive = &inactive
			}
		}
		applied = true
		return patch, nil
	})
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	e.notify(ctx, rec.UserID, kind, newStatus)
	return nil
}

// CheckoutSleepover signs out the caller's active sleepover guest
// after validating the shared PIN.
func (e *Engine) CheckoutSleepover(ctx context.Context, userID, pin string) (*Record, error) {
	rec, err := e.store.ActiveSleepover(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := e.now()
	if rec == nil || !withinStayWindow(now, rec.StartDate, rec.EndDate) {
		return nil, ErrNoActiveSleepover
	}
	if pin != e.pin {
		return nil, ErrInvalidPin
	}

	completed := StatusCompleted
	inactive := false
	signOut := now
	updated, err := e.store.Transition(ctx, KindSleepover, rec.ID, func(_ context.Context, cur Record) (*Patch, error) {
		if cur.Status != StatusApproved || !cur.IsActive || cur.SignOutTime != nil {
			return nil, ErrNoActiveSleepover
		}
		return &Patch{
			Status:      &completed,
			IsActive:    &inactive,
			SignOutTime: &signOut,
			UpdatedAt:   now,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if e.notifier != nil {
		e.notifier.Notify(ctx, userID, KindSleepover, "Sleepover Signed Out",
			"Your sleepover guest has been signed out")
	}
	return updated, nil
}

// CheckoutGuestVisit signs out a single guest visit by id after
// validating the shared PIN.
func (e *Engine) CheckoutGuestVisit(ctx context.Context, id, pin string) error {
	rec, err := e.store.Get(ctx, KindGuest, id)
	if err != nil {
		return err
	}
	if pin != e.pin {
		return ErrInvalidPin
	}

	now := e.now()
	checkedOut := StatusCheckedOut
	checkout := now
	_, err = e.store.Transition(ctx, KindGuest, id, func(_ context.Context, cur Record) (*Patch, error) {
		if IsTerminal(KindGuest, cur.Status) {
			return nil, ErrAlreadyFinalized
		}
		return &Patch{
			Status:       &checkedOut,
			CheckoutTime: &checkout,
			UpdatedAt:    now,
		}, nil
	})
	if err != nil {
		return err
	}

	if e.notifier != nil {
		e.notifier.Notify(ctx, rec.UserID, KindGuest, "Guest Checked Out",
			"Your guest has been checked out")
	}
	return nil
}

// ListByFilter returns matching requests ordered by creation time
// descending. No match yields an empty slice, not an error.
func (e *Engine) ListByFilter(ctx context.Context, kind Kind, f Filter) ([]Record, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("%w: unknown request kind %q", ErrValidation, kind)
	}
	return e.store.Query(ctx, kind, f)
}

func (e *Engine) notify(ctx context.Context, userID string, kind Kind, status Status) {
	if e.notifier == nil {
		return
	}
	e.notifier.Notify(ctx, userID, kind,
		kindLabel(kind)+" Update",
		fmt.Sprintf("Your %s is now %s", kindLabel(kind), statusLabel(status)))
}

func withinStayWindow(now, start, end time.Time) bool {
	if now.Before(start) {
		return false
	}
	_, endOfDay := DayWindow(end)
	return now.Before(endOfDay)
}

func kindLabel(k Kind) string {
	switch k {
	case KindGuest:
		return "guest visit"
	case KindSleepover:
		return "sleepover request"
	case KindMaintenance:
		return "maintenance request"
	case KindComplaint:
		return "complaint"
	}
	return string(k)
}

func statusLabel(s Status) string {
	switch s {
	case StatusInProgress:
		return "in progress"
	case StatusCheckedOut:
		return "checked out"
	}
	return string(s)
}
