package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayWindow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.Local)
	start, end := DayWindow(now)

	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.Local), end)
	assert.True(t, now.After(start) && now.Before(end))
}

func TestDayWindowOnDSTChangeDay(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tz database unavailable")
	}

	// 2025-03-09 springs forward; the local day is 23 hours long and
	// the window must still end at the next midnight.
	now := time.Date(2025, time.March, 9, 13, 0, 0, 0, loc)
	start, end := DayWindow(now)

	assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, loc), end)
	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestFilterMatches(t *testing.T) {
	now := time.Now()
	rec := Record{
		Submission: Submission{Kind: KindComplaint, UserID: "u1"},
		Status:     StatusPending,
		CreatedAt:  now,
	}

	assert.True(t, All().Matches(rec, now))
	assert.True(t, Mine("u1").Matches(rec, now))
	assert.False(t, Mine("u2").Matches(rec, now))
	assert.True(t, PendingOnly().Matches(rec, now))
	assert.True(t, TodayOnly().Matches(rec, now))
	assert.True(t, StatusEquals(StatusPending).Matches(rec, now))
	assert.False(t, StatusEquals(StatusResolved).Matches(rec, now))

	rec.Status = StatusInProgress
	assert.False(t, PendingOnly().Matches(rec, now))

	rec.CreatedAt = now.Add(-48 * time.Hour)
	assert.False(t, TodayOnly().Matches(rec, now))
}

func TestFilterAccessors(t *testing.T) {
	userID, ok := Mine("u1").UserID()
	assert.True(t, ok)
	assert.Equal(t, "u1", userID)

	_, ok = All().UserID()
	assert.False(t, ok)

	status, ok := StatusEquals(StatusApproved).Status()
	assert.True(t, ok)
	assert.Equal(t, StatusApproved, status)

	assert.True(t, PendingOnly().Pending())
	assert.True(t, TodayOnly().Today())
	assert.False(t, All().Pending())
}
