package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStatus(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		date     time.Time
		disabled bool
		want     string
	}{
		{
			name: "yesterday is completed",
			date: now.AddDate(0, 0, -1),
			want: StatusCompleted,
		},
		{
			name: "earlier today is completed",
			date: now.Add(-2 * time.Hour),
			want: StatusCompleted,
		},
		{
			name: "later today is ongoing",
			date: time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local),
			want: StatusOngoing,
		},
		{
			name: "tomorrow is upcoming",
			date: now.AddDate(0, 0, 1),
			want: StatusUpcoming,
		},
		{
			name: "next month is upcoming",
			date: now.AddDate(0, 1, 0),
			want: StatusUpcoming,
		},
		{
			name:     "disabled overrides future date",
			date:     now.AddDate(0, 0, 1),
			disabled: true,
			want:     StatusNotAvailable,
		},
		{
			name:     "disabled overrides past date",
			date:     now.AddDate(0, 0, -7),
			disabled: true,
			want:     StatusNotAvailable,
		},
		{
			name: "exact now is not completed",
			date: now,
			want: StatusOngoing,
		},
		{
			name: "one second in the past is completed",
			date: now.Add(-time.Second),
			want: StatusCompleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStatus(tt.date, tt.disabled, now))
		})
	}
}

func TestCanEnable(t *testing.T) {
	t.Run("nobody holds the lock", func(t *testing.T) {
		assert.NoError(t, CanEnable("", ActorUser))
		assert.NoError(t, CanEnable("", ActorAdmin))
	})

	t.Run("holder can lift own lock", func(t *testing.T) {
		assert.NoError(t, CanEnable(ActorUser, ActorUser))
		assert.NoError(t, CanEnable(ActorAdmin, ActorAdmin))
	})

	t.Run("user cannot lift admin lock", func(t *testing.T) {
		err := CanEnable(ActorAdmin, ActorUser)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled by admin")
	})

	t.Run("admin cannot lift user lock", func(t *testing.T) {
		err := CanEnable(ActorUser, ActorAdmin)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disabled by user")
	})
}
