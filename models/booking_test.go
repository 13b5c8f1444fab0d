package models

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusIsValid(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusWorking, StatusCompleted} {
		assert.True(t, s.IsValid(), s)
	}
	for _, s := range []BookingStatus{"", "Pending", "cancelled", "done"} {
		assert.False(t, s.IsValid(), s)
	}
}

func TestPredecessorsAllowOnlyForwardMoves(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusPending, StatusPending, true},
		{StatusPending, StatusWorking, true},
		{StatusPending, StatusCompleted, true},
		{StatusWorking, StatusWorking, true},
		{StatusWorking, StatusCompleted, true},
		{StatusWorking, StatusPending, false},
		{StatusCompleted, StatusCompleted, true},
		{StatusCompleted, StatusWorking, false},
		{StatusCompleted, StatusPending, false},
		{StatusPending, "cancelled", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, slices.Contains(tt.to.Predecessors(), tt.from))
		})
	}
}

func TestBookingViewCarriesLegacyEmailField(t *testing.T) {
	b := Booking{UserEmail: "bob@example.com", ServiceStatus: StatusPending}

	raw, err := json.Marshal(b.View())
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "bob@example.com", out["userEmail"])
	assert.Equal(t, "bob@example.com", out["currentUserEmail"])
	assert.Equal(t, "pending", out["serviceStatus"])
	assert.NotContains(t, out, "updatedAt")
}

func TestIdentityDisplayName(t *testing.T) {
	assert.Equal(t, "Unknown", Identity{}.DisplayName())
	assert.Equal(t, "Bob", Identity{Name: "Bob"}.DisplayName())
}
