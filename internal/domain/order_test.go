package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusNextWalksFullLifecycle(t *testing.T) {
	want := []OrderStatus{
		StatusPending,
		StatusPaymentVerified,
		StatusProcessing,
		StatusPrinted,
		StatusShipped,
		StatusCompleted,
	}

	status := StatusPending
	walked := []OrderStatus{status}
	for {
		next, ok := status.Next()
		if !ok {
			break
		}
		walked = append(walked, next)
		status = next
	}

	require.Equal(t, want, walked)
	assert.True(t, StatusCompleted.Terminal())
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusPaymentVerified))
	assert.True(t, StatusShipped.CanTransitionTo(StatusCompleted))

	// Skipping a step is never legal.
	assert.False(t, StatusPending.CanTransitionTo(StatusProcessing))
	assert.False(t, StatusPaymentVerified.CanTransitionTo(StatusShipped))

	// Nor is moving backwards or standing still.
	assert.False(t, StatusProcessing.CanTransitionTo(StatusPaymentVerified))
	assert.False(t, StatusPrinted.CanTransitionTo(StatusPrinted))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusPending))
}

func TestOrderStatusKnown(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusPaymentVerified, StatusProcessing, StatusPrinted, StatusShipped, StatusCompleted} {
		assert.True(t, s.Known(), "status %s", s)
	}
	assert.False(t, OrderStatus("cancelled").Known())
	assert.False(t, OrderStatus("").Known())
}

func TestOrderPhotoIDsDeduplicates(t *testing.T) {
	o := Order{Lines: []OrderLine{
		{PhotoID: "a", SizeCode: "4x6"},
		{PhotoID: "a", SizeCode: "8x10"},
		{PhotoID: "b", SizeCode: "4x6"},
	}}
	assert.Equal(t, []PhotoID{"a", "b"}, o.PhotoIDs())
}
