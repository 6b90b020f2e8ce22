package orders

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vmhuong/dacsan_shop/internal/models"
)

var allStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusShipped,
	models.OrderStatusDelivered,
	models.OrderStatusCancelled,
}

func TestAllowedTransitions(t *testing.T) {
	allowed := map[[2]models.OrderStatus]bool{
		{models.OrderStatusPending, models.OrderStatusProcessing}: true,
		{models.OrderStatusPending, models.OrderStatusCancelled}:  true,
		{models.OrderStatusProcessing, models.OrderStatusShipped}: true,
		{models.OrderStatusShipped, models.OrderStatusDelivered}:  true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			pair := [2]models.OrderStatus{from, to}
			if allowed[pair] {
				require.NoError(t, Transition(from, to), "%s -> %s should be allowed", from, to)
				continue
			}
			err := Transition(from, to)
			var badTransition *InvalidTransitionError
			require.ErrorAs(t, err, &badTransition, "%s -> %s should be rejected", from, to)
			require.Equal(t, from, badTransition.From)
			require.Equal(t, to, badTransition.To)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	for _, from := range []models.OrderStatus{models.OrderStatusDelivered, models.OrderStatusCancelled} {
		for _, to := range allStatuses {
			require.Error(t, Transition(from, to), "%s must be terminal", from)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range allStatuses {
		parsed, err := ParseStatus(string(s))
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}

	_, err := ParseStatus("refunded")
	require.ErrorIs(t, err, ErrValidation)
}
