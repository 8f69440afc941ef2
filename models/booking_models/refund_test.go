package booking_models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renthub/renthub/utils"
)

func TestCalculateRefund(t *testing.T) {
	confirmedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, utils.ISTLocation())
	stamp := utils.ISTTimestamp(confirmedAt)

	t.Run("within window refunds full advance", func(t *testing.T) {
		refund, deduction, err := CalculateRefund(stamp, confirmedAt.Add(1*time.Hour), 100)
		require.NoError(t, err)
		assert.Equal(t, 100.0, refund)
		assert.Equal(t, 0.0, deduction)
	})

	t.Run("exactly at window boundary refunds full advance", func(t *testing.T) {
		refund, deduction, err := CalculateRefund(stamp, confirmedAt.Add(2*time.Hour), 100)
		require.NoError(t, err)
		assert.Equal(t, 100.0, refund)
		assert.Equal(t, 0.0, deduction)
	})

	t.Run("after window refunds 70 percent", func(t *testing.T) {
		refund, deduction, err := CalculateRefund(stamp, confirmedAt.Add(3*time.Hour), 100)
		require.NoError(t, err)
		assert.Equal(t, 70.0, refund)
		assert.Equal(t, 30.0, deduction)
	})

	t.Run("refund plus deduction always equals advance", func(t *testing.T) {
		for _, advance := range []float64{100, 150, 99, 33.33} {
			refund, deduction, err := CalculateRefund(stamp, confirmedAt.Add(5*time.Hour), advance)
			require.NoError(t, err)
			assert.InDelta(t, advance, refund+deduction, 1e-9)
		}
	})

	t.Run("odd advance rounds the refund once", func(t *testing.T) {
		// 70% of 99 is 69.3; rounded refund 69, deduction the exact remainder.
		refund, deduction, err := CalculateRefund(stamp, confirmedAt.Add(5*time.Hour), 99)
		require.NoError(t, err)
		assert.Equal(t, 69.0, refund)
		assert.Equal(t, 30.0, deduction)
	})

	t.Run("missing confirmation timestamp is refused", func(t *testing.T) {
		_, _, err := CalculateRefund("", time.Now(), 100)
		assert.ErrorIs(t, err, ErrNoConfirmationTimestamp)
	})

	t.Run("unparseable timestamp is refused", func(t *testing.T) {
		_, _, err := CalculateRefund("last tuesday", time.Now(), 100)
		assert.ErrorIs(t, err, ErrNoConfirmationTimestamp)
	})
}

func TestNewBooking(t *testing.T) {
	b := NewBooking(4, 7, "bike", "2025-03-01", "10:00", 3, 50, "txn-123")

	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, 150.0, b.TotalAmount)
	assert.Equal(t, AdvancePayment, b.AdvancePayment)
	assert.Equal(t, 50.0, b.RemainingAmount)
	assert.Equal(t, "pending", b.RefundStatus)
	assert.NotEmpty(t, b.CreatedAt)
	assert.True(t, b.IsActive())

	_, err := utils.ParseISTTimestamp(b.CreatedAt)
	assert.NoError(t, err)
}
