package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	errTransient := errors.New("transient")
	errPermanent := errors.New("permanent")

	t.Run("returns first success", func(t *testing.T) {
		calls := 0
		value, err := Retry(3, nil, func(n int) (string, error) {
			calls++
			return "ok", nil
		})

		assert.NoError(t, err)
		assert.Equal(t, "ok", value)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		calls := 0
		value, err := Retry(3, nil, func(n int) (int, error) {
			calls++
			if n < 3 {
				return 0, errTransient
			}
			return n, nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, value)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error after exhaustion", func(t *testing.T) {
		calls := 0
		_, err := Retry(3, nil, func(n int) (int, error) {
			calls++
			return 0, errTransient
		})

		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		_, err := Retry(3, func(err error) bool {
			return errors.Is(err, errTransient)
		}, func(n int) (int, error) {
			calls++
			return 0, errPermanent
		})

		assert.ErrorIs(t, err, errPermanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("rejects non-positive attempt budget", func(t *testing.T) {
		_, err := Retry(0, nil, func(n int) (int, error) {
			return n, nil
		})

		assert.Error(t, err)
	})

	t.Run("passes attempt numbers", func(t *testing.T) {
		var seen []int
		_, _ = Retry(2, nil, func(n int) (int, error) {
			seen = append(seen, n)
			return 0, errTransient
		})

		assert.Equal(t, []int{1, 2}, seen)
	})
}
