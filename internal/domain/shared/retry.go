package shared

// Retry runs attempt up to maxAttempts times, passing the 1-based attempt
// number. It stops early on success or when retryable reports the error as
// permanent. The last error is returned when all attempts fail. A nil
// retryable treats every error as retryable.
func Retry[T any](maxAttempts int, retryable func(error) bool, attempt func(n int) (T, error)) (T, error) {
	var zero T
	if maxAttempts < 1 {
		return zero, NewDomainError("INVALID_INPUT", "Retry requires at least one attempt")
	}

	var err error
	for n := 1; n <= maxAttempts; n++ {
		var value T
		value, err = attempt(n)
		if err == nil {
			return value, nil
		}
		if retryable != nil && !retryable(err) {
			return zero, err
		}
	}
	return zero, err
}
