package retry

import (
	"fmt"
	"time"
)

// Do runs fn up to attempts times, sleeping baseDelay*2^n between failed
// attempts. The last error is returned once the budget is exhausted.
func Do(fn func() error, attempts int, baseDelay time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt < attempts-1 {
			time.Sleep(baseDelay * (1 << attempt))
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
