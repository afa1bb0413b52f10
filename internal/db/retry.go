package db

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Operation is a function that performs an action and returns an error if it fails.
type Operation func() error

// ShouldRetry decides whether a failed attempt is worth repeating.
type ShouldRetry func(err error) bool

const DefaultMaxRetries = 3

// Try executes an operation with default retry settings for transient
// (network/timeout) failures.
func Try(op Operation) error {
	return WithRetries(op, DefaultMaxRetries, IsTransientError)
}

// WithRetries executes an operation, repeating it up to maxRetries times
// while shouldRetry approves the failure. A short incremental backoff is
// applied between attempts.
func WithRetries(op Operation, maxRetries int, shouldRetry ShouldRetry) error {
	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		if attempt == maxRetries {
			break
		}

		if shouldRetry(err) {
			time.Sleep(time.Duration(50*(attempt+1)) * time.Millisecond)
		} else {
			return err
		}
	}
	return err
}

// IsTransientError reports whether an error from MongoDB is likely to
// succeed on a retry (timeouts and network hiccups).
func IsTransientError(err error) bool {
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}

// IsDuplicateKeyError checks if an error from MongoDB is a unique-index
// violation (code 11000). These are translated to domain conflicts, never
// retried.
func IsDuplicateKeyError(err error) bool {
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	var e mongo.WriteException
	if errors.As(err, &e) {
		for _, we := range e.WriteErrors {
			if we.Code == 11000 {
				return true
			}
		}
	}
	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, writeError := range bwe.WriteErrors {
			if writeError.Code == 11000 {
				return true
			}
		}
	}
	return false
}
