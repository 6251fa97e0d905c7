// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package retry bootstraps connections to backing services with exponential backoff.
//
// It is only used while the process starts: request handling never retries.
package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff"
)

// Backoff tuning for startup connections.
const (
	initialInterval = 500 * time.Millisecond
	maxInterval     = 10 * time.Second
)

// Connect runs attempt until it succeeds, ctx is cancelled or maxElapsed passes.
//
// # Parameters
//   - ctx: Bounds the whole retry loop.
//   - logger: Receives one warning per failed attempt.
//   - target: Name of the backing service, used in logs ("postgres", "redis").
//   - maxElapsed: Upper bound for all attempts together.
//   - attempt: The connection attempt.
func Connect(ctx context.Context, logger *slog.Logger, target string, maxElapsed time.Duration, attempt func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialInterval
	policy.MaxInterval = maxInterval
	policy.MaxElapsedTime = maxElapsed

	notify := func(err error, wait time.Duration) {
		logger.Warn("startup_connection_retry",
			slog.String("target", target),
			slog.String("error", err.Error()),
			slog.Duration("next_attempt_in", wait),
		)
	}

	return backoff.RetryNotify(attempt, backoff.WithContext(policy, ctx), notify)
}
