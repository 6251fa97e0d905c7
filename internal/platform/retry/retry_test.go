// Copyright (c) 2026 ShopIt. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package retry_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/shopit/internal/platform/retry"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestConnect_EventuallySucceeds retries until the attempt passes.
*/
func TestConnect_EventuallySucceeds(t *testing.T) {
	calls := 0
	err := retry.Connect(context.Background(), discard, "redis", 10*time.Second, func() error {
		calls++
		if calls < 2 {
			return errors.New("connection refused")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, calls)
}

/*
TestConnect_Cancelled stops when the context is done.
*/
func TestConnect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Connect(ctx, discard, "postgres", time.Minute, func() error {
		return errors.New("connection refused")
	})

	assert.Error(t, err)
}
