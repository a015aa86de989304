package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"schedpay/internal/calendar"
	"schedpay/internal/repositories"
	"schedpay/internal/services/transfer"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestSeed(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	svc := transfer.NewService(repositories.NewMemoryTransferRepository(), fixedClock{now}, time.UTC, nil)
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	require.NoError(t, seed(ctx, svc, calendar.FromTime(now), logger))
	assert.Equal(t, len(demos), logs.FilterMessage("seeded transfer").Len())

	all, total, err := svc.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Equal(t, int64(len(demos)), total)

	rules := make([]string, 0, len(all))
	for _, tr := range all {
		rules = append(rules, tr.FeeRule)
	}
	assert.Equal(t, []string{"A", "B", "C1", "C2", "C3", "C4"}, rules)

	require.NoError(t, seed(ctx, svc, calendar.FromTime(now), logger))
	assert.Equal(t, 1, logs.FilterMessage("store already holds transfers, nothing to do").Len())
	_, total, err = svc.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demos)), total)
}
