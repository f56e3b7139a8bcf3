package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/invoicehub/backend/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStats() *report.DashboardStats {
	return &report.DashboardStats{
		OrganizationID: uuid.New(),
		TotalInvoices:  4,
		SentCount:      2,
		PaidCount:      1,
		TotalRevenue:   decimal.NewFromInt(500),
		Currency:       "USD",
		GeneratedAt:    time.Now(),
	}
}

func TestInMemoryStatsCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryStatsCache(time.Minute)
	orgID := uuid.New()

	// miss before set
	got, err := cache.GetDashboardStats(ctx, orgID)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, cache.SetDashboardStats(ctx, orgID, testStats()))

	got, err = cache.GetDashboardStats(ctx, orgID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(4), got.TotalInvoices)
	assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(500)))
}

func TestInMemoryStatsCache_Expiry(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryStatsCache(-time.Second) // already expired on write
	orgID := uuid.New()

	require.NoError(t, cache.SetDashboardStats(ctx, orgID, testStats()))

	got, err := cache.GetDashboardStats(ctx, orgID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryStatsCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryStatsCache(time.Minute)
	orgID := uuid.New()

	require.NoError(t, cache.SetDashboardStats(ctx, orgID, testStats()))
	require.NoError(t, cache.InvalidateDashboardStats(ctx, orgID))

	got, err := cache.GetDashboardStats(ctx, orgID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryStatsCache_IsolatesOrganizations(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryStatsCache(time.Minute)
	orgA := uuid.New()
	orgB := uuid.New()

	require.NoError(t, cache.SetDashboardStats(ctx, orgA, testStats()))

	got, err := cache.GetDashboardStats(ctx, orgB)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInMemoryStatsCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryStatsCache(time.Minute)
	orgID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = cache.SetDashboardStats(ctx, orgID, testStats())
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.GetDashboardStats(ctx, orgID)
		}()
	}
	wg.Wait()
}
