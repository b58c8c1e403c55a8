package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripplanner/pkg/itinerary"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testPlan() itinerary.Plan {
	return itinerary.Plan{
		Destination: "Dubai",
		Days:        3,
		Currency:    "USD",
		Items: []itinerary.Item{
			{Day: 1, Activity: "Burj Khalifa", ApproxCost: 46, Currency: "USD", Source: "https://a.example"},
			{Day: 2, Activity: "Desert safari", ApproxCost: 65, Currency: "USD"},
			{Day: 3, Activity: "Marina walk", ApproxCost: 0, Currency: "USD"},
		},
		TotalEstimatedCost: 111,
		UnderBudget:        true,
		Notes:              "test plan",
	}
}

func TestSaveAndGetPlan(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, "req-1", testPlan(), true))

	rec, err := store.GetPlan(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, "req-1", rec.RequestID)
	assert.Equal(t, "Dubai", rec.Destination)
	assert.Equal(t, 3, rec.Days)
	assert.True(t, rec.NeedsReview)
	assert.Len(t, rec.Plan.Items, 3)
	assert.InDelta(t, 111.0, rec.Plan.TotalEstimatedCost, 0.001)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSavePlanUpserts(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, "req-1", testPlan(), true))

	updated := testPlan()
	updated.TotalEstimatedCost = 90
	require.NoError(t, store.SavePlan(ctx, "req-1", updated, false))

	rec, err := store.GetPlan(ctx, "req-1")
	require.NoError(t, err)
	assert.False(t, rec.NeedsReview)
	assert.InDelta(t, 90.0, rec.Plan.TotalEstimatedCost, 0.001)

	records, err := store.ListPlans(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, records, 1, "upsert must not create a second row")
}

func TestGetPlanMissing(t *testing.T) {
	store := testStore(t)
	_, err := store.GetPlan(context.Background(), "nope")
	assert.Error(t, err)
}

func TestSaveReviewAction(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	require.NoError(t, store.SavePlan(ctx, "req-1", testPlan(), true))
	require.NoError(t, store.SaveReviewAction(ctx, "req-1", "reduce", "Costs reduced from 111.00 to 46.00 USD."))
	require.NoError(t, store.SaveReviewAction(ctx, "req-1", "approve", "Approved."))

	var count int
	err := store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_actions WHERE request_id = ?`, "req-1").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestListPlansLimit(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for _, id := range []string{"req-1", "req-2", "req-3"} {
		require.NoError(t, store.SavePlan(ctx, id, testPlan(), false))
	}

	records, err := store.ListPlans(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
