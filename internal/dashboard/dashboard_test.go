package dashboard_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/apitest"
	"github.com/Skotchmaster/shop_admin/internal/dashboard"
	"github.com/Skotchmaster/shop_admin/internal/models"
)

type fakeSource struct {
	days, cats, tops atomic.Int32
	catErr           error
}

func (f *fakeSource) Last7Days(context.Context) ([]models.DailySales, error) {
	f.days.Add(1)
	return []models.DailySales{{Day: "2026-10-13", Total: decimal.NewFromInt(20)}}, nil
}

func (f *fakeSource) CategorySales(context.Context) ([]models.CategorySales, error) {
	f.cats.Add(1)
	return nil, f.catErr
}

func (f *fakeSource) TopCustomers(context.Context) ([]models.TopCustomer, error) {
	f.tops.Add(1)
	return []models.TopCustomer{}, nil
}

func TestAggregator_FetchesEachSeriesOnce(t *testing.T) {
	src := &fakeSource{catErr: errors.New("boom")}
	agg := dashboard.New(src)
	ctx := context.Background()

	first := agg.Load(ctx)
	second := agg.Load(ctx)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, src.days.Load())
	assert.EqualValues(t, 1, src.cats.Load())
	assert.EqualValues(t, 1, src.tops.Load())
	assert.Len(t, first.Last7Days, 1)
	assert.Nil(t, first.Categories)
	assert.NotNil(t, first.TopCustomers)
}

func TestAggregator_AgainstAPI(t *testing.T) {
	srv := apitest.NewServer(t)
	srv.SetStats(apiclient.SeriesLast7Days, []map[string]any{
		{"_id": "2026-10-12", "total": 10},
		{"_id": "2026-10-13", "total": 40},
	})
	srv.SetStats(apiclient.SeriesTopCustomers, []map[string]any{
		{"_id": "ann@example.com", "totalSpent": 99.5, "orders": 3},
	})
	srv.Fail(http.MethodGet, "/stats/"+apiclient.SeriesCategorySale, http.StatusInternalServerError)

	agg := dashboard.New(apiclient.NewClient(srv.BaseURL()))
	snap := agg.Load(context.Background())
	srv.Heal()
	_ = agg.Load(context.Background())

	require.Len(t, snap.Last7Days, 2)
	assert.True(t, snap.Last7Days[1].Total.Equal(decimal.NewFromInt(40)))
	assert.Empty(t, snap.Categories)
	require.Len(t, snap.TopCustomers, 1)
	assert.Equal(t, 3, snap.TopCustomers[0].Orders)
	assert.Equal(t, 1, srv.Count(http.MethodGet, "/stats/"+apiclient.SeriesCategorySale))

	var buf bytes.Buffer
	require.NoError(t, dashboard.Render(&buf, snap))
	out := buf.String()
	assert.Contains(t, out, "Sales by category\nNo data yet")
	assert.Contains(t, out, "ann@example.com")
	assert.Contains(t, out, "99.50")
}

func TestRender_EmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dashboard.Render(&buf, dashboard.Snapshot{}))
	assert.Equal(t, 3, strings.Count(buf.String(), "No data yet"))
}

func TestRender_CategoryShares(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, dashboard.Render(&buf, dashboard.Snapshot{
		Categories: []models.CategorySales{
			{Category: "Books", Total: decimal.NewFromInt(30)},
			{Category: "Toys", Total: decimal.NewFromInt(10)},
		},
	}))
	out := buf.String()
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "25.0%")
}

func TestBars(t *testing.T) {
	bars := dashboard.Bars([]models.DailySales{
		{Day: "a", Total: decimal.NewFromInt(40)},
		{Day: "b", Total: decimal.NewFromInt(20)},
		{Day: "c", Total: decimal.Zero},
		{Day: "d", Total: decimal.RequireFromString("0.1")},
	})
	assert.Len(t, bars[0], 40)
	assert.Len(t, bars[1], 20)
	assert.Empty(t, bars[2])
	assert.Len(t, bars[3], 1)
}
