// Package dashboard fetches the three sales series shown on the analytics screen.
package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/shop_admin/internal/apiclient"
	"github.com/Skotchmaster/shop_admin/internal/models"
	"github.com/Skotchmaster/shop_admin/pkg/logging"
)

type Source interface {
	Last7Days(ctx context.Context) ([]models.DailySales, error)
	CategorySales(ctx context.Context) ([]models.CategorySales, error)
	TopCustomers(ctx context.Context) ([]models.TopCustomer, error)
}

// Snapshot holds whatever each series returned. A nil slice means the fetch
// failed; an empty one means the collaborator had nothing.
type Snapshot struct {
	Last7Days    []models.DailySales
	Categories   []models.CategorySales
	TopCustomers []models.TopCustomer
}

// Aggregator fetches each series at most once over its lifetime. A series
// whose fetch failed stays empty; it is not retried.
type Aggregator struct {
	src  Source
	once sync.Once
	snap Snapshot
}

func New(src Source) *Aggregator {
	return &Aggregator{src: src}
}

func (a *Aggregator) Load(ctx context.Context) Snapshot {
	a.once.Do(func() { a.snap = a.fetch(ctx) })
	return a.snap
}

func (a *Aggregator) fetch(ctx context.Context) Snapshot {
	l := logging.FromContext(ctx).With("component", "dashboard")
	var (
		snap Snapshot
		g    errgroup.Group
	)

	g.Go(func() error {
		out, err := a.src.Last7Days(ctx)
		snap.Last7Days = keep(l, apiclient.SeriesLast7Days, out, err)
		return err
	})
	g.Go(func() error {
		out, err := a.src.CategorySales(ctx)
		snap.Categories = keep(l, apiclient.SeriesCategorySale, out, err)
		return err
	})
	g.Go(func() error {
		out, err := a.src.TopCustomers(ctx)
		snap.TopCustomers = keep(l, apiclient.SeriesTopCustomers, out, err)
		return err
	})

	// Each goroutine writes its own field; a failed series is already logged.
	_ = g.Wait()
	return snap
}

func keep[T any](l *slog.Logger, series string, out []T, err error) []T {
	if err != nil {
		l.Warn("fetch_series_error", "series", series, "status", apiclient.StatusOf(err), "error", err)
		return nil
	}
	l.Debug("fetch_series_success", "series", series, "count", len(out))
	return out
}
