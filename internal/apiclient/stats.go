package apiclient

import (
	"context"
	"net/http"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

const (
	SeriesLast7Days    = "last7days"
	SeriesCategorySale = "category-sale"
	SeriesTopCustomers = "top-customers"
)

func (c *Client) Last7Days(ctx context.Context) ([]models.DailySales, error) {
	return stats[models.DailySales](ctx, c, SeriesLast7Days)
}

func (c *Client) CategorySales(ctx context.Context) ([]models.CategorySales, error) {
	return stats[models.CategorySales](ctx, c, SeriesCategorySale)
}

func (c *Client) TopCustomers(ctx context.Context) ([]models.TopCustomer, error) {
	return stats[models.TopCustomer](ctx, c, SeriesTopCustomers)
}

// stats fetches GET /stats/{series}, answered as {"data": [...]}.
func stats[T any](ctx context.Context, c *Client, series string) ([]T, error) {
	op := "stats " + series
	b, err := c.do(ctx, op, http.MethodGet, "/stats/"+series, nil, "")
	if err != nil {
		return nil, err
	}
	out, err := decodeList[T](b)
	if err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	return out, nil
}
