package dashboard

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/shop_admin/internal/models"
)

const (
	barWidth  = 40
	noDataYet = "No data yet"
)

var hundred = decimal.NewFromInt(100)

// Render prints the three charts. It has no side effects beyond writing to w.
func Render(w io.Writer, s Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Sales, last 7 days")
	if len(s.Last7Days) == 0 {
		fmt.Fprintln(tw, noDataYet)
	} else {
		bars := Bars(s.Last7Days)
		for i, d := range s.Last7Days {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Day, bars[i], d.Total.StringFixed(2))
		}
	}

	fmt.Fprintln(tw, "\nSales by category")
	if len(s.Categories) == 0 {
		fmt.Fprintln(tw, noDataYet)
	} else {
		sum := decimal.Zero
		for _, c := range s.Categories {
			sum = sum.Add(c.Total)
		}
		for _, c := range s.Categories {
			fmt.Fprintf(tw, "%s\t%s\t%s%%\n", c.Category, c.Total.StringFixed(2), share(c.Total, sum))
		}
	}

	fmt.Fprintln(tw, "\nTop customers")
	if len(s.TopCustomers) == 0 {
		fmt.Fprintln(tw, noDataYet)
	} else {
		fmt.Fprintln(tw, "CUSTOMER\tORDERS\tTOTAL SPENT")
		for _, c := range s.TopCustomers {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Customer, c.Orders, c.TotalSpent.StringFixed(2))
		}
	}

	return tw.Flush()
}

func bar(v, peak decimal.Decimal) string {
	if !peak.IsPositive() || !v.IsPositive() {
		return ""
	}
	n := v.Div(peak).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart()
	if n == 0 {
		n = 1
	}
	return strings.Repeat("#", int(n))
}

func share(v, sum decimal.Decimal) string {
	if !sum.IsPositive() {
		return "0.0"
	}
	return v.Div(sum).Mul(hundred).StringFixed(1)
}

// Bars scales each day against the best day, barWidth wide at most.
func Bars(days []models.DailySales) []string {
	peak := decimal.Zero
	for _, d := range days {
		peak = decimal.Max(peak, d.Total)
	}
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = bar(d.Total, peak)
	}
	return out
}
