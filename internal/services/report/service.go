package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-ordering/internal/models"
	"restaurant-ordering/internal/validation"
)

const dateLayout = "2006-01-02"

var errInvalidPeriod = validation.ValidationError{Field: "period", Message: "invalid period"}

var defaultRange = map[models.ReportPeriod]int{
	models.PeriodDay:   7,
	models.PeriodWeek:  4,
	models.PeriodMonth: 6,
}

// maxRange bounds how far back a report reaches: about a year of days, five years of weeks,
// ten years of months.
var maxRange = map[models.ReportPeriod]int{
	models.PeriodDay:   366,
	models.PeriodWeek:  260,
	models.PeriodMonth: 120,
}

// OrderSource returns the orders created in [from, to)
type OrderSource interface {
	ListOrdersBetween(ctx context.Context, from, to time.Time) ([]models.Order, error)
}

// MenuReader supplies current prices
type MenuReader interface {
	List(ctx context.Context) ([]models.MenuItem, error)
}

type Service struct {
	orders OrderSource
	menu   MenuReader
	now    func() time.Time
}

func NewService(orders OrderSource, menu MenuReader) *Service {
	return &Service{orders: orders, menu: menu, now: time.Now}
}

type bucket struct {
	label      string
	start, end time.Time
}

// Build aggregates orders into consecutive buckets, oldest first, ending with the current one.
// A rng below 1 selects the period's default; larger than the period's maximum is clamped to it.
func (s *Service) Build(ctx context.Context, rawPeriod string, rng int) (*models.Report, error) {
	period := models.ReportPeriod(strings.ToLower(strings.TrimSpace(rawPeriod)))
	if period == "" {
		period = models.PeriodDay
	}
	def, ok := defaultRange[period]
	if !ok {
		return nil, errInvalidPeriod
	}
	if rng < 1 {
		rng = def
	}
	if limit := maxRange[period]; rng > limit {
		rng = limit
	}

	buckets := makeBuckets(period, rng, s.now().UTC())

	orders, err := s.orders.ListOrdersBetween(ctx, buckets[0].start, buckets[len(buckets)-1].end)
	if err != nil {
		return nil, fmt.Errorf("list orders for report: %w", err)
	}
	menu, err := s.menu.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load menu for report: %w", err)
	}
	prices := make(map[int64]decimal.Decimal, len(menu))
	for _, m := range menu {
		prices[m.ID] = m.Price
	}

	data := make([]models.ReportEntry, len(buckets))
	for i, b := range buckets {
		data[i] = models.ReportEntry{Period: b.label, Revenue: decimal.Zero}
	}
	for _, o := range orders {
		created := o.CreatedAt.UTC()
		for i, b := range buckets {
			if created.Before(b.start) || !created.Before(b.end) {
				continue
			}
			data[i].Orders++
			for _, it := range o.Items {
				data[i].Items += it.Qty
				data[i].Revenue = data[i].Revenue.Add(prices[it.ID].Mul(decimal.NewFromInt(int64(it.Qty))))
			}
			break
		}
	}
	for i := range data {
		data[i].Revenue = data[i].Revenue.Round(2)
	}

	return &models.Report{Period: period, Data: data}, nil
}

func makeBuckets(period models.ReportPeriod, n int, now time.Time) []bucket {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]bucket, 0, n)

	for i := n - 1; i >= 0; i-- {
		switch period {
		case models.PeriodDay:
			start := today.AddDate(0, 0, -i)
			out = append(out, bucket{label: start.Format(dateLayout), start: start, end: start.AddDate(0, 0, 1)})
		case models.PeriodWeek:
			start := mondayOf(today.AddDate(0, 0, -7*i))
			last := start.AddDate(0, 0, 6)
			out = append(out, bucket{
				label: start.Format(dateLayout) + " to " + last.Format(dateLayout),
				start: start,
				end:   start.AddDate(0, 0, 7),
			})
		case models.PeriodMonth:
			start := time.Date(today.Year(), today.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC)
			out = append(out, bucket{label: start.Format("2006-01"), start: start, end: start.AddDate(0, 1, 0)})
		}
	}
	return out
}

func mondayOf(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
