// Package stats derives every aggregate the dashboards show. Each call
// rescans the full ledger history; nothing is cached, so reads are
// always consistent with the latest write.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/alimjan/wholesale-crm/internal/model"
	"github.com/alimjan/wholesale-crm/internal/store"
	"github.com/alimjan/wholesale-crm/pkg/clock"
	"github.com/alimjan/wholesale-crm/pkg/prom"
)

const topN = 10

// lowStockThreshold marks a product as nearly sold out when its
// remaining quantity is in (0, threshold].
const lowStockThreshold = 10

const dayFormat = "2006-01-02"

// trailing window of the dashboard sales trend, in calendar days
const trendDays = 30

type Engine struct {
	records *store.Records
	clock   clock.Clock
}

func NewEngine(records *store.Records, clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.System{}
	}
	return &Engine{records: records, clock: clk}
}

// CustomerStats aggregates one customer's history: revenue, loyalty
// points, debt position and their ten most-bought products.
func (e *Engine) CustomerStats(ctx context.Context, name string) (model.CustomerStats, error) {
	started := time.Now()
	defer func() { prom.ObserveStatsRead("customer", time.Since(started).Seconds()) }()

	var s model.CustomerStats

	transactions, err := e.records.Transactions(ctx)
	if err != nil {
		return s, err
	}
	payments, err := e.records.Payments(ctx)
	if err != nil {
		return s, err
	}
	redemptions, err := e.records.PointRedemptions(ctx)
	if err != nil {
		return s, err
	}

	monthStart := monthStartOf(e.clock.Now())
	counts := map[string]int{}
	var order []string

	for _, t := range transactions {
		if t.CustomerName != name {
			continue
		}
		s.TotalRevenue += t.Amount
		if day, ok := parseDay(t.Date); ok && !day.Before(monthStart) {
			s.MonthlyRevenue += t.Amount
		}
		s.TotalDebt += t.DebtAmount
		for _, p := range t.Products {
			if _, seen := counts[p.Name]; !seen {
				order = append(order, p.Name)
			}
			counts[p.Name] += p.Quantity
		}
	}

	for _, p := range payments {
		if p.CustomerName == name {
			s.PaidBack += p.Amount
		}
	}
	s.PendingDebt = s.TotalDebt - s.PaidBack
	if s.PendingDebt < 0 {
		s.PendingDebt = 0
	}

	var redeemed float64
	for _, r := range redemptions {
		if r.CustomerName == name {
			redeemed += r.Points
		}
	}
	s.CurrentPoints = s.TotalRevenue - redeemed

	s.TopProducts = topCounts(order, counts, topN)
	return s, nil
}

// ProductStats aggregates one product's sales: quantity moved this
// calendar month and the ten customers who bought the most of it.
func (e *Engine) ProductStats(ctx context.Context, name string) (model.ProductStats, error) {
	started := time.Now()
	defer func() { prom.ObserveStatsRead("product", time.Since(started).Seconds()) }()

	var s model.ProductStats

	transactions, err := e.records.Transactions(ctx)
	if err != nil {
		return s, err
	}

	monthStart := monthStartOf(e.clock.Now())
	counts := map[string]int{}
	var order []string

	for _, t := range transactions {
		for _, p := range t.Products {
			if p.Name != name {
				continue
			}
			if day, ok := parseDay(t.Date); ok && !day.Before(monthStart) {
				s.MonthlySales += p.Quantity
			}
			if _, seen := counts[t.CustomerName]; !seen {
				order = append(order, t.CustomerName)
			}
			counts[t.CustomerName] += p.Quantity
		}
	}

	s.TopCustomers = topCounts(order, counts, topN)
	return s, nil
}

// DashboardSummary computes every dashboard-wide aggregate in one scan:
// revenue totals, the received/owed split, the trailing 30-day sales
// trend, top-N rankings and the low-stock list.
func (e *Engine) DashboardSummary(ctx context.Context) (model.DashboardSummary, error) {
	started := time.Now()
	defer func() { prom.ObserveStatsRead("dashboard", time.Since(started).Seconds()) }()

	var s model.DashboardSummary

	transactions, err := e.records.Transactions(ctx)
	if err != nil {
		return s, err
	}
	customers, err := e.records.Customers(ctx)
	if err != nil {
		return s, err
	}
	products, err := e.records.Products(ctx)
	if err != nil {
		return s, err
	}

	now := e.clock.Now()
	monthStart := monthStartOf(now)
	todayKey := now.Format(dayFormat)

	s.TotalCustomers = len(customers)
	s.TotalProducts = len(products)

	s.DailySales = make(map[string]float64, trendDays)
	for i := trendDays - 1; i >= 0; i-- {
		s.DailySales[now.AddDate(0, 0, -i).Format(dayFormat)] = 0
	}

	monthCustomerRevenue := map[string]float64{}
	allCustomerRevenue := map[string]float64{}
	monthProductSales := map[string]int{}
	var monthCustomerOrder, allCustomerOrder, monthProductOrder []string

	for _, t := range transactions {
		s.TotalRevenue += t.Amount

		day, dayOK := parseDay(t.Date)
		inMonth := dayOK && !day.Before(monthStart)
		if inMonth {
			s.MonthlyRevenue += t.Amount
		}
		if dayOK && day.Format(dayFormat) == todayKey {
			s.TodayRevenue += t.Amount
		}

		// Received vs owed split: fully-paid amounts plus the paid
		// portion of partial sales count as collected; debt-only
		// sales contribute nothing to the collected side.
		switch t.PaymentMethod {
		case model.PaymentFull:
			s.TotalFullPayment += t.Amount
		case model.PaymentPartial:
			s.TotalFullPayment += t.PaidAmount
			s.TotalDebt += t.DebtAmount
		case model.PaymentDebt:
			s.TotalDebt += t.DebtAmount
		}

		if _, seen := allCustomerRevenue[t.CustomerName]; !seen {
			allCustomerOrder = append(allCustomerOrder, t.CustomerName)
		}
		allCustomerRevenue[t.CustomerName] += t.Amount

		if dayOK {
			key := day.Format(dayFormat)
			if _, inWindow := s.DailySales[key]; inWindow {
				s.DailySales[key] += t.Amount
			}
		}

		if inMonth {
			if _, seen := monthCustomerRevenue[t.CustomerName]; !seen {
				monthCustomerOrder = append(monthCustomerOrder, t.CustomerName)
			}
			monthCustomerRevenue[t.CustomerName] += t.Amount

			for _, p := range t.Products {
				if _, seen := monthProductSales[p.Name]; !seen {
					monthProductOrder = append(monthProductOrder, p.Name)
				}
				monthProductSales[p.Name] += p.Quantity
			}
		}
	}

	s.TopCustomersMonth = topAmounts(monthCustomerOrder, monthCustomerRevenue, topN)
	s.TopProductsMonth = topCounts(monthProductOrder, monthProductSales, topN)
	s.TopCustomersAll = topAmounts(allCustomerOrder, allCustomerRevenue, topN)
	s.LowStockProducts = lowStock(products, topN)

	return s, nil
}

func monthStartOf(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// parseDay reads a stored transaction date. Sale dates are plain
// calendar days, but older exports carried full timestamps.
func parseDay(s string) (time.Time, bool) {
	if t, err := time.ParseInLocation(dayFormat, s, time.Local); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), true
	}
	return time.Time{}, false
}

// topCounts ranks names by count, descending, ties kept in
// first-encountered order.
func topCounts(order []string, counts map[string]int, n int) []model.NameCount {
	ranked := make([]model.NameCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, model.NameCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Count > ranked[j].Count })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func topAmounts(order []string, amounts map[string]float64, n int) []model.NameAmount {
	ranked := make([]model.NameAmount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, model.NameAmount{Name: name, Amount: amounts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Amount > ranked[j].Amount })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func lowStock(products []model.Product, n int) []model.Product {
	low := make([]model.Product, 0)
	for _, p := range products {
		if p.RemainingQuantity > 0 && p.RemainingQuantity <= lowStockThreshold {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool {
		return low[i].RemainingQuantity < low[j].RemainingQuantity
	})
	if len(low) > n {
		low = low[:n]
	}
	return low
}
