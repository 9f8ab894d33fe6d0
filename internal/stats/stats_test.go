package stats

import (
	"context"
	"testing"
	"time"

	"github.com/alimjan/wholesale-crm/internal/model"
	"github.com/alimjan/wholesale-crm/internal/store"
	"github.com/alimjan/wholesale-crm/pkg/clock"
	"github.com/alimjan/wholesale-crm/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.August, 15, 12, 0, 0, 0, time.Local)

func setupEngine(t *testing.T) (*Engine, *store.Records, context.Context) {
	db, err := kv.OpenSQLite(":memory:", false)
	require.NoError(t, err)

	records := store.NewRecords(store.NewKVStore(db))
	return NewEngine(records, clock.Fixed{T: testNow}), records, context.Background()
}

func sale(customer, date string, amount float64, method string, lines ...model.LineItem) model.Transaction {
	t := model.Transaction{
		CustomerName:  customer,
		Date:          date,
		Products:      lines,
		Amount:        amount,
		PaymentMethod: method,
	}
	switch method {
	case model.PaymentFull:
		t.PaidAmount = amount
	case model.PaymentDebt:
		t.DebtAmount = amount
	}
	return t
}

func TestEngine_CustomerStats(t *testing.T) {
	e, records, ctx := setupEngine(t)

	require.NoError(t, records.SaveTransactions(ctx, []model.Transaction{
		sale("Adil", "2026-08-03", 300, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 30}),
		sale("Adil", "2026-07-20", 500, model.PaymentDebt, model.LineItem{Name: "Rice 25kg", Quantity: 5}),
		{
			CustomerName:  "Adil",
			Date:          "2026-08-10",
			Products:      []model.LineItem{{Name: "Soap", Quantity: 10}},
			Amount:        200,
			PaymentMethod: model.PaymentPartial,
			PaidAmount:    120,
			DebtAmount:    80,
		},
		sale("Gulnar", "2026-08-05", 900, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 90}),
	}))
	require.NoError(t, records.SavePayments(ctx, []model.Payment{
		{CustomerName: "Adil", Amount: 350, Date: testNow},
		{CustomerName: "Gulnar", Amount: 50, Date: testNow},
	}))
	require.NoError(t, records.SavePointRedemptions(ctx, []model.PointRedemption{
		{CustomerName: "Adil", Points: 400, Date: testNow},
	}))

	s, err := e.CustomerStats(ctx, "Adil")
	require.NoError(t, err)

	t.Run("revenue split by calendar month", func(t *testing.T) {
		assert.Equal(t, 1000.0, s.TotalRevenue)
		assert.Equal(t, 500.0, s.MonthlyRevenue) // July sale excluded
	})

	t.Run("debt position ignores other customers", func(t *testing.T) {
		assert.Equal(t, 580.0, s.TotalDebt)
		assert.Equal(t, 350.0, s.PaidBack)
		assert.Equal(t, 230.0, s.PendingDebt)
	})

	t.Run("points are earned revenue minus redeemed", func(t *testing.T) {
		assert.Equal(t, 600.0, s.CurrentPoints)
	})

	t.Run("top products ranked by quantity across all time", func(t *testing.T) {
		require.Len(t, s.TopProducts, 2)
		assert.Equal(t, model.NameCount{Name: "Soap", Count: 40}, s.TopProducts[0])
		assert.Equal(t, model.NameCount{Name: "Rice 25kg", Count: 5}, s.TopProducts[1])
	})

	t.Run("unknown customer yields zeroes", func(t *testing.T) {
		s, err := e.CustomerStats(ctx, "Nobody")
		require.NoError(t, err)
		assert.Zero(t, s.TotalRevenue)
		assert.Zero(t, s.PendingDebt)
		assert.Zero(t, s.CurrentPoints)
		assert.Empty(t, s.TopProducts)
	})
}

func TestEngine_CustomerStats_OverpaymentFloorsAtZero(t *testing.T) {
	e, records, ctx := setupEngine(t)

	require.NoError(t, records.SaveTransactions(ctx, []model.Transaction{
		sale("Bob", "2026-08-01", 100, model.PaymentDebt, model.LineItem{Name: "Tea", Quantity: 2}),
	}))
	require.NoError(t, records.SavePayments(ctx, []model.Payment{
		{CustomerName: "Bob", Amount: 150, Date: testNow},
	}))

	s, err := e.CustomerStats(ctx, "Bob")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.PendingDebt)
}

func TestEngine_ProductStats(t *testing.T) {
	e, records, ctx := setupEngine(t)

	require.NoError(t, records.SaveTransactions(ctx, []model.Transaction{
		sale("Adil", "2026-08-02", 100, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 10}),
		sale("Gulnar", "2026-08-04", 250, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 25}),
		sale("Adil", "2026-07-15", 70, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 7}),
		sale("Adil", "2026-08-06", 500, model.PaymentFull, model.LineItem{Name: "Rice 25kg", Quantity: 5}),
	}))

	s, err := e.ProductStats(ctx, "Soap")
	require.NoError(t, err)

	t.Run("monthly sales count current calendar month only", func(t *testing.T) {
		assert.Equal(t, 35, s.MonthlySales)
	})

	t.Run("top customers include all-time quantities, ranked", func(t *testing.T) {
		require.Len(t, s.TopCustomers, 2)
		assert.Equal(t, model.NameCount{Name: "Gulnar", Count: 25}, s.TopCustomers[0])
		assert.Equal(t, model.NameCount{Name: "Adil", Count: 17}, s.TopCustomers[1])
	})

	t.Run("unknown product yields zeroes", func(t *testing.T) {
		s, err := e.ProductStats(ctx, "Sugar")
		require.NoError(t, err)
		assert.Zero(t, s.MonthlySales)
		assert.Empty(t, s.TopCustomers)
	})
}

func TestEngine_Rankings_TieBreakFirstEncountered(t *testing.T) {
	e, records, ctx := setupEngine(t)

	require.NoError(t, records.SaveTransactions(ctx, []model.Transaction{
		sale("Adil", "2026-08-01", 100, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 5}),
		sale("Gulnar", "2026-08-02", 100, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 5}),
	}))

	s, err := e.ProductStats(ctx, "Soap")
	require.NoError(t, err)
	require.Len(t, s.TopCustomers, 2)
	assert.Equal(t, "Adil", s.TopCustomers[0].Name)
	assert.Equal(t, "Gulnar", s.TopCustomers[1].Name)
}

func TestEngine_Rankings_CappedAtTen(t *testing.T) {
	e, records, ctx := setupEngine(t)

	transactions := make([]model.Transaction, 0, 12)
	for i := 0; i < 12; i++ {
		name := string(rune('A' + i))
		transactions = append(transactions,
			sale(name, "2026-08-01", float64(10*(i+1)), model.PaymentFull,
				model.LineItem{Name: "Soap", Quantity: i + 1}))
	}
	require.NoError(t, records.SaveTransactions(ctx, transactions))

	s, err := e.ProductStats(ctx, "Soap")
	require.NoError(t, err)
	require.Len(t, s.TopCustomers, 10)
	assert.Equal(t, "L", s.TopCustomers[0].Name) // quantity 12
	assert.Equal(t, "C", s.TopCustomers[9].Name) // quantity 3; A and B cut off
}

func TestEngine_DashboardSummary(t *testing.T) {
	e, records, ctx := setupEngine(t)

	require.NoError(t, records.SaveCustomers(ctx, []model.Customer{
		{ID: "c1", Name: "Adil"}, {ID: "c2", Name: "Gulnar"}, {ID: "c3", Name: "Bob"},
	}))
	require.NoError(t, records.SaveProducts(ctx, []model.Product{
		{ID: "p1", Name: "Soap", TotalQuantity: 120, RemainingQuantity: 80},
		{ID: "p2", Name: "Rice 25kg", TotalQuantity: 40, RemainingQuantity: 3},
		{ID: "p3", Name: "Black Tea", TotalQuantity: 60, RemainingQuantity: 0},
		{ID: "p4", Name: "Cooking Oil 5L", TotalQuantity: 8, RemainingQuantity: 8},
	}))
	require.NoError(t, records.SaveTransactions(ctx, []model.Transaction{
		sale("Adil", "2026-08-15", 300, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 30}),
		{
			CustomerName:  "Gulnar",
			Date:          "2026-08-10",
			Products:      []model.LineItem{{Name: "Rice 25kg", Quantity: 4}},
			Amount:        400,
			PaymentMethod: model.PaymentPartial,
			PaidAmount:    250,
			DebtAmount:    150,
		},
		sale("Bob", "2026-07-28", 200, model.PaymentDebt, model.LineItem{Name: "Black Tea", Quantity: 10}),
		sale("Adil", "2025-12-31", 1000, model.PaymentFull, model.LineItem{Name: "Soap", Quantity: 100}),
	}))

	s, err := e.DashboardSummary(ctx)
	require.NoError(t, err)

	t.Run("entity totals", func(t *testing.T) {
		assert.Equal(t, 3, s.TotalCustomers)
		assert.Equal(t, 4, s.TotalProducts)
	})

	t.Run("revenue totals", func(t *testing.T) {
		assert.Equal(t, 1900.0, s.TotalRevenue)
		assert.Equal(t, 700.0, s.MonthlyRevenue)
		assert.Equal(t, 300.0, s.TodayRevenue)
	})

	t.Run("received versus owed split", func(t *testing.T) {
		// full 300 + full 1000 + paid part 250; debt side 150 + 200.
		assert.Equal(t, 1550.0, s.TotalFullPayment)
		assert.Equal(t, 350.0, s.TotalDebt)
	})

	t.Run("daily sales trend covers trailing thirty days", func(t *testing.T) {
		require.Len(t, s.DailySales, trendDays)
		assert.Equal(t, 300.0, s.DailySales["2026-08-15"])
		assert.Equal(t, 400.0, s.DailySales["2026-08-10"])
		assert.Equal(t, 200.0, s.DailySales["2026-07-28"])
		assert.Equal(t, 0.0, s.DailySales["2026-08-01"])
		// oldest day in the window, 29 days back
		_, ok := s.DailySales["2026-07-17"]
		assert.True(t, ok)
		_, ok = s.DailySales["2026-07-16"]
		assert.False(t, ok)
	})

	t.Run("monthly rankings exclude older sales", func(t *testing.T) {
		require.Len(t, s.TopCustomersMonth, 2)
		assert.Equal(t, model.NameAmount{Name: "Gulnar", Amount: 400}, s.TopCustomersMonth[0])
		assert.Equal(t, model.NameAmount{Name: "Adil", Amount: 300}, s.TopCustomersMonth[1])

		require.Len(t, s.TopProductsMonth, 2)
		assert.Equal(t, model.NameCount{Name: "Soap", Count: 30}, s.TopProductsMonth[0])
		assert.Equal(t, model.NameCount{Name: "Rice 25kg", Count: 4}, s.TopProductsMonth[1])
	})

	t.Run("all-time ranking spans full history", func(t *testing.T) {
		require.Len(t, s.TopCustomersAll, 3)
		assert.Equal(t, model.NameAmount{Name: "Adil", Amount: 1300}, s.TopCustomersAll[0])
	})

	t.Run("low stock excludes sold-out and healthy products", func(t *testing.T) {
		require.Len(t, s.LowStockProducts, 2)
		assert.Equal(t, "Rice 25kg", s.LowStockProducts[0].Name)
		assert.Equal(t, "Cooking Oil 5L", s.LowStockProducts[1].Name)
	})
}

func TestEngine_DashboardSummary_Empty(t *testing.T) {
	e, _, ctx := setupEngine(t)

	s, err := e.DashboardSummary(ctx)
	require.NoError(t, err)
	assert.Zero(t, s.TotalRevenue)
	assert.Zero(t, s.TotalCustomers)
	assert.Len(t, s.DailySales, trendDays)
	assert.Empty(t, s.TopCustomersAll)
	assert.Empty(t, s.LowStockProducts)
}

func TestParseDay_LegacyTimestampFallback(t *testing.T) {
	day, ok := parseDay("2026-08-15T09:30:00Z")
	require.True(t, ok)
	assert.Equal(t, "2026-08-15", day.UTC().Format(dayFormat))

	_, ok = parseDay("not a date")
	assert.False(t, ok)
}
