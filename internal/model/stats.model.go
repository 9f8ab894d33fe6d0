package model

// NameCount ranks a customer or product by cumulative quantity.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NameAmount ranks a customer by revenue.
type NameAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

type CustomerStats struct {
	MonthlyRevenue float64     `json:"monthlyRevenue"`
	TotalRevenue   float64     `json:"totalRevenue"`
	CurrentPoints  float64     `json:"currentPoints"`
	TotalDebt      float64     `json:"totalDebt"`
	PaidBack       float64     `json:"paidBack"`
	PendingDebt    float64     `json:"pendingDebt"`
	TopProducts    []NameCount `json:"topProducts"`
}

type ProductStats struct {
	MonthlySales int         `json:"monthlySales"`
	TopCustomers []NameCount `json:"topCustomers"`
}

type DashboardSummary struct {
	TotalRevenue     float64 `json:"totalRevenue"`
	MonthlyRevenue   float64 `json:"monthlyRevenue"`
	TodayRevenue     float64 `json:"todayRevenue"`
	TotalFullPayment float64 `json:"totalFullPayment"`
	TotalDebt        float64 `json:"totalDebt"`
	TotalCustomers   int     `json:"totalCustomers"`
	TotalProducts    int     `json:"totalProducts"`
	// DailySales keys the trailing 30 calendar days (YYYY-MM-DD),
	// missing days held at zero.
	DailySales        map[string]float64 `json:"dailySales"`
	TopCustomersMonth []NameAmount       `json:"topCustomersMonth"`
	TopProductsMonth  []NameCount        `json:"topProductsMonth"`
	TopCustomersAll   []NameAmount       `json:"topCustomersAll"`
	LowStockProducts  []Product          `json:"lowStockProducts"`
}
