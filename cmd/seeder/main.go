// Seeder populates the record store with a small demo ledger and
// prints the resulting dashboard aggregates. Useful for smoke-testing
// a freshly configured backend.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alimjan/wholesale-crm/internal/config"
	"github.com/alimjan/wholesale-crm/internal/ledger"
	"github.com/alimjan/wholesale-crm/internal/model"
	"github.com/alimjan/wholesale-crm/internal/stats"
	"github.com/alimjan/wholesale-crm/internal/store"
	"github.com/alimjan/wholesale-crm/pkg/kv"
	"github.com/alimjan/wholesale-crm/pkg/logger"
	"github.com/alimjan/wholesale-crm/pkg/prom"
	"github.com/alimjan/wholesale-crm/pkg/redis"
)

func main() {
	if err := config.Load(argContainsEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	if cfg.MetricsAddr != "" {
		if err := prom.Create(cfg.AppName, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return
		}
		go prom.ListenAndServe(cfg.MetricsAddr, cfg.MetricsPath)
	}

	backing, err := openStore(cfg)
	if err != nil {
		logger.Error("failed to open record store", "backend", cfg.StoreBackend, "error", err)
		return
	}

	records := store.NewRecords(backing)
	statsEngine := stats.NewEngine(records, nil)
	crm := ledger.New(records, statsEngine, nil, nil)

	ctx := context.Background()
	if err := seed(ctx, crm); err != nil {
		logger.Error("seeding failed", "error", err)
		return
	}

	summary, err := statsEngine.DashboardSummary(ctx)
	if err != nil {
		logger.Error("dashboard read failed", "error", err)
		return
	}
	logger.Info("seeded ledger",
		"customers", summary.TotalCustomers,
		"products", summary.TotalProducts,
		"total_revenue", summary.TotalRevenue,
		"monthly_revenue", summary.MonthlyRevenue,
		"collected", summary.TotalFullPayment,
		"outstanding_debt", summary.TotalDebt,
		"low_stock", len(summary.LowStockProducts),
	)
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := kv.OpenSQLite(cfg.SQLitePath, cfg.AppEnv == "dev")
		if err != nil {
			return nil, err
		}
		return store.NewKVStore(db), nil
	case "postgres":
		kvConf := kv.Config{
			User:     cfg.PostgresUser,
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			Password: cfg.PostgresPassword,
			Database: cfg.PostgresDatabase,
		}
		if err := kv.Migrate(kvConf, cfg.MigrationsDir); err != nil {
			return nil, err
		}
		db, err := kv.OpenPostgres(kvConf, cfg.AppEnv == "dev")
		if err != nil {
			return nil, err
		}
		return store.NewKVStore(db), nil
	case "redis":
		adapter, err := redis.NewRedisAdapter("default", cfg.RedisKeyPrefix, &redis.Options{
			Addrs:    []string{cfg.RedisAddr},
			DB:       cfg.RedisDatabase,
			Username: cfg.RedisUsername,
			Password: cfg.RedisPassword,
		})
		if err != nil {
			return nil, err
		}
		return store.NewRedisStore(adapter), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

func seed(ctx context.Context, crm *ledger.Ledger) error {
	for _, p := range []struct {
		name string
		qty  int
	}{
		{"Soap", 120},
		{"Rice 25kg", 40},
		{"Cooking Oil 5L", 8},
		{"Black Tea", 60},
	} {
		if _, err := crm.AddProduct(ctx, p.name, p.qty); err != nil {
			return err
		}
	}

	sales := []model.TransactionInput{
		{
			CustomerName:  "Adiljan",
			Products:      []model.LineItem{{Name: "Soap", Quantity: 30}, {Name: "Black Tea", Quantity: 5}},
			Amount:        360,
			PaymentMethod: model.PaymentFull,
		},
		{
			CustomerName:  "Gulnar",
			Products:      []model.LineItem{{Name: "Rice 25kg", Quantity: 10}},
			Amount:        1150,
			PaymentMethod: model.PaymentPartial,
			PaidAmount:    650,
			DebtAmount:    500,
		},
		{
			CustomerName:  "Yusup",
			Products:      []model.LineItem{{Name: "Cooking Oil 5L", Quantity: 2}},
			Amount:        180,
			PaymentMethod: model.PaymentDebt,
		},
	}
	for _, in := range sales {
		if _, err := crm.RecordTransaction(ctx, in); err != nil {
			return err
		}
	}

	if _, err := crm.RecordPayment(ctx, "Gulnar", 200); err != nil {
		return err
	}
	if _, err := crm.RedeemPoints(ctx, "Adiljan", 100); err != nil {
		return err
	}
	return nil
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
