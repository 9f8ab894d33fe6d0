// Package ledger implements every business mutation of the CRM:
// customers, products, sales transactions, debt payments, loyalty-point
// redemptions and restocking. Each operation either fully succeeds or
// leaves the store untouched and returns a specific error kind.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/alimjan/wholesale-crm/internal/model"
	"github.com/alimjan/wholesale-crm/internal/stats"
	"github.com/alimjan/wholesale-crm/internal/store"
	"github.com/alimjan/wholesale-crm/pkg/clock"
	"github.com/alimjan/wholesale-crm/pkg/prom"
)

var (
	ErrDuplicateName     = errors.New("name already in use")
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient remaining stock")
	ErrAmountMismatch    = errors.New("paid and debt amounts do not match the sale amount")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrOverLimit         = errors.New("amount exceeds the available balance")
)

// amountTolerance absorbs float rounding when reconciling a partial
// payment against the sale amount.
const amountTolerance = 0.01

const dayFormat = "2006-01-02"

type Ledger struct {
	records *store.Records
	stats   *stats.Engine
	clock   clock.Clock
	ids     IDGenerator
}

func New(records *store.Records, statsEngine *stats.Engine, clk clock.Clock, ids IDGenerator) *Ledger {
	if clk == nil {
		clk = clock.System{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Ledger{
		records: records,
		stats:   statsEngine,
		clock:   clk,
		ids:     ids,
	}
}

// AddCustomer appends a customer with a fresh id. Adding a name that
// already exists is a no-op; the full updated list is returned either way.
func (l *Ledger) AddCustomer(ctx context.Context, name string) (customers []model.Customer, err error) {
	defer func() { observe("add_customer", err) }()

	customers, err = l.records.Customers(ctx)
	if err != nil {
		return nil, err
	}
	if findCustomer(customers, name) >= 0 {
		return customers, nil
	}
	customers = append(customers, model.Customer{ID: l.ids.NewID(), Name: name})
	if err = l.records.SaveCustomers(ctx, customers); err != nil {
		return nil, err
	}
	return customers, nil
}

// AddProduct appends a product with both quantity counters set to the
// initial stock. Adding an existing name is a no-op.
func (l *Ledger) AddProduct(ctx context.Context, name string, initialQuantity int) (products []model.Product, err error) {
	defer func() { observe("add_product", err) }()

	if initialQuantity < 0 {
		return nil, fmt.Errorf("initial quantity %d: %w", initialQuantity, ErrInvalidAmount)
	}
	products, err = l.records.Products(ctx)
	if err != nil {
		return nil, err
	}
	if findProduct(products, name) >= 0 {
		return products, nil
	}
	products = append(products, model.Product{
		ID:                l.ids.NewID(),
		Name:              name,
		TotalQuantity:     initialQuantity,
		RemainingQuantity: initialQuantity,
	})
	if err = l.records.SaveProducts(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// RenameCustomer updates the customer and cascades the new name into
// every transaction, payment and redemption that referenced the old
// one. Names are the de facto foreign keys, so a rename that skipped
// the cascade would orphan the customer's whole history.
func (l *Ledger) RenameCustomer(ctx context.Context, oldName, newName string) (err error) {
	defer func() { observe("rename_customer", err) }()

	return l.records.WithinTransaction(ctx, func(ctx context.Context) error {
		customers, err := l.records.Customers(ctx)
		if err != nil {
			return err
		}
		idx := findCustomer(customers, oldName)
		if idx < 0 {
			return fmt.Errorf("customer %q: %w", oldName, ErrNotFound)
		}
		if findCustomer(customers, newName) >= 0 {
			return fmt.Errorf("customer %q: %w", newName, ErrDuplicateName)
		}
		customers[idx].Name = newName
		if err := l.records.SaveCustomers(ctx, customers); err != nil {
			return err
		}

		transactions, err := l.records.Transactions(ctx)
		if err != nil {
			return err
		}
		for i := range transactions {
			if transactions[i].CustomerName == oldName {
				transactions[i].CustomerName = newName
			}
		}
		if err := l.records.SaveTransactions(ctx, transactions); err != nil {
			return err
		}

		payments, err := l.records.Payments(ctx)
		if err != nil {
			return err
		}
		for i := range payments {
			if payments[i].CustomerName == oldName {
				payments[i].CustomerName = newName
			}
		}
		if err := l.records.SavePayments(ctx, payments); err != nil {
			return err
		}

		redemptions, err := l.records.PointRedemptions(ctx)
		if err != nil {
			return err
		}
		for i := range redemptions {
			if redemptions[i].CustomerName == oldName {
				redemptions[i].CustomerName = newName
			}
		}
		return l.records.SavePointRedemptions(ctx, redemptions)
	})
}

// RenameProduct updates the product and cascades into every
// transaction line item carrying the old name.
func (l *Ledger) RenameProduct(ctx context.Context, oldName, newName string) (err error) {
	defer func() { observe("rename_product", err) }()

	return l.records.WithinTransaction(ctx, func(ctx context.Context) error {
		products, err := l.records.Products(ctx)
		if err != nil {
			return err
		}
		idx := findProduct(products, oldName)
		if idx < 0 {
			return fmt.Errorf("product %q: %w", oldName, ErrNotFound)
		}
		if findProduct(products, newName) >= 0 {
			return fmt.Errorf("product %q: %w", newName, ErrDuplicateName)
		}
		products[idx].Name = newName
		if err := l.records.SaveProducts(ctx, products); err != nil {
			return err
		}

		transactions, err := l.records.Transactions(ctx)
		if err != nil {
			return err
		}
		for i := range transactions {
			for j := range transactions[i].Products {
				if transactions[i].Products[j].Name == oldName {
					transactions[i].Products[j].Name = newName
				}
			}
		}
		return l.records.SaveTransactions(ctx, transactions)
	})
}

// RecordTransaction validates and stores one sale: the paid/debt split
// is derived from the payment method, every line item must fit the
// product's remaining stock, and stock is only consumed when the whole
// sale is accepted. The customer is created on first purchase; products
// must already exist.
func (l *Ledger) RecordTransaction(ctx context.Context, in model.TransactionInput) (created *model.Transaction, err error) {
	defer func() { observe("record_transaction", err) }()

	if in.Amount <= 0 {
		return nil, fmt.Errorf("sale amount %.2f: %w", in.Amount, ErrInvalidAmount)
	}
	if len(in.Products) == 0 {
		return nil, fmt.Errorf("sale needs at least one product: %w", ErrInvalidAmount)
	}
	for _, item := range in.Products {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("product %q quantity %d: %w", item.Name, item.Quantity, ErrInvalidAmount)
		}
	}

	method := in.PaymentMethod
	if method == "" {
		method = model.PaymentFull
	}
	var paid, debt float64
	switch method {
	case model.PaymentFull:
		paid, debt = in.Amount, 0
	case model.PaymentDebt:
		paid, debt = 0, in.Amount
	case model.PaymentPartial:
		paid, debt = in.PaidAmount, in.DebtAmount
		if paid < 0 || debt < 0 {
			return nil, fmt.Errorf("paid %.2f, debt %.2f: %w", paid, debt, ErrInvalidAmount)
		}
		if math.Abs(paid+debt-in.Amount) > amountTolerance {
			return nil, fmt.Errorf("paid %.2f + debt %.2f != amount %.2f: %w", paid, debt, in.Amount, ErrAmountMismatch)
		}
	default:
		return nil, fmt.Errorf("payment method %q: %w", in.PaymentMethod, ErrInvalidAmount)
	}

	date := in.Date
	if date == "" {
		date = l.clock.Now().Format(dayFormat)
	}

	err = l.records.WithinTransaction(ctx, func(ctx context.Context) error {
		customers, err := l.records.Customers(ctx)
		if err != nil {
			return err
		}
		if findCustomer(customers, in.CustomerName) < 0 {
			customers = append(customers, model.Customer{ID: l.ids.NewID(), Name: in.CustomerName})
			if err := l.records.SaveCustomers(ctx, customers); err != nil {
				return err
			}
		}

		products, err := l.records.Products(ctx)
		if err != nil {
			return err
		}
		// Check and consume stock against the in-memory copy so a
		// failing line leaves nothing written. Duplicate lines for
		// one product draw down the same remaining count.
		for _, item := range in.Products {
			idx := findProduct(products, item.Name)
			if idx < 0 {
				return fmt.Errorf("product %q: %w", item.Name, ErrNotFound)
			}
			if item.Quantity > products[idx].RemainingQuantity {
				return fmt.Errorf("product %q needs %d, remaining %d: %w",
					item.Name, item.Quantity, products[idx].RemainingQuantity, ErrInsufficientStock)
			}
			products[idx].RemainingQuantity -= item.Quantity
		}
		if err := l.records.SaveProducts(ctx, products); err != nil {
			return err
		}

		transactions, err := l.records.Transactions(ctx)
		if err != nil {
			return err
		}
		t := model.Transaction{
			ID:            l.ids.NewID(),
			Timestamp:     l.clock.Now(),
			CustomerName:  in.CustomerName,
			Date:          date,
			Products:      in.Products,
			Amount:        in.Amount,
			PaymentMethod: method,
			PaidAmount:    paid,
			DebtAmount:    debt,
		}
		transactions = append(transactions, t)
		if err := l.records.SaveTransactions(ctx, transactions); err != nil {
			return err
		}
		created = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteTransaction removes a sale and hands its consumed stock back to
// every line item's product. Unknown ids are a no-op.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) (err error) {
	defer func() { observe("delete_transaction", err) }()

	return l.records.WithinTransaction(ctx, func(ctx context.Context) error {
		transactions, err := l.records.Transactions(ctx)
		if err != nil {
			return err
		}
		idx := -1
		for i := range transactions {
			if transactions[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil
		}

		products, err := l.records.Products(ctx)
		if err != nil {
			return err
		}
		for _, item := range transactions[idx].Products {
			if p := findProduct(products, item.Name); p >= 0 {
				products[p].RemainingQuantity += item.Quantity
			}
		}
		if err := l.records.SaveProducts(ctx, products); err != nil {
			return err
		}

		transactions = append(transactions[:idx], transactions[idx+1:]...)
		return l.records.SaveTransactions(ctx, transactions)
	})
}

// RecordPayment appends a debt repayment. The amount must be positive
// and may not exceed the customer's pending debt at submission time;
// there is no clamping after the fact.
func (l *Ledger) RecordPayment(ctx context.Context, customerName string, amount float64) (payment *model.Payment, err error) {
	defer func() { observe("record_payment", err) }()

	if amount <= 0 {
		return nil, fmt.Errorf("payment %.2f: %w", amount, ErrInvalidAmount)
	}
	s, err := l.stats.CustomerStats(ctx, customerName)
	if err != nil {
		return nil, err
	}
	if amount > s.PendingDebt {
		return nil, fmt.Errorf("payment %.2f exceeds pending debt %.2f: %w", amount, s.PendingDebt, ErrOverLimit)
	}

	payments, err := l.records.Payments(ctx)
	if err != nil {
		return nil, err
	}
	p := model.Payment{
		ID:           l.ids.NewID(),
		CustomerName: customerName,
		Amount:       amount,
		Date:         l.clock.Now(),
	}
	payments = append(payments, p)
	if err = l.records.SavePayments(ctx, payments); err != nil {
		return nil, err
	}
	return &p, nil
}

// RedeemPoints appends a loyalty-point spend, capped by the customer's
// derived point balance.
func (l *Ledger) RedeemPoints(ctx context.Context, customerName string, points float64) (redemption *model.PointRedemption, err error) {
	defer func() { observe("redeem_points", err) }()

	if points <= 0 {
		return nil, fmt.Errorf("points %.0f: %w", points, ErrInvalidAmount)
	}
	s, err := l.stats.CustomerStats(ctx, customerName)
	if err != nil {
		return nil, err
	}
	if points > s.CurrentPoints {
		return nil, fmt.Errorf("points %.0f exceed balance %.0f: %w", points, s.CurrentPoints, ErrOverLimit)
	}

	redemptions, err := l.records.PointRedemptions(ctx)
	if err != nil {
		return nil, err
	}
	r := model.PointRedemption{
		ID:           l.ids.NewID(),
		CustomerName: customerName,
		Points:       points,
		Date:         l.clock.Now(),
	}
	redemptions = append(redemptions, r)
	if err = l.records.SavePointRedemptions(ctx, redemptions); err != nil {
		return nil, err
	}
	return &r, nil
}

// RestockProduct raises both the remaining and the cumulative quantity.
func (l *Ledger) RestockProduct(ctx context.Context, name string, quantity int) (products []model.Product, err error) {
	defer func() { observe("restock_product", err) }()

	if quantity <= 0 {
		return nil, fmt.Errorf("restock quantity %d: %w", quantity, ErrInvalidAmount)
	}
	products, err = l.records.Products(ctx)
	if err != nil {
		return nil, err
	}
	idx := findProduct(products, name)
	if idx < 0 {
		return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
	}
	products[idx].RemainingQuantity += quantity
	products[idx].TotalQuantity += quantity
	if err = l.records.SaveProducts(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProductQuantity decrements remaining stock, floored at zero.
// RecordTransaction already rejects oversells before it gets here; the
// floor only guards direct callers.
func (l *Ledger) UpdateProductQuantity(ctx context.Context, name string, soldQuantity int) (err error) {
	defer func() { observe("update_product_quantity", err) }()

	products, err := l.records.Products(ctx)
	if err != nil {
		return err
	}
	idx := findProduct(products, name)
	if idx < 0 {
		return fmt.Errorf("product %q: %w", name, ErrNotFound)
	}
	products[idx].RemainingQuantity -= soldQuantity
	if products[idx].RemainingQuantity < 0 {
		products[idx].RemainingQuantity = 0
	}
	return l.records.SaveProducts(ctx, products)
}

// Transactions lists sales, optionally narrowed to an inclusive date
// range. A positive Limit keeps only the most recent entries, newest
// first.
func (l *Ledger) Transactions(ctx context.Context, f model.TransactionFilter) ([]model.Transaction, error) {
	transactions, err := l.records.Transactions(ctx)
	if err != nil {
		return nil, err
	}

	if f.StartDate != "" && f.EndDate != "" {
		filtered := make([]model.Transaction, 0, len(transactions))
		for _, t := range transactions {
			if t.Date >= f.StartDate && t.Date <= f.EndDate {
				filtered = append(filtered, t)
			}
		}
		transactions = filtered
	}

	if f.Limit > 0 {
		if len(transactions) > f.Limit {
			transactions = transactions[len(transactions)-f.Limit:]
		}
		recent := make([]model.Transaction, 0, len(transactions))
		for i := len(transactions) - 1; i >= 0; i-- {
			recent = append(recent, transactions[i])
		}
		transactions = recent
	}

	return transactions, nil
}

// SplitPartial returns the debt remainder for a partial payment,
// floored at zero. UI collaborators use it to prefill the debt field
// while the operator types the paid amount.
func SplitPartial(amount, paid float64) float64 {
	debt := amount - paid
	if debt < 0 {
		return 0
	}
	return debt
}

func findCustomer(customers []model.Customer, name string) int {
	for i := range customers {
		if customers[i].Name == name {
			return i
		}
	}
	return -1
}

func findProduct(products []model.Product, name string) int {
	for i := range products {
		if products[i].Name == name {
			return i
		}
	}
	return -1
}

func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	prom.IncLedgerOp(op, result)
}
