package store

import (
	"context"

	"github.com/alimjan/wholesale-crm/internal/model"
)

// Collection names. These double as the persisted keys, so they must
// not change once data exists.
const (
	CollectionCustomers        = "customers"
	CollectionProducts         = "products"
	CollectionTransactions     = "transactions"
	CollectionPayments         = "payments"
	CollectionPointRedemptions = "pointRedemptions"
)

// Records is the typed accessor over the five CRM collections.
type Records struct {
	store Store
}

func NewRecords(store Store) *Records {
	return &Records{store: store}
}

func (r *Records) Customers(ctx context.Context) ([]model.Customer, error) {
	customers := []model.Customer{}
	if err := r.store.Get(ctx, CollectionCustomers, &customers); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *Records) SaveCustomers(ctx context.Context, customers []model.Customer) error {
	return r.store.Set(ctx, CollectionCustomers, customers)
}

func (r *Records) Products(ctx context.Context) ([]model.Product, error) {
	products := []model.Product{}
	if err := r.store.Get(ctx, CollectionProducts, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Records) SaveProducts(ctx context.Context, products []model.Product) error {
	return r.store.Set(ctx, CollectionProducts, products)
}

func (r *Records) Transactions(ctx context.Context) ([]model.Transaction, error) {
	transactions := []model.Transaction{}
	if err := r.store.Get(ctx, CollectionTransactions, &transactions); err != nil {
		return nil, err
	}
	for i := range transactions {
		transactions[i].Normalize()
	}
	return transactions, nil
}

func (r *Records) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	return r.store.Set(ctx, CollectionTransactions, transactions)
}

func (r *Records) Payments(ctx context.Context) ([]model.Payment, error) {
	payments := []model.Payment{}
	if err := r.store.Get(ctx, CollectionPayments, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *Records) SavePayments(ctx context.Context, payments []model.Payment) error {
	return r.store.Set(ctx, CollectionPayments, payments)
}

func (r *Records) PointRedemptions(ctx context.Context) ([]model.PointRedemption, error) {
	redemptions := []model.PointRedemption{}
	if err := r.store.Get(ctx, CollectionPointRedemptions, &redemptions); err != nil {
		return nil, err
	}
	return redemptions, nil
}

func (r *Records) SavePointRedemptions(ctx context.Context, redemptions []model.PointRedemption) error {
	return r.store.Set(ctx, CollectionPointRedemptions, redemptions)
}

func (r *Records) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.store.WithinTransaction(ctx, fn)
}
