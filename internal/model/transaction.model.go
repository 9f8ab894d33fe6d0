package model

import "time"

const (
	PaymentFull    = "full"
	PaymentPartial = "partial"
	PaymentDebt    = "debt"
)

type LineItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Transaction is immutable once recorded, except for name-cascade
// updates on customer/product renames. Date is the user-supplied sale
// date (YYYY-MM-DD); Timestamp is the creation instant.
type Transaction struct {
	ID            string     `json:"id"`
	Timestamp     time.Time  `json:"timestamp"`
	CustomerName  string     `json:"customerName"`
	Date          string     `json:"date"`
	Products      []LineItem `json:"products"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"paymentMethod"`
	PaidAmount    float64    `json:"paidAmount"`
	DebtAmount    float64    `json:"debtAmount"`
}

// Normalize applies the read-time fallbacks that keep old exported data
// loadable: missing payment method means fully paid, and a fully-paid
// record with a zero paid amount inherits the transaction amount.
func (t *Transaction) Normalize() {
	if t.PaymentMethod == "" {
		t.PaymentMethod = PaymentFull
	}
	if t.PaymentMethod == PaymentFull && t.PaidAmount == 0 {
		t.PaidAmount = t.Amount
	}
}

// TransactionInput carries a sale as submitted by the caller. The
// paid/debt split is derived from PaymentMethod; PaidAmount and
// DebtAmount are consulted only for partial payments.
type TransactionInput struct {
	CustomerName  string
	Date          string
	Products      []LineItem
	Amount        float64
	PaymentMethod string
	PaidAmount    float64
	DebtAmount    float64
}

// TransactionFilter narrows transaction listings. Dates compare as
// YYYY-MM-DD strings, bounds inclusive; Limit > 0 keeps only the most
// recent entries, newest first.
type TransactionFilter struct {
	StartDate string
	EndDate   string
	Limit     int
}
