package fixtures

import (
	"github.com/alimjan/wholesale-crm/internal/model"
)

// Catalogue seeded by the e2e suites.
var (
	ProductSoap = model.Product{Name: "Soap", TotalQuantity: 120, RemainingQuantity: 120}
	ProductRice = model.Product{Name: "Rice 25kg", TotalQuantity: 40, RemainingQuantity: 40}
	ProductOil  = model.Product{Name: "Cooking Oil 5L", TotalQuantity: 8, RemainingQuantity: 8}
)

func NewFullSale(customer, date string, amount float64, lines ...model.LineItem) model.TransactionInput {
	return model.TransactionInput{
		CustomerName:  customer,
		Date:          date,
		Products:      lines,
		Amount:        amount,
		PaymentMethod: model.PaymentFull,
	}
}

func NewPartialSale(customer, date string, amount, paid float64, lines ...model.LineItem) model.TransactionInput {
	return model.TransactionInput{
		CustomerName:  customer,
		Date:          date,
		Products:      lines,
		Amount:        amount,
		PaymentMethod: model.PaymentPartial,
		PaidAmount:    paid,
		DebtAmount:    amount - paid,
	}
}

func NewDebtSale(customer, date string, amount float64, lines ...model.LineItem) model.TransactionInput {
	return model.TransactionInput{
		CustomerName:  customer,
		Date:          date,
		Products:      lines,
		Amount:        amount,
		PaymentMethod: model.PaymentDebt,
		DebtAmount:    amount,
	}
}

func Line(name string, quantity int) model.LineItem {
	return model.LineItem{Name: name, Quantity: quantity}
}
