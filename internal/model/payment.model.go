package model

import "time"

// Payment is an append-only debt repayment event.
type Payment struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
}
