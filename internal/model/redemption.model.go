package model

import "time"

// PointRedemption is an append-only loyalty-point spend. Points are
// earned 1:1 with transaction amounts and never stored directly; the
// current balance is derived from history.
type PointRedemption struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customerName"`
	Points       float64   `json:"points"`
	Date         time.Time `json:"date"`
}
