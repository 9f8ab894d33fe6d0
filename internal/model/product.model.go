package model

type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// TotalQuantity is the cumulative quantity ever stocked,
	// RemainingQuantity the current on-hand count (never negative).
	TotalQuantity     int `json:"totalQuantity"`
	RemainingQuantity int `json:"remainingQuantity"`
}
