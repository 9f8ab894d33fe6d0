package model

// Customer is identified cross-collection by its unique, case-sensitive
// name. The opaque id exists only for list bookkeeping; transactions,
// payments and redemptions all reference the name.
type Customer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
