package models

// CartLine is one priced line of a cart view. It is computed from the
// current catalog row on every read and never stored.
type CartLine struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
	ImageURL    *string `json:"image_url"`
}

// CartView is the priced, denormalized projection of a session's cart.
type CartView struct {
	Items      []CartLine `json:"items"`
	GrandTotal float64    `json:"grand_total"`
	TotalItems int        `json:"total_items"`
}
