package domain

import "time"

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
)

// Price is a monetary amount in a single currency.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Product is a catalog entry owned by a seller.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       Price     `json:"price"`
	SellerID    string    `json:"seller"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
