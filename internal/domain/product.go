package domain

// Product is a bookable GYG tour as stored in the product catalog.
type Product struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
