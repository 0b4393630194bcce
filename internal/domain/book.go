package domain

type Book struct {
	ID       int64    `json:"id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	ISBN     string   `json:"isbn"`
	Year     int      `json:"bookYear"`
	Price    float64  `json:"price"`
	Category Category `json:"category"`
	URL      string   `json:"url"`
}

// BookSales is a catalog row ranked by the total quantity sold
// across checked-out carts.
type BookSales struct {
	BookID   int64   `json:"bookid"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     string  `json:"isbn"`
	Year     int     `json:"bookYear"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
	Quantity int64   `json:"quantity"`
}

// BookInCart is one line of a cart or order view: the book joined
// with its quantity in the cart.
type BookInCart struct {
	BookID   int64   `json:"bookid"`
	CartID   int64   `json:"cartid"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     string  `json:"isbn"`
	Year     int     `json:"bookYear"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	URL      string  `json:"url"`
}
