package domain

// CartLine is one pending, unconfirmed order item for a user. LineTotal is
// computed once from the unit price when the line is created and is never
// re-derived afterwards.
type CartLine struct {
	BookID    int64   `json:"book_id" bson:"book_id"`
	UserID    int64   `json:"user_id" bson:"user_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	BookName  string  `json:"book_name" bson:"book_name"`
	Price     float64 `json:"price" bson:"price"`
	LineTotal float64 `json:"line_total" bson:"line_total"`
	BookImage string  `json:"book_image" bson:"book_image"`
}

// Invoice is the immutable record of a confirmed order. The store assigns
// InvoiceNumber; CreatedAt is a second-resolution "2006-01-02 15:04:05"
// string used to correlate quantity rows with their invoice.
type Invoice struct {
	InvoiceNumber int64   `json:"invoice_number"`
	UserID        int64   `json:"user_id"`
	CreatedAt     string  `json:"created_at"`
	FinalAmount   float64 `json:"final_amount"`
	Books         []Book  `json:"books"`
}

// LineQuantity records the purchased quantity of one book on one invoice.
type LineQuantity struct {
	InvoiceNumber int64  `json:"invoice_number"`
	BookID        int64  `json:"book_id"`
	UserID        int64  `json:"user_id"`
	Quantity      int    `json:"quantity"`
	CreatedAt     string `json:"created_at"`
}

// Identity is the user record resolved from the identity API. It lives for
// one request chain only and is never cached on a service struct.
type Identity struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// PlacedOrderDetail is one (invoice, book) pair of the order history,
// flattened for the caller. Quantity is the purchased quantity, not stock.
type PlacedOrderDetail struct {
	InvoiceNumber int64   `json:"invoice_number"`
	CreatedAt     string  `json:"created_at"`
	BookID        int64   `json:"book_id"`
	BookName      string  `json:"book_name"`
	AuthorName    string  `json:"author_name"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity"`
	BookImage     string  `json:"book_image"`
}

// CreatedAtLayout is the invoice timestamp format shared by the order
// tables and the quantity correlation lookups.
const CreatedAtLayout = "2006-01-02 15:04:05"
