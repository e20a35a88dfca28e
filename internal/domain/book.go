package domain

// Book is a catalog record. Quantity holds the stock count; order-history
// responses reuse the same field to carry the purchased quantity.
type Book struct {
	BookID     int64   `json:"book_id" bson:"book_id"`
	BookName   string  `json:"book_name" bson:"book_name"`
	AuthorName string  `json:"author_name" bson:"author_name"`
	Price      float64 `json:"price" bson:"price"`
	Quantity   int     `json:"quantity" bson:"quantity"`
	BookImage  string  `json:"book_image" bson:"book_image"`
}
