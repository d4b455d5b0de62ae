package store

import "github.com/shopspring/decimal"

// SeedBooks is the demo catalog loaded into an empty store.
func SeedBooks() []Book {
	price := func(raw string) decimal.Decimal { return decimal.RequireFromString(raw) }
	return []Book{
		{ISBN: "9780547928227", Title: "The Hobbit", Author: "J.R.R. Tolkien", Price: price("14.99"), Stock: 12},
		{ISBN: "9780451524935", Title: "1984", Author: "George Orwell", Price: price("9.99"), Stock: 8},
		{ISBN: "9780441172719", Title: "Dune", Author: "Frank Herbert", Price: price("18.00"), Stock: 6},
		{ISBN: "9780743273565", Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Price: price("10.99"), Stock: 3},
		{ISBN: "9780060850524", Title: "Brave New World", Author: "Aldous Huxley", Price: price("12.50"), Stock: 4},
		{ISBN: "9780061120084", Title: "To Kill a Mockingbird", Author: "Harper Lee", Price: price("11.25"), Stock: 10},
	}
}

// SeedCustomers is the demo customer list loaded into an empty store.
func SeedCustomers() []Customer {
	return []Customer{
		{ID: 1, Name: "Alice Johnson", Email: "alice@example.com"},
		{ID: 2, Name: "Bob Martinez", Email: "bob@example.com"},
	}
}
