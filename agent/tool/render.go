package tool

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bookdesk/store"
)

// Render is the presentation boundary: it turns a structured tool result
// into the user-facing text. Unrecognized results fall back to fmt.
func Render(result any) string {
	switch r := result.(type) {
	case BookListing:
		return renderBookListing(r)
	case Disambiguation:
		return renderDisambiguation(r)
	case OrderCreated:
		return renderOrderCreated(r)
	case Restocked:
		return renderRestocked(r)
	case PriceUpdated:
		return renderPriceUpdated(r)
	case OrderStatus:
		return renderOrderStatus(r)
	case InventoryReport:
		return renderInventoryReport(r)
	default:
		return fmt.Sprint(result)
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func renderBookListing(r BookListing) string {
	if len(r.Books) == 0 {
		return fmt.Sprintf("No books found matching '%s' in %s.", r.Query, r.Field)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d book(s):\n\n", len(r.Books))
	for _, book := range r.Books {
		fmt.Fprintf(&b, "%s\n", book.Title)
		fmt.Fprintf(&b, "  Author: %s\n", book.Author)
		fmt.Fprintf(&b, "  ISBN: %s\n", book.ISBN)
		fmt.Fprintf(&b, "  Price: %s\n", money(book.Price))
		fmt.Fprintf(&b, "  Stock: %d units\n\n", book.Stock)
	}
	return strings.TrimSpace(b.String())
}

func renderDisambiguation(r Disambiguation) string {
	var b strings.Builder
	if r.Detail == DetailNone {
		fmt.Fprintf(&b, "Multiple books found for '%s'. Please specify:\n\n", r.Query)
	} else {
		fmt.Fprintf(&b, "Found %d books matching '%s'. Please specify:\n\n", len(r.Candidates), r.Query)
	}
	for _, book := range r.Candidates {
		switch r.Detail {
		case DetailStock:
			fmt.Fprintf(&b, "  • %s (ISBN: %s) - Stock: %d\n", book.Title, book.ISBN, book.Stock)
		case DetailPrice:
			fmt.Fprintf(&b, "  • %s (ISBN: %s) - %s\n", book.Title, book.ISBN, money(book.Price))
		default:
			fmt.Fprintf(&b, "  • %s (ISBN: %s)\n", book.Title, book.ISBN)
		}
	}
	return strings.TrimSpace(b.String())
}

func renderOrderCreated(r OrderCreated) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d created!\n\n", r.Order.OrderID)
	fmt.Fprintf(&b, "Customer: %s (%s)\n", r.Customer.Name, r.Customer.Email)
	fmt.Fprintf(&b, "Total: %s\n\n", money(r.Order.TotalAmount))
	b.WriteString("Items:\n")
	for _, item := range r.Order.Items {
		fmt.Fprintf(&b, "  • %s - Qty: %d @ %s\n", item.Title, item.Quantity, money(item.PriceAtPurchase))
	}
	b.WriteString("\nUpdated stock:\n")
	for _, level := range r.Order.UpdatedStock {
		fmt.Fprintf(&b, "  • %s: %d remaining\n", level.Title, level.Stock)
	}
	return strings.TrimSpace(b.String())
}

func renderRestocked(r Restocked) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Restocked: %s\n", r.Title)
	fmt.Fprintf(&b, "  Previous: %d\n", r.Previous)
	fmt.Fprintf(&b, "  Added: +%d\n", r.Added)
	fmt.Fprintf(&b, "  New Stock: %d", r.Stock)
	return b.String()
}

func renderPriceUpdated(r PriceUpdated) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Price updated: %s\n", r.Title)
	fmt.Fprintf(&b, "  Old: %s\n", money(r.OldPrice))
	fmt.Fprintf(&b, "  New: %s", money(r.NewPrice))
	return b.String()
}

func renderOrderStatus(r OrderStatus) string {
	d := r.Detail

	var b strings.Builder
	fmt.Fprintf(&b, "Order #%d - %s\n\n", d.ID, strings.ToUpper(d.Status))
	fmt.Fprintf(&b, "Customer: %s\n", d.CustomerName)
	fmt.Fprintf(&b, "Total: %s\n", money(d.TotalAmount))
	fmt.Fprintf(&b, "Date: %s\n\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("Items:\n")
	for _, item := range d.Items {
		fmt.Fprintf(&b, "  • %s by %s\n", item.Title, item.Author)
		fmt.Fprintf(&b, "    Qty: %d @ %s\n\n", item.Quantity, money(item.PriceAtPurchase))
	}
	return strings.TrimSpace(b.String())
}

func renderInventoryReport(r InventoryReport) string {
	s := r.Summary

	var b strings.Builder
	b.WriteString("INVENTORY SUMMARY\n\n")
	fmt.Fprintf(&b, "Total Titles: %d\n", s.TotalTitles)
	fmt.Fprintf(&b, "Total Books: %d\n", s.TotalUnits)
	fmt.Fprintf(&b, "Total Value: %s\n\n", money(s.TotalValue))

	if len(s.LowStock) == 0 {
		b.WriteString("All books adequately stocked.")
		return b.String()
	}

	fmt.Fprintf(&b, "LOW STOCK (< %d units):\n\n", store.LowStockThreshold)
	for _, book := range s.LowStock {
		fmt.Fprintf(&b, "  • %s\n", book.Title)
		fmt.Fprintf(&b, "    Stock: %d units\n", book.Stock)
		fmt.Fprintf(&b, "    ISBN: %s\n\n", book.ISBN)
	}
	return strings.TrimSpace(b.String())
}
