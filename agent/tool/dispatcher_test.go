package tool

import (
	"context"
	"strings"
	"testing"

	"bookdesk/agent/parser"
	"bookdesk/store"
	"bookdesk/store/memory"
)

func newDispatcher() (*Dispatcher, *memory.MemStore) {
	st := memory.NewSeeded()
	return NewDispatcher(NewRegistry(st), st), st
}

func run(t *testing.T, d *Dispatcher, text string) string {
	t.Helper()
	invs := parser.Parse(text)
	if len(invs) == 0 {
		t.Fatalf("no invocations parsed from %q", text)
	}
	return d.Run(context.Background(), "test-session", invs)
}

func TestFindBooksListing(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, `TOOL: find_books(q="hobbit")`)
	for _, want := range []string{"Found 1 book(s):", "The Hobbit", "J.R.R. Tolkien", "$14.99", "Stock: 12 units"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFindBooksByAuthor(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, `TOOL: find_books(q="tolkien", by="author")`)
	if !strings.Contains(out, "The Hobbit") {
		t.Fatalf("output:\n%s", out)
	}
}

func TestFindBooksNoMatch(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, `TOOL: find_books(q="zzz")`)
	if out != "No books found matching 'zzz' in title." {
		t.Fatalf("output = %q", out)
	}
}

func TestCreateOrderReducesStock(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	out := run(t, d, `TOOL: create_order(customer_id=1, items=[{"isbn": "9780743273565", "qty": 2}])`)
	for _, want := range []string{"created!", "Alice Johnson", "Total: $21.98", "The Great Gatsby - Qty: 2 @ $10.99", "1 remaining"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	book, err := st.GetBook(context.Background(), "9780743273565")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if book.Stock != 1 {
		t.Fatalf("stock = %d, want 1", book.Stock)
	}
}

func TestCreateOrderByTitleFragment(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	out := run(t, d, `TOOL: create_order(customer_id=2, items=[{"isbn": "dune", "qty": 1}])`)
	if !strings.Contains(out, "Dune") || !strings.Contains(out, "created!") {
		t.Fatalf("output:\n%s", out)
	}

	book, _ := st.GetBook(context.Background(), "9780441172719")
	if book.Stock != 5 {
		t.Fatalf("stock = %d, want 5", book.Stock)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	out := run(t, d, `TOOL: create_order(customer_id=1, items=[{"isbn": "9780743273565", "qty": 50}])`)
	if !strings.Contains(out, "Error: insufficient stock for The Great Gatsby. Available: 3, Requested: 50") {
		t.Fatalf("output = %q", out)
	}

	book, _ := st.GetBook(context.Background(), "9780743273565")
	if book.Stock != 3 {
		t.Fatalf("stock = %d, want untouched 3", book.Stock)
	}
}

func TestCreateOrderUnknownCustomer(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, `TOOL: create_order(customer_id=99, items=[{"isbn": "9780547928227", "qty": 1}])`)
	if !strings.HasPrefix(out, "Error:") {
		t.Fatalf("output = %q", out)
	}
}

func TestRestockByTitleFragment(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	out := run(t, d, `TOOL: restock_book(isbn="mockingbird", qty=3)`)
	for _, want := range []string{"Restocked: To Kill a Mockingbird", "Previous: 10", "Added: +3", "New Stock: 13"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	book, _ := st.GetBook(context.Background(), "9780061120084")
	if book.Stock != 13 {
		t.Fatalf("stock = %d, want 13", book.Stock)
	}
}

func TestRestockRejectsNonPositiveQty(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, `TOOL: restock_book(isbn="9780547928227", qty=0)`)
	if !strings.HasPrefix(out, "Error:") {
		t.Fatalf("output = %q", out)
	}
}

func TestAmbiguousTitleListsCandidatesWithoutMutation(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	// "the" matches several seeded titles.
	out := run(t, d, `TOOL: restock_book(isbn="the", qty=5)`)
	if !strings.Contains(out, "Please specify:") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, "ISBN: 9780547928227") {
		t.Fatalf("candidates missing ISBN:\n%s", out)
	}
	if !strings.Contains(out, "Stock:") {
		t.Fatalf("restock disambiguation should show stock:\n%s", out)
	}

	book, _ := st.GetBook(context.Background(), "9780547928227")
	if book.Stock != 12 {
		t.Fatalf("stock = %d, want untouched 12", book.Stock)
	}
}

func TestUpdatePrice(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	out := run(t, d, `TOOL: update_price(isbn="9780451524935", price=8.49)`)
	for _, want := range []string{"Price updated: 1984", "Old: $9.99", "New: $8.49"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	book, _ := st.GetBook(context.Background(), "9780451524935")
	if book.Price.StringFixed(2) != "8.49" {
		t.Fatalf("price = %s", book.Price)
	}
}

func TestUpdatePriceRejectsNegative(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	out := run(t, d, `TOOL: update_price(isbn="9780451524935", price=-1)`)
	if !strings.HasPrefix(out, "Error:") {
		t.Fatalf("output = %q", out)
	}

	book, _ := st.GetBook(context.Background(), "9780451524935")
	if book.Price.StringFixed(2) != "9.99" {
		t.Fatalf("price changed to %s", book.Price)
	}
}

func TestOrderStatusOutput(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	if _, err := st.CreateOrder(context.Background(), 1, []store.OrderLine{{ISBN: "9780547928227", Qty: 2}}); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	out := run(t, d, `TOOL: order_status(order_id=1)`)
	for _, want := range []string{"Order #1 - COMPLETED", "Customer: Alice Johnson", "Total: $29.98", "The Hobbit by J.R.R. Tolkien", "Qty: 2 @ $14.99"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInventorySummaryOutput(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, `TOOL: inventory_summary()`)
	for _, want := range []string{"INVENTORY SUMMARY", "Total Titles: 6", "Total Books: 43", "LOW STOCK (< 5 units):", "The Great Gatsby"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestUnknownToolContinuesBatch(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, "TOOL: teleport_books(q=\"x\")\nTOOL: inventory_summary()")
	if !strings.Contains(out, "Unknown tool: teleport_books") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, "INVENTORY SUMMARY") {
		t.Fatalf("second invocation skipped:\n%s", out)
	}
}

func TestResultsJoinedWithBlankLine(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher()

	out := run(t, d, "TOOL: find_books(q=\"dune\")\nTOOL: find_books(q=\"1984\")")
	if strings.Count(out, "Found 1 book(s):") != 2 {
		t.Fatalf("expected two listings:\n%s", out)
	}
	if !strings.Contains(out, "Dune") || !strings.Contains(out, "1984") {
		t.Fatalf("results missing:\n%s", out)
	}
}

func TestDispatchRecordsAudit(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher()

	run(t, d, `TOOL: find_books(q="dune")`)
	if st.ToolCallCount() != 1 {
		t.Fatalf("audit count = %d, want 1", st.ToolCallCount())
	}
}
