package parser

import (
	"reflect"
	"testing"
)

func TestCoerceArgsScalars(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`q="the hobbit", by='title', customer_id=42, price=12.99, flag=yes`)

	want := map[string]any{
		"q":           "the hobbit",
		"by":          "title",
		"customer_id": 42,
		"price":       12.99,
		"flag":        "yes",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("got %#v, want %#v", args, want)
	}
}

func TestCoerceArgsQuotedDigitsStayStrings(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`isbn="9780547928227"`)
	if got, ok := args["isbn"].(string); !ok || got != "9780547928227" {
		t.Fatalf("isbn = %#v, want the string form", args["isbn"])
	}
}

func TestCoerceArgsBareDigitsBecomeInt(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`order_id=7`)
	if got, ok := args["order_id"].(int); !ok || got != 7 {
		t.Fatalf("order_id = %#v, want int 7", args["order_id"])
	}
}

func TestCoerceArgsItemsList(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`customer_id=1, items=[{"isbn": "9780547928227", "qty": 2}]`)

	list, ok := args["items"].([]any)
	if !ok {
		t.Fatalf("items = %#v, want a list", args["items"])
	}
	if len(list) != 1 {
		t.Fatalf("items has %d entries, want 1", len(list))
	}

	item, ok := list[0].(map[string]any)
	if !ok {
		t.Fatalf("items[0] = %#v, want an object", list[0])
	}
	if item["isbn"] != "9780547928227" {
		t.Fatalf("isbn = %#v", item["isbn"])
	}
	if qty, ok := item["qty"].(float64); !ok || qty != 2 {
		t.Fatalf("qty = %#v, want 2", item["qty"])
	}
}

func TestCoerceArgsQuotedItemsStillParsed(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`items='[{"isbn": "9780141439518", "qty": 1}]'`)
	if _, ok := args["items"].([]any); !ok {
		t.Fatalf("items = %#v, want a parsed list", args["items"])
	}
}

func TestCoerceArgsMalformedItemsFallsBackToString(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`items=[not json at all]`)
	if got, ok := args["items"].(string); !ok || got != "[not json at all]" {
		t.Fatalf("items = %#v, want the raw string", args["items"])
	}
}

func TestCoerceArgsEmptyQuotedValue(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`q=""`)
	if got, ok := args["q"].(string); !ok || got != "" {
		t.Fatalf("q = %#v, want empty string", args["q"])
	}
}

func TestCoerceArgsEmptyRaw(t *testing.T) {
	t.Parallel()

	if args := CoerceArgs("   "); args != nil {
		t.Fatalf("got %#v, want nil", args)
	}
}

func TestCoerceArgsTrimsBareTokens(t *testing.T) {
	t.Parallel()

	args := CoerceArgs(`by= author , qty = 3`)
	if args["by"] != "author" {
		t.Fatalf("by = %#v", args["by"])
	}
	if args["qty"] != 3 {
		t.Fatalf("qty = %#v", args["qty"])
	}
}
