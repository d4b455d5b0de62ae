package tool

import (
	"context"
	"errors"
	"fmt"

	"bookdesk/store"
)

// ISBNPrefix marks an identifier as a literal ISBN rather than a title
// fragment.
const ISBNPrefix = "978"

// DisambiguationDetail selects which extra column the candidate listing
// shows, matching the tool that triggered it.
type DisambiguationDetail int

const (
	DetailNone DisambiguationDetail = iota
	DetailStock
	DetailPrice
)

// Disambiguation is returned, instead of any mutation, when a title
// fragment matches more than one book. It is terminal for the turn; the
// user is expected to retry with an exact ISBN.
type Disambiguation struct {
	Query      string
	Candidates []store.Book
	Detail     DisambiguationDetail
}

// resolveBook turns an ISBN-or-title reference into exactly one book.
// It returns a Disambiguation when the reference is ambiguous.
func (t *toolset) resolveBook(ctx context.Context, ref string, detail DisambiguationDetail) (*store.Book, *Disambiguation, error) {
	book, err := t.store.GetBook(ctx, ref)
	if err == nil {
		return book, nil, nil
	}
	if !errors.Is(err, store.ErrBookNotFound) {
		return nil, nil, err
	}

	if isISBN(ref) {
		return nil, nil, fmt.Errorf("book with ISBN %s not found", ref)
	}

	matches, err := t.store.FindBooks(ctx, ref, store.SearchByTitle)
	if err != nil {
		return nil, nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil, fmt.Errorf("no book found matching %q", ref)
	case 1:
		return &matches[0], nil, nil
	default:
		return nil, &Disambiguation{Query: ref, Candidates: matches, Detail: detail}, nil
	}
}

func isISBN(ref string) bool {
	return len(ref) >= len(ISBNPrefix) && ref[:len(ISBNPrefix)] == ISBNPrefix
}
