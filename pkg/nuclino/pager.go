package nuclino

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nuclino-community/nuclino-go/pkg/client"
)

// MaxPageLimit is the largest page size the API accepts.
const MaxPageLimit = 100

// Page is one bounded slice of a listing, with the cursor to resume from.
type Page[T any] struct {
	// Results holds the page's entries in server order.
	Results []T

	// After is the cursor identifying the position after the last entry.
	After string

	// HasMore indicates whether another page may exist.
	HasMore bool
}

// Pager lazily walks a cursor-paginated listing. Entries are fetched one
// page at a time, so callers needing only the first few results never pull
// the whole collection. A Pager is single-use and not safe for concurrent
// callers; issue a fresh facade call to restart from the beginning.
type Pager[T any] struct {
	api      *client.Client
	path     string
	query    url.Values
	pageSize int
	decode   func(json.RawMessage) (T, error)
	cursorOf func(T) string

	buf     []T
	idx     int
	after   string
	hasMore bool
	started bool
	err     error
}

// newPager builds a pager over path with the given base query. A pageSize
// of 0 requests the API maximum per page.
func newPager[T any](api *client.Client, path string, query url.Values, pageSize int,
	decode func(json.RawMessage) (T, error), cursorOf func(T) string) *Pager[T] {
	if pageSize <= 0 || pageSize > MaxPageLimit {
		pageSize = MaxPageLimit
	}
	return &Pager[T]{
		api:      api,
		path:     path,
		query:    query,
		pageSize: pageSize,
		decode:   decode,
		cursorOf: cursorOf,
		hasMore:  true,
	}
}

// Next advances to the next entry, fetching a new page when the current one
// is consumed. It returns false when the listing is exhausted or an error
// occurred; check Err afterwards.
func (p *Pager[T]) Next(ctx context.Context) bool {
	if p.err != nil {
		return false
	}

	if p.idx < len(p.buf) {
		p.idx++
		return true
	}

	if p.started && !p.hasMore {
		return false
	}

	page, err := p.NextPage(ctx)
	if err != nil {
		p.err = err
		return false
	}
	if len(page.Results) == 0 {
		return false
	}

	p.buf = page.Results
	p.idx = 1
	return true
}

// Entry returns the entry Next advanced to.
func (p *Pager[T]) Entry() T {
	var zero T
	if p.idx == 0 || p.idx > len(p.buf) {
		return zero
	}
	return p.buf[p.idx-1]
}

// Err returns the error that stopped iteration, if any.
func (p *Pager[T]) Err() error {
	return p.err
}

// NextPage fetches the next page directly. The listing is finished when the
// returned page's HasMore is false. Mixing NextPage with Next on the same
// Pager is not supported.
func (p *Pager[T]) NextPage(ctx context.Context) (*Page[T], error) {
	if !p.hasMore && p.started {
		return &Page[T]{HasMore: false}, nil
	}

	query := url.Values{}
	for key, values := range p.query {
		query[key] = values
	}
	query.Set("limit", strconv.Itoa(p.pageSize))
	if p.after != "" {
		query.Set("after", p.after)
	}

	raw, err := p.api.Get(ctx, p.path, query)
	if err != nil {
		return nil, err
	}

	results, err := decodeList(raw)
	if err != nil {
		return nil, fmt.Errorf("page decode: %w", err)
	}

	page := &Page[T]{Results: make([]T, 0, len(results))}
	for _, entry := range results {
		decoded, err := p.decode(entry)
		if err != nil {
			return nil, fmt.Errorf("page decode: %w", err)
		}
		page.Results = append(page.Results, decoded)
	}

	p.started = true

	// A short or empty page is the final one; otherwise resume after the
	// last entry, whatever its kind.
	if len(page.Results) < p.pageSize {
		p.hasMore = false
	} else {
		page.After = p.cursorOf(page.Results[len(page.Results)-1])
		p.after = page.After
		p.hasMore = page.After != ""
	}
	page.HasMore = p.hasMore

	return page, nil
}

// All materializes the remaining entries into a slice, preserving server
// order.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	var all []T
	for p.Next(ctx) {
		all = append(all, p.Entry())
	}
	if err := p.Err(); err != nil {
		return nil, err
	}
	return all, nil
}
