package transaction

import "fmt"

const maxPageSize = 500

// Paginate returns one window of the merged list. page is 1-based. A page
// past the end of the list is valid and returns an empty window with the
// total count intact, so clients can render "no more results" without a
// separate count call.
func Paginate(items []Transaction, page, pageSize int) (*Page, error) {
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be >= 1, got %d", ErrInvalidArgument, page)
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, fmt.Errorf("%w: pageSize must be between 1 and %d, got %d", ErrInvalidArgument, maxPageSize, pageSize)
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return &Page{
			Number:     page,
			Size:       pageSize,
			TotalItems: len(items),
			Items:      []Transaction{},
		}, nil
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	return &Page{
		Number:     page,
		Size:       pageSize,
		TotalItems: len(items),
		Items:      items[start:end],
	}, nil
}
