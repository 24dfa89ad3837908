package fetch

import "fmt"

// Page is one skip/first window of a subgraph collection.
type Page struct {
	Skip  int
	First int
}

// SplitPages splits the first total entities of a collection into pages of size.
func SplitPages(total, size int) ([]Page, error) {
	if size <= 0 {
		return nil, fmt.Errorf("page size must be greater than zero")
	}
	if total <= 0 {
		return nil, fmt.Errorf("total must be greater than zero")
	}

	pages := make([]Page, 0, (total+size-1)/size)
	for skip := 0; skip < total; skip += size {
		first := size
		if remaining := total - skip; remaining < size {
			first = remaining
		}
		pages = append(pages, Page{Skip: skip, First: first})
	}
	return pages, nil
}
