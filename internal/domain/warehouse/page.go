// Package warehouse holds the console's read-through copies of the warehouse backend's entities
// and the payload shapes it writes back.
package warehouse

// Envelope is the wrapper around every backend response.
type Envelope[T any] struct {
	Data      T      `json:"data"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Page is one zero-indexed slice of a server-side collection.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// SinglePage wraps an unpaginated result (such as a search) as one synthetic page.
func SinglePage[T any](items []T) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Content:       items,
		TotalElements: int64(len(items)),
		TotalPages:    1,
		Size:          len(items),
		Number:        0,
	}
}

// ValidatePageRequest checks the page/size pair before it is sent.
func ValidatePageRequest(page, size int) error {
	if page < 0 || size <= 0 {
		return ErrInvalidPageRequest
	}
	return nil
}

// ClampPage clamps index into [0, totalPages-1]. With no pages the only valid index is 0.
func ClampPage(index, totalPages int) int {
	if totalPages <= 0 || index < 0 {
		return 0
	}
	if index > totalPages-1 {
		return totalPages - 1
	}
	return index
}
