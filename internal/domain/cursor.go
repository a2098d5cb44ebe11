package domain

import "time"

// Cursor models the keyset pagination token shared by every list operation.
type Cursor struct {
	At time.Time
	ID string
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ClampLimit normalises a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
