package util

import (
	"math"
	"strconv"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > MaxPageSize {
		size = DefaultPageSize
	}
	// Pages past math.MaxInt/size would overflow the offset.
	if page-1 > math.MaxInt/size {
		return math.MaxInt, size
	}
	offset = (page - 1) * size
	return offset, size
}

func ParseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Page cuts one page out of items.
func Page[T any](items []T, page, size int) []T {
	offset, limit := Calculate(page, size)
	if offset < 0 || offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) || end < offset {
		end = len(items)
	}
	return items[offset:end]
}
