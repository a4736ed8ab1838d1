// Package repo holds the storage backends. GormRepo talks to postgres or
// sqlite, FileRepo keeps one JSON array per collection under a data directory.
// Both satisfy the repository interfaces declared by the service package.
package repo

import "errors"

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// ProductFilter narrows a product listing. Zero values mean "no constraint".
type ProductFilter struct {
	Featured   bool
	Discounted bool
	Category   string
	Keyword    string
	Limit      int
}
