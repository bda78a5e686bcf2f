// Package orm holds query helpers shared by the repositories.
package orm

import (
	"math"

	"gorm.io/gorm"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination is the page metadata returned with every list.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination normalises page/limit and computes ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	page, limit = Normalize(page, limit)
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// Normalize applies the defaults and clamps limit to MaxLimit.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset is the number of rows skipped before page. It saturates at
// math.MaxInt instead of wrapping for huge page numbers.
func (p Pagination) Offset() int {
	page, limit := Normalize(p.Page, p.Limit)
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// Paginate is a gorm scope applying OFFSET/LIMIT for page:
//
//	db.Scopes(orm.Paginate(2, 10)).Find(&products)
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	page, limit = Normalize(page, limit)
	offset := Pagination{Page: page, Limit: limit}.Offset()
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}

// OrderBy is a gorm scope ordering by column then id in the same direction,
// so rows with equal sort keys keep a stable position across pages. column
// must come from a whitelist; it is not quoted.
func OrderBy(column string, desc bool) func(*gorm.DB) *gorm.DB {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return func(db *gorm.DB) *gorm.DB {
		if column == "id" {
			return db.Order("id " + dir)
		}
		return db.Order(column + " " + dir).Order("id " + dir)
	}
}
