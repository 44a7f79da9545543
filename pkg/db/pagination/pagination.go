package pagination

import "gorm.io/gorm"

const (
	DefaultPageSize = 100
	MaxPageSize     = 500
)

type Pagination struct {
	Offset int `form:"offset"`
	Limit  int `form:"limit,default=100"`
}

// Normalize clamps the requested page to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return stmt.Offset(p.Offset).Limit(p.Limit)
}
