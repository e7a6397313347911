package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"customer-order-api/internal/domain"
)

// SortColumns maps a lower-cased sortable field name to its column.
// Names missing from the table are ignored by Paginate.
type SortColumns map[string]clause.Column

func (s SortColumns) lookup(field string) (clause.Column, bool) {
	col, ok := s[strings.ToLower(strings.TrimSpace(field))]
	return col, ok
}

// pageSpec describes how one entity is searched and sorted.
type pageSpec struct {
	SearchColumn string
	Sorts        SortColumns
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a LIKE pattern for a literal substring, escaped with '!'
// so it behaves the same on sqlite, postgres and mysql.
func containsPattern(s string) string { return "%" + likeEscaper.Replace(s) + "%" }

// Paginate runs the filtered, sorted and paged query for model T.
func Paginate[T any](ctx context.Context, db *gorm.DB, ps pageSpec, f domain.PaginationFilter) (domain.PaginatedResult[T], error) {
	f = f.Normalize()
	q := db.WithContext(ctx).Model(new(T))
	if s := f.SearchQuery; s != "" && ps.SearchColumn != "" {
		q = q.Where(ps.SearchColumn+" LIKE ? ESCAPE '!'", containsPattern(s))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return domain.PaginatedResult[T]{}, err
	}

	if col, ok := ps.Sorts.lookup(f.SortBy); ok {
		q = q.Order(clause.OrderByColumn{Column: col, Desc: f.IsDescending})
	}
	// id breaks ties so pages never overlap
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	items := make([]T, 0, f.PageSize)
	if err := q.Offset(f.Offset()).Limit(f.PageSize).Find(&items).Error; err != nil {
		return domain.PaginatedResult[T]{}, err
	}
	return domain.PaginatedResult[T]{
		Data:         items,
		TotalRecords: total,
		PageSize:     f.PageSize,
		CurrentPage:  f.PageNumber,
	}, nil
}
